package fixture

import (
	"fmt"
	"strings"
	"time"
)

const (
	StageGroup        = "GROUP"
	StageLast16       = "LAST_16"
	StageQuarterFinal = "QUARTER_FINAL"
	StageSemiFinal    = "SEMI_FINAL"
	StageThirdPlace   = "THIRD_PLACE"
	StageFinal        = "FINAL"
)

var stageOrder = []string{
	StageGroup,
	StageLast16,
	StageQuarterFinal,
	StageSemiFinal,
	StageThirdPlace,
	StageFinal,
}

func ValidStage(stage string) bool {
	for _, s := range stageOrder {
		if stage == s {
			return true
		}
	}
	return false
}

// IsKnockout reports whether a stage can go beyond normal time. The
// third-place playoff counts as knockout for extra-time and penalty scoring.
func IsKnockout(stage string) bool {
	return ValidStage(stage) && stage != StageGroup
}

// Fixture is one scheduled match between two teams within a tournament.
// Team1Goals and Team2Goals are either both nil (no result recorded) or both
// set; a partial result is invalid. ExtraTime and Penalties record how the
// match actually finished, not predictions.
type Fixture struct {
	ID           string
	TournamentID string
	Team1ID      string
	Team2ID      string
	Group        string
	Stage        string
	MatchDate    time.Time
	Team1Goals   *int
	Team2Goals   *int
	ExtraTime    bool
	Penalties    bool
}

func (f Fixture) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("fixture id is required")
	}
	if strings.TrimSpace(f.TournamentID) == "" {
		return fmt.Errorf("fixture tournament id is required")
	}
	if f.Team1ID == "" || f.Team2ID == "" {
		return fmt.Errorf("fixture requires two teams")
	}
	if f.Team1ID == f.Team2ID {
		return fmt.Errorf("fixture teams must be distinct")
	}
	if !ValidStage(f.Stage) {
		return fmt.Errorf("invalid stage %q", f.Stage)
	}
	if f.Stage == StageGroup && strings.TrimSpace(f.Group) == "" {
		return fmt.Errorf("group-stage fixture requires a group")
	}
	if (f.Team1Goals == nil) != (f.Team2Goals == nil) {
		return fmt.Errorf("fixture goals must be set together")
	}
	if f.Team1Goals != nil && (*f.Team1Goals < 0 || *f.Team2Goals < 0) {
		return fmt.Errorf("fixture goals cannot be negative")
	}

	return nil
}

// ResultAvailable reports whether a complete result is recorded.
func (f Fixture) ResultAvailable() bool {
	return f.Team1Goals != nil && f.Team2Goals != nil
}

// Goals returns the recorded scoreline. Only meaningful when
// ResultAvailable is true.
func (f Fixture) Goals() (int, int) {
	if !f.ResultAvailable() {
		return 0, 0
	}
	return *f.Team1Goals, *f.Team2Goals
}

func (f Fixture) IsDraw() bool {
	if !f.ResultAvailable() {
		return false
	}
	return *f.Team1Goals == *f.Team2Goals
}

// WinnerTeamID returns the winning side's team id, or "" for a draw or a
// fixture without a result. Winner determination is purely numeric
// comparison of the goal totals, regardless of stage.
func (f Fixture) WinnerTeamID() string {
	if !f.ResultAvailable() || f.IsDraw() {
		return ""
	}
	if *f.Team1Goals > *f.Team2Goals {
		return f.Team1ID
	}
	return f.Team2ID
}

func (f Fixture) LoserTeamID() string {
	switch f.WinnerTeamID() {
	case "":
		return ""
	case f.Team1ID:
		return f.Team2ID
	default:
		return f.Team1ID
	}
}

// Involves reports whether teamID plays in this fixture.
func (f Fixture) Involves(teamID string) bool {
	return teamID == f.Team1ID || teamID == f.Team2ID
}

// SameResult reports whether two versions of a fixture carry the identical
// result: same goal counts and same extra-time/penalty flags.
func (f Fixture) SameResult(other Fixture) bool {
	if f.ResultAvailable() != other.ResultAvailable() {
		return false
	}
	if !f.ResultAvailable() {
		return true
	}
	return *f.Team1Goals == *other.Team1Goals &&
		*f.Team2Goals == *other.Team2Goals &&
		f.ExtraTime == other.ExtraTime &&
		f.Penalties == other.Penalties
}
