package team

import (
	"fmt"
	"strings"
)

// GroupNames are the valid group-stage labels.
var GroupNames = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

// Stats is one set of aggregate counters. Teams carry two: one across all
// stages and one restricted to group-stage fixtures.
type Stats struct {
	Played       int
	Won          int
	Drawn        int
	Lost         int
	GoalsFor     int
	GoalsAgainst int
}

// Points is the standings score: 3 per win, 1 per draw.
func (s Stats) Points() int {
	return 3*s.Won + s.Drawn
}

func (s Stats) GoalDifference() int {
	return s.GoalsFor - s.GoalsAgainst
}

// Team is one tournament side with its aggregate counters. Counters are
// mutated only through Repository.ApplyStatsDelta in response to fixture
// result saves.
type Team struct {
	ID           string
	TournamentID string
	Name         string
	CountryCode  string
	Group        string
	Stats        Stats
	GroupStats   Stats
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(t.TournamentID) == "" {
		return fmt.Errorf("team tournament id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	if !ValidGroup(t.Group) {
		return fmt.Errorf("invalid group name %q", t.Group)
	}

	return nil
}

// CheckCounters verifies the counter invariants: played equals the outcome
// sum, and every overall counter is at least its group-stage counterpart.
func (t Team) CheckCounters() error {
	if t.Stats.Played != t.Stats.Won+t.Stats.Drawn+t.Stats.Lost {
		return fmt.Errorf("team %s: played=%d does not match won+drawn+lost=%d",
			t.ID, t.Stats.Played, t.Stats.Won+t.Stats.Drawn+t.Stats.Lost)
	}
	if t.GroupStats.Played != t.GroupStats.Won+t.GroupStats.Drawn+t.GroupStats.Lost {
		return fmt.Errorf("team %s: group played=%d does not match group won+drawn+lost=%d",
			t.ID, t.GroupStats.Played, t.GroupStats.Won+t.GroupStats.Drawn+t.GroupStats.Lost)
	}
	if t.Stats.Played < t.GroupStats.Played ||
		t.Stats.Won < t.GroupStats.Won ||
		t.Stats.Drawn < t.GroupStats.Drawn ||
		t.Stats.Lost < t.GroupStats.Lost ||
		t.Stats.GoalsFor < t.GroupStats.GoalsFor ||
		t.Stats.GoalsAgainst < t.GroupStats.GoalsAgainst {
		return fmt.Errorf("team %s: overall counters fell below group counters", t.ID)
	}

	return nil
}

func ValidGroup(group string) bool {
	for _, name := range GroupNames {
		if group == name {
			return true
		}
	}
	return false
}

// StatsDelta is an additive adjustment to a team's counters. Negative values
// subtract. The group-scoped fields are only populated for group-stage
// fixtures.
type StatsDelta struct {
	Played       int
	Won          int
	Drawn        int
	Lost         int
	GoalsFor     int
	GoalsAgainst int

	GroupPlayed       int
	GroupWon          int
	GroupDrawn        int
	GroupLost         int
	GroupGoalsFor     int
	GroupGoalsAgainst int
}

func (d StatsDelta) IsZero() bool {
	return d == StatsDelta{}
}

// Neg returns the exact inverse adjustment.
func (d StatsDelta) Neg() StatsDelta {
	return StatsDelta{
		Played:            -d.Played,
		Won:               -d.Won,
		Drawn:             -d.Drawn,
		Lost:              -d.Lost,
		GoalsFor:          -d.GoalsFor,
		GoalsAgainst:      -d.GoalsAgainst,
		GroupPlayed:       -d.GroupPlayed,
		GroupWon:          -d.GroupWon,
		GroupDrawn:        -d.GroupDrawn,
		GroupLost:         -d.GroupLost,
		GroupGoalsFor:     -d.GroupGoalsFor,
		GroupGoalsAgainst: -d.GroupGoalsAgainst,
	}
}

// Sub returns the component-wise difference d - other.
func (d StatsDelta) Sub(other StatsDelta) StatsDelta {
	return StatsDelta{
		Played:            d.Played - other.Played,
		Won:               d.Won - other.Won,
		Drawn:             d.Drawn - other.Drawn,
		Lost:              d.Lost - other.Lost,
		GoalsFor:          d.GoalsFor - other.GoalsFor,
		GoalsAgainst:      d.GoalsAgainst - other.GoalsAgainst,
		GroupPlayed:       d.GroupPlayed - other.GroupPlayed,
		GroupWon:          d.GroupWon - other.GroupWon,
		GroupDrawn:        d.GroupDrawn - other.GroupDrawn,
		GroupLost:         d.GroupLost - other.GroupLost,
		GroupGoalsFor:     d.GroupGoalsFor - other.GroupGoalsFor,
		GroupGoalsAgainst: d.GroupGoalsAgainst - other.GroupGoalsAgainst,
	}
}

// ApplyTo adds the delta to a team's counters in place.
func (d StatsDelta) ApplyTo(t *Team) {
	t.Stats.Played += d.Played
	t.Stats.Won += d.Won
	t.Stats.Drawn += d.Drawn
	t.Stats.Lost += d.Lost
	t.Stats.GoalsFor += d.GoalsFor
	t.Stats.GoalsAgainst += d.GoalsAgainst
	t.GroupStats.Played += d.GroupPlayed
	t.GroupStats.Won += d.GroupWon
	t.GroupStats.Drawn += d.GroupDrawn
	t.GroupStats.Lost += d.GroupLost
	t.GroupStats.GoalsFor += d.GroupGoalsFor
	t.GroupStats.GoalsAgainst += d.GroupGoalsAgainst
}
