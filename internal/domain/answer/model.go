package answer

import "fmt"

// Answer is one user's scoreline prediction for one fixture. Points and
// PointsAdded are owned exclusively by the scoring subsystem: the
// user-facing edit path never writes them, and PointsAdded guards against
// crediting the same answer twice.
type Answer struct {
	UserID     string
	FixtureID  string
	Team1Goals int
	Team2Goals int
	ExtraTime  bool
	Penalties  bool

	Points      *int
	PointsAdded bool
}

func (a Answer) Validate() error {
	if a.UserID == "" {
		return fmt.Errorf("answer user id is required")
	}
	if a.FixtureID == "" {
		return fmt.Errorf("answer fixture id is required")
	}
	if a.Team1Goals < 0 || a.Team2Goals < 0 {
		return fmt.Errorf("predicted goals cannot be negative")
	}

	return nil
}
