package user

import "fmt"

// Profile holds a user's total accumulated points across all tournaments.
// Exactly one profile exists per user, created in the same operation as the
// user itself.
type Profile struct {
	UserID   string
	Username string
	Points   int
}

func (p Profile) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("profile user id is required")
	}
	if p.Username == "" {
		return fmt.Errorf("profile username is required")
	}

	return nil
}

// TournamentPoints is one user's subtotal for one tournament. The sum of a
// user's subtotals across tournaments must equal Profile.Points; the
// consistency auditor checks that rather than assuming it.
type TournamentPoints struct {
	UserID       string
	TournamentID string
	Points       int
}
