package user

import "context"

// Repository persists profiles and per-tournament subtotals. AddPoints and
// AddTournamentPoints are atomic increments against the stored totals;
// EnsureTournamentPoints creates the (user, tournament) row at zero when it
// does not exist yet.
type Repository interface {
	GetProfile(ctx context.Context, userID string) (Profile, bool, error)
	CreateProfile(ctx context.Context, profile Profile) error
	ListProfiles(ctx context.Context) ([]Profile, error)
	AddPoints(ctx context.Context, userID string, delta int) error

	EnsureTournamentPoints(ctx context.Context, userID, tournamentID string) error
	AddTournamentPoints(ctx context.Context, userID, tournamentID string, delta int) error
	ListTournamentPointsByUser(ctx context.Context, userID string) ([]TournamentPoints, error)
}
