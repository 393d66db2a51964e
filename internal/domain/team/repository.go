package team

import "context"

// Repository describes team persistence needs from use cases. ApplyStatsDelta
// must be atomic per team: implementations increment the stored counters in
// one operation rather than read-modify-write on cached values.
type Repository interface {
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]Team, error)
	ListByGroup(ctx context.Context, tournamentID, group string) ([]Team, error)
	ApplyStatsDelta(ctx context.Context, teamID string, delta StatsDelta) error
}
