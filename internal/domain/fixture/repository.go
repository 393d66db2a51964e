package fixture

import "context"

// Repository exposes fixture persistence. GetByID is the previous-version
// read used by the result orchestration; it must reflect the last committed
// state, which the per-fixture lock in the use case layer guarantees is not
// invalidated mid-save.
type Repository interface {
	GetByID(ctx context.Context, fixtureID string) (Fixture, bool, error)
	Save(ctx context.Context, fx Fixture) error
	ListByTournament(ctx context.Context, tournamentID string) ([]Fixture, error)
	ListCompleted(ctx context.Context) ([]Fixture, error)
}
