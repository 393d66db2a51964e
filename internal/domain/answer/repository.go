package answer

import "context"

// Repository persists predictions. At most one answer exists per
// (user, fixture) pair. UpsertPrediction writes only the prediction fields
// and must leave any stored points untouched; SetPoints is the single write
// path for the scoring-owned fields.
type Repository interface {
	GetByUserAndFixture(ctx context.Context, userID, fixtureID string) (Answer, bool, error)
	ListByFixture(ctx context.Context, fixtureID string) ([]Answer, error)
	ListByUser(ctx context.Context, userID string) ([]Answer, error)
	UpsertPrediction(ctx context.Context, ans Answer) error
	SetPoints(ctx context.Context, userID, fixtureID string, points *int, added bool) error
}
