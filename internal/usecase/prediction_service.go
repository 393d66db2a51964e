package usecase

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/soccerates/prediction-league/internal/domain/answer"
	"github.com/soccerates/prediction-league/internal/domain/fixture"
	"github.com/soccerates/prediction-league/internal/platform/logging"
)

// PredictionService owns the user-facing edit path for answers. It writes
// prediction fields only; stored points survive any edit untouched. A
// prediction closes a configurable window before kickoff and stays closed
// once the fixture carries a result.
type PredictionService struct {
	answers  answer.Repository
	fixtures fixture.Repository
	cutoff   time.Duration
	now      func() time.Time
	logger   *logging.Logger
}

func NewPredictionService(
	answers answer.Repository,
	fixtures fixture.Repository,
	cutoff time.Duration,
	logger *logging.Logger,
) *PredictionService {
	return &PredictionService{
		answers:  answers,
		fixtures: fixtures,
		cutoff:   cutoff,
		now:      time.Now,
		logger:   logger,
	}
}

// Submit creates or replaces the user's prediction for a fixture.
func (s *PredictionService) Submit(ctx context.Context, ans answer.Answer) error {
	ctx, span := tracer().Start(ctx, "PredictionService.Submit")
	defer span.End()

	if err := ans.Validate(); err != nil {
		return errors.Wrap(ErrInvalidInput, err.Error())
	}

	fx, found, err := s.fixtures.GetByID(ctx, ans.FixtureID)
	if err != nil {
		return errors.Wrap(err, "load fixture")
	}
	if !found {
		return errors.Wrapf(ErrNotFound, "fixture %s", ans.FixtureID)
	}
	if fx.ResultAvailable() {
		return errors.Wrapf(ErrPredictionClosed, "fixture %s already has a result", ans.FixtureID)
	}
	if deadline := fx.MatchDate.Add(-s.cutoff); !s.now().Before(deadline) {
		return errors.Wrapf(ErrPredictionClosed, "fixture %s closed at %s", ans.FixtureID, deadline.Format(time.RFC3339))
	}

	if ans.ExtraTime && !fixture.IsKnockout(fx.Stage) {
		return errors.Wrapf(ErrInvalidInput, "fixture %s cannot go to extra time", ans.FixtureID)
	}
	if ans.Penalties && !ans.ExtraTime {
		return errors.Wrap(ErrInvalidInput, "penalties require extra time")
	}

	if err := s.answers.UpsertPrediction(ctx, ans); err != nil {
		return errors.Wrap(err, "store prediction")
	}

	s.logger.DebugContext(ctx, "prediction stored", "userID", ans.UserID, "fixtureID", ans.FixtureID)
	return nil
}

// ListForUser returns every prediction a user has made, including any
// scored points.
func (s *PredictionService) ListForUser(ctx context.Context, userID string) ([]answer.Answer, error) {
	if userID == "" {
		return nil, errors.Wrap(ErrInvalidInput, "user id is required")
	}

	answers, err := s.answers.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list predictions")
	}
	return answers, nil
}
