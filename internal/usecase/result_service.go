package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/soccerates/prediction-league/internal/domain/answer"
	"github.com/soccerates/prediction-league/internal/domain/fixture"
	"github.com/soccerates/prediction-league/internal/domain/scoring"
	"github.com/soccerates/prediction-league/internal/platform/cache"
	"github.com/soccerates/prediction-league/internal/platform/logging"
	"github.com/soccerates/prediction-league/internal/platform/resilience"
)

// ResultService orchestrates a fixture save: it classifies the change
// against the stored version, persists the fixture, and propagates the
// result into team counters and user points. Saves for the same fixture are
// serialized through a keyed lock so the previous-version read stays valid
// for the whole propagation; saves for different fixtures run concurrently.
type ResultService struct {
	fixtures fixture.Repository
	answers  answer.Repository
	stats    *TeamStatsService
	ledger   *LedgerService
	locks    *resilience.KeyedMutex
	cache    *cache.Store
	logger   *logging.Logger
}

func NewResultService(
	fixtures fixture.Repository,
	answers answer.Repository,
	stats *TeamStatsService,
	ledger *LedgerService,
	store *cache.Store,
	logger *logging.Logger,
) *ResultService {
	return &ResultService{
		fixtures: fixtures,
		answers:  answers,
		stats:    stats,
		ledger:   ledger,
		locks:    resilience.NewKeyedMutex(),
		cache:    store,
		logger:   logger,
	}
}

// resultOf builds the scoring view of a completed fixture.
func resultOf(fx fixture.Fixture) scoring.Result {
	g1, g2 := fx.Goals()
	return scoring.Result{
		Team1Goals: g1,
		Team2Goals: g2,
		ExtraTime:  fx.ExtraTime,
		Penalties:  fx.Penalties,
		Knockout:   fixture.IsKnockout(fx.Stage),
	}
}

func predictionOf(ans answer.Answer) scoring.Prediction {
	return scoring.Prediction{
		Team1Goals: ans.Team1Goals,
		Team2Goals: ans.Team2Goals,
		ExtraTime:  ans.ExtraTime,
		Penalties:  ans.Penalties,
	}
}

// SaveResult persists fx and propagates whatever changed. It returns the
// transition that was carried out.
func (s *ResultService) SaveResult(ctx context.Context, fx fixture.Fixture) (Transition, error) {
	ctx, span := tracer().Start(ctx, "ResultService.SaveResult")
	defer span.End()
	span.SetAttributes(attribute.String("fixture.id", fx.ID))

	if err := fx.Validate(); err != nil {
		return TransitionNoOp, errors.Wrap(ErrInvalidInput, err.Error())
	}

	unlock := s.locks.Lock(fx.ID)
	defer unlock()

	var prevPtr *fixture.Fixture
	prev, found, err := s.fixtures.GetByID(ctx, fx.ID)
	if err != nil {
		return TransitionNoOp, errors.Wrap(err, "load stored fixture")
	}
	if found {
		prevPtr = &prev
	}

	transition := DetectTransition(prevPtr, &fx)

	if err := s.fixtures.Save(ctx, fx); err != nil {
		return TransitionNoOp, errors.Wrap(err, "save fixture")
	}

	switch transition {
	case TransitionNoOp:
		return transition, nil
	case TransitionResultAdded:
		err = s.propagateAdded(ctx, fx)
	case TransitionResultRemoved:
		err = s.propagateRemoved(ctx, prev)
	case TransitionResultUpdated:
		err = s.propagateUpdated(ctx, prev, fx)
	}
	if err != nil {
		return transition, err
	}

	s.cache.DeletePrefix(ctx, standingsCachePrefix(fx.TournamentID))

	s.logger.InfoContext(ctx, "fixture result saved",
		"fixtureID", fx.ID, "transition", transition.String())
	return transition, nil
}

func (s *ResultService) propagateAdded(ctx context.Context, fx fixture.Fixture) error {
	if err := s.stats.Apply(ctx, fx); err != nil {
		return err
	}

	res := resultOf(fx)
	answers, err := s.answers.ListByFixture(ctx, fx.ID)
	if err != nil {
		return errors.Wrap(err, "list answers for fixture")
	}
	for _, ans := range answers {
		points := scoring.Score(predictionOf(ans), res)
		if err := s.ledger.Credit(ctx, ans, fx.TournamentID, points); err != nil {
			return errors.Wrapf(err, "credit user %s", ans.UserID)
		}
	}
	return nil
}

func (s *ResultService) propagateRemoved(ctx context.Context, prev fixture.Fixture) error {
	if err := s.stats.Revert(ctx, prev); err != nil {
		return err
	}

	answers, err := s.answers.ListByFixture(ctx, prev.ID)
	if err != nil {
		return errors.Wrap(err, "list answers for fixture")
	}
	for _, ans := range answers {
		if err := s.ledger.Debit(ctx, ans, prev.TournamentID); err != nil {
			return errors.Wrapf(err, "debit user %s", ans.UserID)
		}
	}
	return nil
}

func (s *ResultService) propagateUpdated(ctx context.Context, prev, next fixture.Fixture) error {
	if err := s.stats.Reconcile(ctx, prev, next); err != nil {
		return err
	}

	res := resultOf(next)
	answers, err := s.answers.ListByFixture(ctx, next.ID)
	if err != nil {
		return errors.Wrap(err, "list answers for fixture")
	}
	for _, ans := range answers {
		points := scoring.Score(predictionOf(ans), res)
		if err := s.ledger.Adjust(ctx, ans, next.TournamentID, points); err != nil {
			return errors.Wrapf(err, "adjust user %s", ans.UserID)
		}
	}
	return nil
}

// ApplyResult sets or clears the result on a stored fixture and runs the
// full save path. Both goals must be given together; nil goals clear the
// result along with the flags.
func (s *ResultService) ApplyResult(ctx context.Context, fixtureID string, team1Goals, team2Goals *int, extraTime, penalties bool) (Transition, error) {
	if (team1Goals == nil) != (team2Goals == nil) {
		return TransitionNoOp, errors.Wrap(ErrInvalidInput, "goals must be set together")
	}

	fx, found, err := s.fixtures.GetByID(ctx, fixtureID)
	if err != nil {
		return TransitionNoOp, errors.Wrap(err, "load fixture")
	}
	if !found {
		return TransitionNoOp, errors.Wrapf(ErrNotFound, "fixture %s", fixtureID)
	}

	fx.Team1Goals = team1Goals
	fx.Team2Goals = team2Goals
	fx.ExtraTime = extraTime
	fx.Penalties = penalties
	if team1Goals == nil {
		fx.ExtraTime = false
		fx.Penalties = false
	}

	return s.SaveResult(ctx, fx)
}

// FixturesByTournament lists a tournament's fixtures in kickoff order.
func (s *ResultService) FixturesByTournament(ctx context.Context, tournamentID string) ([]fixture.Fixture, error) {
	if tournamentID == "" {
		return nil, errors.Wrap(ErrInvalidInput, "tournament id is required")
	}

	fixtures, err := s.fixtures.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, errors.Wrap(err, "list fixtures")
	}
	return fixtures, nil
}

// PreviewScore scores a hypothetical prediction against a fixture's recorded
// result without touching any stored state.
func (s *ResultService) PreviewScore(ctx context.Context, fixtureID string, pred scoring.Prediction) (int, error) {
	fx, found, err := s.fixtures.GetByID(ctx, fixtureID)
	if err != nil {
		return 0, errors.Wrap(err, "load fixture")
	}
	if !found {
		return 0, errors.Wrapf(ErrNotFound, "fixture %s", fixtureID)
	}
	if !fx.ResultAvailable() {
		return 0, errors.Wrapf(ErrInvalidInput, "fixture %s has no result to score against", fixtureID)
	}

	return scoring.Score(pred, resultOf(fx)), nil
}
