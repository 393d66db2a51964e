package usecase

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/soccerates/prediction-league/internal/domain/answer"
	"github.com/soccerates/prediction-league/internal/domain/user"
	"github.com/soccerates/prediction-league/internal/platform/logging"
)

// LedgerService is the only writer of scoring-owned state: the points stored
// on an answer, the user's overall total and the per-tournament subtotal.
// Every mutation keeps the three in step, and the PointsAdded flag on the
// answer makes crediting idempotent under redelivery.
type LedgerService struct {
	answers answer.Repository
	users   user.Repository
	logger  *logging.Logger
}

func NewLedgerService(answers answer.Repository, users user.Repository, logger *logging.Logger) *LedgerService {
	return &LedgerService{answers: answers, users: users, logger: logger}
}

// Credit records points for an answer scored for the first time. An answer
// already carrying credited points is left untouched, so replaying the same
// result never double-counts.
func (s *LedgerService) Credit(ctx context.Context, ans answer.Answer, tournamentID string, points int) error {
	if ans.PointsAdded {
		return nil
	}

	if err := s.answers.SetPoints(ctx, ans.UserID, ans.FixtureID, &points, true); err != nil {
		return errors.Wrap(err, "store answer points")
	}
	if err := s.users.EnsureTournamentPoints(ctx, ans.UserID, tournamentID); err != nil {
		return errors.Wrap(err, "ensure tournament subtotal")
	}
	if err := s.users.AddPoints(ctx, ans.UserID, points); err != nil {
		return errors.Wrap(err, "add profile points")
	}
	if err := s.users.AddTournamentPoints(ctx, ans.UserID, tournamentID, points); err != nil {
		return errors.Wrap(err, "add tournament points")
	}

	s.logger.DebugContext(ctx, "credited answer",
		"userID", ans.UserID, "fixtureID", ans.FixtureID, "points", points)
	return nil
}

// Debit withdraws previously credited points, used when a fixture's result
// is removed. Answers never credited are left untouched.
func (s *LedgerService) Debit(ctx context.Context, ans answer.Answer, tournamentID string) error {
	if !ans.PointsAdded {
		return nil
	}
	if ans.Points == nil {
		return errors.Wrapf(ErrInvariantViolation,
			"answer (%s, %s) flagged credited without stored points", ans.UserID, ans.FixtureID)
	}
	old := *ans.Points

	if err := s.answers.SetPoints(ctx, ans.UserID, ans.FixtureID, nil, false); err != nil {
		return errors.Wrap(err, "clear answer points")
	}
	if err := s.users.AddPoints(ctx, ans.UserID, -old); err != nil {
		return errors.Wrap(err, "remove profile points")
	}
	if err := s.users.AddTournamentPoints(ctx, ans.UserID, tournamentID, -old); err != nil {
		return errors.Wrap(err, "remove tournament points")
	}

	s.logger.DebugContext(ctx, "debited answer",
		"userID", ans.UserID, "fixtureID", ans.FixtureID, "points", old)
	return nil
}

// Adjust replaces previously credited points with a new score after a result
// correction, moving the totals by the difference only. Answers not yet
// credited fall through to Credit, which covers results that appear while a
// prior save attempt failed midway.
func (s *LedgerService) Adjust(ctx context.Context, ans answer.Answer, tournamentID string, points int) error {
	if !ans.PointsAdded {
		return s.Credit(ctx, ans, tournamentID, points)
	}
	if ans.Points == nil {
		return errors.Wrapf(ErrInvariantViolation,
			"answer (%s, %s) flagged credited without stored points", ans.UserID, ans.FixtureID)
	}

	delta := points - *ans.Points
	if delta == 0 {
		return nil
	}

	if err := s.answers.SetPoints(ctx, ans.UserID, ans.FixtureID, &points, true); err != nil {
		return errors.Wrap(err, "store answer points")
	}
	if err := s.users.AddPoints(ctx, ans.UserID, delta); err != nil {
		return errors.Wrap(err, "adjust profile points")
	}
	if err := s.users.AddTournamentPoints(ctx, ans.UserID, tournamentID, delta); err != nil {
		return errors.Wrap(err, "adjust tournament points")
	}

	s.logger.DebugContext(ctx, "adjusted answer",
		"userID", ans.UserID, "fixtureID", ans.FixtureID, "points", points, "delta", delta)
	return nil
}
