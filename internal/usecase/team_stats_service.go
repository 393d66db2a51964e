package usecase

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/soccerates/prediction-league/internal/domain/fixture"
	"github.com/soccerates/prediction-league/internal/domain/team"
	"github.com/soccerates/prediction-league/internal/platform/logging"
)

// TeamStatsService propagates fixture results into team counters. All three
// mutations are expressed as additive deltas handed to the repository, so an
// update never reverts-then-reapplies and concurrent saves on other fixtures
// cannot interleave a half-applied state.
type TeamStatsService struct {
	teams  team.Repository
	logger *logging.Logger
}

func NewTeamStatsService(teams team.Repository, logger *logging.Logger) *TeamStatsService {
	return &TeamStatsService{teams: teams, logger: logger}
}

// statsDeltaFor computes the counter adjustment one result contributes to a
// single side of the fixture. The fixture must carry a result.
func statsDeltaFor(fx fixture.Fixture, teamID string) team.StatsDelta {
	g1, g2 := fx.Goals()
	gf, ga := g1, g2
	if teamID == fx.Team2ID {
		gf, ga = g2, g1
	}

	d := team.StatsDelta{Played: 1, GoalsFor: gf, GoalsAgainst: ga}
	switch {
	case fx.IsDraw():
		d.Drawn = 1
	case fx.WinnerTeamID() == teamID:
		d.Won = 1
	default:
		d.Lost = 1
	}

	if fx.Stage == fixture.StageGroup {
		d.GroupPlayed = d.Played
		d.GroupWon = d.Won
		d.GroupDrawn = d.Drawn
		d.GroupLost = d.Lost
		d.GroupGoalsFor = d.GoalsFor
		d.GroupGoalsAgainst = d.GoalsAgainst
	}

	return d
}

// Apply credits a newly recorded result to both teams.
func (s *TeamStatsService) Apply(ctx context.Context, fx fixture.Fixture) error {
	if !fx.ResultAvailable() {
		return errors.Wrapf(ErrInvariantViolation, "apply stats for fixture %s without result", fx.ID)
	}

	for _, teamID := range []string{fx.Team1ID, fx.Team2ID} {
		if err := s.teams.ApplyStatsDelta(ctx, teamID, statsDeltaFor(fx, teamID)); err != nil {
			return errors.Wrapf(err, "apply stats delta for team %s", teamID)
		}
	}

	s.logger.DebugContext(ctx, "applied fixture result to team stats", "fixtureID", fx.ID)
	return nil
}

// Revert undoes a previously applied result, restoring both teams to the
// counters they held before it.
func (s *TeamStatsService) Revert(ctx context.Context, fx fixture.Fixture) error {
	if !fx.ResultAvailable() {
		return errors.Wrapf(ErrInvariantViolation, "revert stats for fixture %s without result", fx.ID)
	}

	for _, teamID := range []string{fx.Team1ID, fx.Team2ID} {
		if err := s.teams.ApplyStatsDelta(ctx, teamID, statsDeltaFor(fx, teamID).Neg()); err != nil {
			return errors.Wrapf(err, "revert stats delta for team %s", teamID)
		}
	}

	s.logger.DebugContext(ctx, "reverted fixture result from team stats", "fixtureID", fx.ID)
	return nil
}

// Reconcile moves both teams from the counters implied by prev to the ones
// implied by next in a single adjustment per team. Components unchanged
// between the versions, such as Played on a goals-only correction, cancel to
// zero and produce no write at all.
func (s *TeamStatsService) Reconcile(ctx context.Context, prev, next fixture.Fixture) error {
	if !prev.ResultAvailable() || !next.ResultAvailable() {
		return errors.Wrapf(ErrInvariantViolation, "reconcile stats for fixture %s without both results", next.ID)
	}

	for _, teamID := range []string{next.Team1ID, next.Team2ID} {
		delta := statsDeltaFor(next, teamID).Sub(statsDeltaFor(prev, teamID))
		if delta.IsZero() {
			continue
		}
		if err := s.teams.ApplyStatsDelta(ctx, teamID, delta); err != nil {
			return errors.Wrapf(err, "reconcile stats delta for team %s", teamID)
		}
	}

	s.logger.DebugContext(ctx, "reconciled fixture result in team stats", "fixtureID", next.ID)
	return nil
}
