package usecase

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/soccerates/prediction-league/internal/domain/team"
	"github.com/soccerates/prediction-league/internal/domain/tournament"
	"github.com/soccerates/prediction-league/internal/platform/cache"
	"github.com/soccerates/prediction-league/internal/platform/logging"
)

// StandingsRow is one team's line in a standings table.
type StandingsRow struct {
	TeamID         string `json:"teamId"`
	Name           string `json:"name"`
	CountryCode    string `json:"countryCode"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
	Points         int    `json:"points"`
}

// StandingsService derives standings tables from team counters. Tables are
// cached per tournament and dropped whenever a result save touches that
// tournament.
type StandingsService struct {
	teams       team.Repository
	tournaments tournament.Repository
	cache       *cache.Store
	logger      *logging.Logger
}

func NewStandingsService(
	teams team.Repository,
	tournaments tournament.Repository,
	store *cache.Store,
	logger *logging.Logger,
) *StandingsService {
	return &StandingsService{teams: teams, tournaments: tournaments, cache: store, logger: logger}
}

func standingsCachePrefix(tournamentID string) string {
	return "standings:" + tournamentID + ":"
}

// GroupTable returns the table for one group, ranked on group-stage
// counters only.
func (s *StandingsService) GroupTable(ctx context.Context, tournamentID, group string) ([]StandingsRow, error) {
	if !team.ValidGroup(group) {
		return nil, errors.Wrapf(ErrInvalidInput, "invalid group %q", group)
	}
	if err := s.checkTournament(ctx, tournamentID); err != nil {
		return nil, err
	}

	key := standingsCachePrefix(tournamentID) + "group:" + group
	value, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		teams, err := s.teams.ListByGroup(ctx, tournamentID, group)
		if err != nil {
			return nil, errors.Wrap(err, "list group teams")
		}
		rows := make([]StandingsRow, 0, len(teams))
		for _, t := range teams {
			rows = append(rows, rowFromStats(t, t.GroupStats))
		}
		sortStandings(rows)
		return rows, nil
	})
	if err != nil {
		return nil, err
	}

	return value.([]StandingsRow), nil
}

// OverallTable ranks every team of the tournament on counters across all
// stages.
func (s *StandingsService) OverallTable(ctx context.Context, tournamentID string) ([]StandingsRow, error) {
	if err := s.checkTournament(ctx, tournamentID); err != nil {
		return nil, err
	}

	key := standingsCachePrefix(tournamentID) + "overall"
	value, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		teams, err := s.teams.ListByTournament(ctx, tournamentID)
		if err != nil {
			return nil, errors.Wrap(err, "list tournament teams")
		}
		rows := make([]StandingsRow, 0, len(teams))
		for _, t := range teams {
			rows = append(rows, rowFromStats(t, t.Stats))
		}
		sortStandings(rows)
		return rows, nil
	})
	if err != nil {
		return nil, err
	}

	return value.([]StandingsRow), nil
}

// Tournaments lists the known tournaments in start-date order.
func (s *StandingsService) Tournaments(ctx context.Context) ([]tournament.Tournament, error) {
	tournaments, err := s.tournaments.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list tournaments")
	}
	return tournaments, nil
}

func (s *StandingsService) checkTournament(ctx context.Context, tournamentID string) error {
	_, found, err := s.tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		return errors.Wrap(err, "load tournament")
	}
	if !found {
		return errors.Wrapf(ErrNotFound, "tournament %s", tournamentID)
	}
	return nil
}

func rowFromStats(t team.Team, stats team.Stats) StandingsRow {
	return StandingsRow{
		TeamID:         t.ID,
		Name:           t.Name,
		CountryCode:    t.CountryCode,
		Played:         stats.Played,
		Won:            stats.Won,
		Drawn:          stats.Drawn,
		Lost:           stats.Lost,
		GoalsFor:       stats.GoalsFor,
		GoalsAgainst:   stats.GoalsAgainst,
		GoalDifference: stats.GoalDifference(),
		Points:         stats.Points(),
	}
}

// sortStandings ranks by points, then goal difference, then goals scored,
// then name for a stable presentation order.
func sortStandings(rows []StandingsRow) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.Name < b.Name
	})
}
