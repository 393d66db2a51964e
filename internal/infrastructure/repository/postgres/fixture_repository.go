package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/soccerates/prediction-league/internal/domain/fixture"
	"github.com/soccerates/prediction-league/internal/platform/querybuilder"
)

var fixtureColumns = []string{
	"id", "tournament_id", "team1_id", "team2_id", "group_name", "stage",
	"match_date", "team1_goals", "team2_goals", "extra_time", "penalties",
}

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) GetByID(ctx context.Context, fixtureID string) (fixture.Fixture, bool, error) {
	query, args, err := querybuilder.Select(fixtureColumns...).
		From("fixtures").
		Where(querybuilder.Eq("id", fixtureID)).
		ToSQL()
	if err != nil {
		return fixture.Fixture{}, false, errors.Wrap(err, "build fixture query")
	}

	var row fixtureRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, errors.Wrap(err, "query fixture")
	}

	return row.toDomain(), true, nil
}

func (r *FixtureRepository) Save(ctx context.Context, fx fixture.Fixture) error {
	query, args, err := querybuilder.InsertInto("fixtures").
		Columns(fixtureColumns...).
		Values(
			fx.ID, fx.TournamentID, fx.Team1ID, fx.Team2ID, fx.Group, fx.Stage,
			fx.MatchDate, nullGoals(fx.Team1Goals), nullGoals(fx.Team2Goals),
			fx.ExtraTime, fx.Penalties,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			tournament_id = EXCLUDED.tournament_id,
			team1_id = EXCLUDED.team1_id,
			team2_id = EXCLUDED.team2_id,
			group_name = EXCLUDED.group_name,
			stage = EXCLUDED.stage,
			match_date = EXCLUDED.match_date,
			team1_goals = EXCLUDED.team1_goals,
			team2_goals = EXCLUDED.team2_goals,
			extra_time = EXCLUDED.extra_time,
			penalties = EXCLUDED.penalties`).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build fixture upsert")
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "save fixture")
	}
	return nil
}

func (r *FixtureRepository) ListByTournament(ctx context.Context, tournamentID string) ([]fixture.Fixture, error) {
	return r.list(ctx, querybuilder.Eq("tournament_id", tournamentID))
}

func (r *FixtureRepository) ListCompleted(ctx context.Context) ([]fixture.Fixture, error) {
	return r.list(ctx,
		querybuilder.NotNull("team1_goals"),
		querybuilder.NotNull("team2_goals"),
	)
}

func (r *FixtureRepository) list(ctx context.Context, conditions ...querybuilder.Condition) ([]fixture.Fixture, error) {
	query, args, err := querybuilder.Select(fixtureColumns...).
		From("fixtures").
		Where(conditions...).
		OrderBy("match_date ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build fixture list query")
	}

	var rows []fixtureRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "query fixtures")
	}

	fixtures := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		fixtures = append(fixtures, row.toDomain())
	}
	return fixtures, nil
}
