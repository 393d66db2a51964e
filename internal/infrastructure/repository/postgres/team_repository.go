package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/soccerates/prediction-league/internal/domain/team"
	"github.com/soccerates/prediction-league/internal/platform/querybuilder"
)

var teamColumns = []string{
	"id", "tournament_id", "name", "country_code", "group_name",
	"played", "won", "drawn", "lost", "goals_for", "goals_against",
	"group_played", "group_won", "group_drawn", "group_lost",
	"group_goals_for", "group_goals_against",
}

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := querybuilder.Select(teamColumns...).
		From("teams").
		Where(querybuilder.Eq("id", teamID)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, errors.Wrap(err, "build team query")
	}

	var row teamRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, errors.Wrap(err, "query team")
	}

	return row.toDomain(), true, nil
}

func (r *TeamRepository) ListByTournament(ctx context.Context, tournamentID string) ([]team.Team, error) {
	return r.list(ctx, querybuilder.Eq("tournament_id", tournamentID))
}

func (r *TeamRepository) ListByGroup(ctx context.Context, tournamentID, group string) ([]team.Team, error) {
	return r.list(ctx,
		querybuilder.Eq("tournament_id", tournamentID),
		querybuilder.Eq("group_name", group),
	)
}

func (r *TeamRepository) list(ctx context.Context, conditions ...querybuilder.Condition) ([]team.Team, error) {
	query, args, err := querybuilder.Select(teamColumns...).
		From("teams").
		Where(conditions...).
		OrderBy("name ASC").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build team list query")
	}

	var rows []teamRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "query teams")
	}

	teams := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		teams = append(teams, row.toDomain())
	}
	return teams, nil
}

// ApplyStatsDelta increments the stored counters in one UPDATE so concurrent
// saves on other fixtures never lose increments to a read-modify-write race.
func (r *TeamRepository) ApplyStatsDelta(ctx context.Context, teamID string, delta team.StatsDelta) error {
	builder := querybuilder.Update("teams").
		Inc("played", delta.Played).
		Inc("won", delta.Won).
		Inc("drawn", delta.Drawn).
		Inc("lost", delta.Lost).
		Inc("goals_for", delta.GoalsFor).
		Inc("goals_against", delta.GoalsAgainst).
		Inc("group_played", delta.GroupPlayed).
		Inc("group_won", delta.GroupWon).
		Inc("group_drawn", delta.GroupDrawn).
		Inc("group_lost", delta.GroupLost).
		Inc("group_goals_for", delta.GroupGoalsFor).
		Inc("group_goals_against", delta.GroupGoalsAgainst)
	if builder.Empty() {
		return nil
	}

	query, args, err := builder.Where(querybuilder.Eq("id", teamID)).ToSQL()
	if err != nil {
		return errors.Wrap(err, "build stats update")
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "update team stats")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "read affected rows")
	}
	if affected == 0 {
		return errors.Newf("team %s not found", teamID)
	}

	return nil
}
