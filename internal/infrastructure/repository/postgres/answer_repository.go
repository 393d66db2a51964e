package postgres

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/soccerates/prediction-league/internal/domain/answer"
	"github.com/soccerates/prediction-league/internal/platform/querybuilder"
)

var answerColumns = []string{
	"user_id", "fixture_id", "team1_goals", "team2_goals",
	"extra_time", "penalties", "points", "points_added",
}

type AnswerRepository struct {
	db *sqlx.DB
}

func NewAnswerRepository(db *sqlx.DB) *AnswerRepository {
	return &AnswerRepository{db: db}
}

func (r *AnswerRepository) GetByUserAndFixture(ctx context.Context, userID, fixtureID string) (answer.Answer, bool, error) {
	query, args, err := querybuilder.Select(answerColumns...).
		From("answers").
		Where(
			querybuilder.Eq("user_id", userID),
			querybuilder.Eq("fixture_id", fixtureID),
		).
		ToSQL()
	if err != nil {
		return answer.Answer{}, false, errors.Wrap(err, "build answer query")
	}

	var row answerRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return answer.Answer{}, false, nil
		}
		return answer.Answer{}, false, errors.Wrap(err, "query answer")
	}

	return row.toDomain(), true, nil
}

func (r *AnswerRepository) ListByFixture(ctx context.Context, fixtureID string) ([]answer.Answer, error) {
	return r.list(ctx, "user_id ASC", querybuilder.Eq("fixture_id", fixtureID))
}

func (r *AnswerRepository) ListByUser(ctx context.Context, userID string) ([]answer.Answer, error) {
	return r.list(ctx, "fixture_id ASC", querybuilder.Eq("user_id", userID))
}

func (r *AnswerRepository) list(ctx context.Context, order string, condition querybuilder.Condition) ([]answer.Answer, error) {
	query, args, err := querybuilder.Select(answerColumns...).
		From("answers").
		Where(condition).
		OrderBy(order).
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build answer list query")
	}

	var rows []answerRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "query answers")
	}

	answers := make([]answer.Answer, 0, len(rows))
	for _, row := range rows {
		answers = append(answers, row.toDomain())
	}
	return answers, nil
}

// UpsertPrediction writes prediction fields only. The conflict clause leaves
// points and points_added alone, so edits can never disturb scoring state.
func (r *AnswerRepository) UpsertPrediction(ctx context.Context, ans answer.Answer) error {
	query, args, err := querybuilder.InsertInto("answers").
		Columns("user_id", "fixture_id", "team1_goals", "team2_goals", "extra_time", "penalties").
		Values(ans.UserID, ans.FixtureID, ans.Team1Goals, ans.Team2Goals, ans.ExtraTime, ans.Penalties).
		Suffix(`ON CONFLICT (user_id, fixture_id) DO UPDATE SET
			team1_goals = EXCLUDED.team1_goals,
			team2_goals = EXCLUDED.team2_goals,
			extra_time = EXCLUDED.extra_time,
			penalties = EXCLUDED.penalties`).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build answer upsert")
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "upsert prediction")
	}
	return nil
}

func (r *AnswerRepository) SetPoints(ctx context.Context, userID, fixtureID string, points *int, added bool) error {
	var stored sql.NullInt64
	if points != nil {
		stored = sql.NullInt64{Int64: int64(*points), Valid: true}
	}

	query, args, err := querybuilder.Update("answers").
		Set("points", stored).
		Set("points_added", added).
		Where(
			querybuilder.Eq("user_id", userID),
			querybuilder.Eq("fixture_id", fixtureID),
		).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build points update")
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "update answer points")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "read affected rows")
	}
	if affected == 0 {
		return errors.Newf("answer (%s, %s) not found", userID, fixtureID)
	}

	return nil
}
