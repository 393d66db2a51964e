package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/soccerates/prediction-league/internal/domain/user"
	"github.com/soccerates/prediction-league/internal/platform/querybuilder"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetProfile(ctx context.Context, userID string) (user.Profile, bool, error) {
	query, args, err := querybuilder.Select("user_id", "username", "points").
		From("profiles").
		Where(querybuilder.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return user.Profile{}, false, errors.Wrap(err, "build profile query")
	}

	var row profileRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.Profile{}, false, nil
		}
		return user.Profile{}, false, errors.Wrap(err, "query profile")
	}

	return row.toDomain(), true, nil
}

func (r *UserRepository) CreateProfile(ctx context.Context, profile user.Profile) error {
	query, args, err := querybuilder.InsertInto("profiles").
		Columns("user_id", "username", "points").
		Values(profile.UserID, profile.Username, profile.Points).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build profile insert")
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "create profile")
	}
	return nil
}

func (r *UserRepository) ListProfiles(ctx context.Context) ([]user.Profile, error) {
	query, args, err := querybuilder.Select("user_id", "username", "points").
		From("profiles").
		OrderBy("user_id ASC").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build profile list query")
	}

	var rows []profileRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "query profiles")
	}

	profiles := make([]user.Profile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, row.toDomain())
	}
	return profiles, nil
}

// AddPoints moves the total by delta in a single UPDATE so concurrent
// fixture saves cannot lose increments.
func (r *UserRepository) AddPoints(ctx context.Context, userID string, delta int) error {
	if delta == 0 {
		return nil
	}

	query, args, err := querybuilder.Update("profiles").
		Inc("points", delta).
		Where(querybuilder.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build points update")
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "update profile points")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "read affected rows")
	}
	if affected == 0 {
		return errors.Newf("profile %s not found", userID)
	}

	return nil
}

func (r *UserRepository) EnsureTournamentPoints(ctx context.Context, userID, tournamentID string) error {
	query, args, err := querybuilder.InsertInto("tournament_points").
		Columns("user_id", "tournament_id", "points").
		Values(userID, tournamentID, 0).
		Suffix("ON CONFLICT (user_id, tournament_id) DO NOTHING").
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build subtotal insert")
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "ensure tournament points")
	}
	return nil
}

func (r *UserRepository) AddTournamentPoints(ctx context.Context, userID, tournamentID string, delta int) error {
	if delta == 0 {
		return nil
	}

	query, args, err := querybuilder.InsertInto("tournament_points").
		Columns("user_id", "tournament_id", "points").
		Values(userID, tournamentID, delta).
		Suffix("ON CONFLICT (user_id, tournament_id) DO UPDATE SET points = tournament_points.points + EXCLUDED.points").
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build subtotal upsert")
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "add tournament points")
	}
	return nil
}

func (r *UserRepository) ListTournamentPointsByUser(ctx context.Context, userID string) ([]user.TournamentPoints, error) {
	query, args, err := querybuilder.Select("user_id", "tournament_id", "points").
		From("tournament_points").
		Where(querybuilder.Eq("user_id", userID)).
		OrderBy("tournament_id ASC").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build subtotal list query")
	}

	var rows []tournamentPointsRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "query tournament points")
	}

	subtotals := make([]user.TournamentPoints, 0, len(rows))
	for _, row := range rows {
		subtotals = append(subtotals, row.toDomain())
	}
	return subtotals, nil
}
