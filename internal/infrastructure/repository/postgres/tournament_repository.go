package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/soccerates/prediction-league/internal/domain/tournament"
	"github.com/soccerates/prediction-league/internal/platform/querybuilder"
)

var tournamentColumns = []string{"id", "name", "start_date", "has_group_stage"}

type TournamentRepository struct {
	db *sqlx.DB
}

func NewTournamentRepository(db *sqlx.DB) *TournamentRepository {
	return &TournamentRepository{db: db}
}

func (r *TournamentRepository) GetByID(ctx context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	query, args, err := querybuilder.Select(tournamentColumns...).
		From("tournaments").
		Where(querybuilder.Eq("id", tournamentID)).
		ToSQL()
	if err != nil {
		return tournament.Tournament{}, false, errors.Wrap(err, "build tournament query")
	}

	var row tournamentRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tournament.Tournament{}, false, nil
		}
		return tournament.Tournament{}, false, errors.Wrap(err, "query tournament")
	}

	return row.toDomain(), true, nil
}

func (r *TournamentRepository) List(ctx context.Context) ([]tournament.Tournament, error) {
	query, args, err := querybuilder.Select(tournamentColumns...).
		From("tournaments").
		OrderBy("start_date ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build tournament list query")
	}

	var rows []tournamentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "query tournaments")
	}

	tournaments := make([]tournament.Tournament, 0, len(rows))
	for _, row := range rows {
		tournaments = append(tournaments, row.toDomain())
	}
	return tournaments, nil
}
