package tournament

import "context"

type Repository interface {
	GetByID(ctx context.Context, tournamentID string) (Tournament, bool, error)
	List(ctx context.Context) ([]Tournament, error)
}
