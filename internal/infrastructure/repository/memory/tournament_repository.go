package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/soccerates/prediction-league/internal/domain/tournament"
)

type TournamentRepository struct {
	mu          sync.RWMutex
	tournaments map[string]tournament.Tournament
}

func NewTournamentRepository() *TournamentRepository {
	return &TournamentRepository{tournaments: make(map[string]tournament.Tournament)}
}

func (r *TournamentRepository) Put(_ context.Context, t tournament.Tournament) error {
	if err := t.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	r.tournaments[t.ID] = t
	r.mu.Unlock()
	return nil
}

func (r *TournamentRepository) GetByID(_ context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tournaments[tournamentID]
	return t, ok, nil
}

func (r *TournamentRepository) List(_ context.Context) ([]tournament.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []tournament.Tournament
	for _, t := range r.tournaments {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
