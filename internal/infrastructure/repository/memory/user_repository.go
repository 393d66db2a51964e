package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/soccerates/prediction-league/internal/domain/user"
)

type subtotalKey struct {
	userID       string
	tournamentID string
}

type UserRepository struct {
	mu        sync.RWMutex
	profiles  map[string]user.Profile
	subtotals map[subtotalKey]int
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		profiles:  make(map[string]user.Profile),
		subtotals: make(map[subtotalKey]int),
	}
}

func (r *UserRepository) GetProfile(_ context.Context, userID string) (user.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[userID]
	return p, ok, nil
}

func (r *UserRepository) CreateProfile(_ context.Context, profile user.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[profile.UserID]; ok {
		return errors.Newf("profile %s already exists", profile.UserID)
	}
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *UserRepository) ListProfiles(_ context.Context) ([]user.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []user.Profile
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *UserRepository) AddPoints(_ context.Context, userID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		return errors.Newf("profile %s not found", userID)
	}
	p.Points += delta
	r.profiles[userID] = p
	return nil
}

func (r *UserRepository) EnsureTournamentPoints(_ context.Context, userID, tournamentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := subtotalKey{userID, tournamentID}
	if _, ok := r.subtotals[key]; !ok {
		r.subtotals[key] = 0
	}
	return nil
}

func (r *UserRepository) AddTournamentPoints(_ context.Context, userID, tournamentID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.subtotals[subtotalKey{userID, tournamentID}] += delta
	return nil
}

func (r *UserRepository) ListTournamentPointsByUser(_ context.Context, userID string) ([]user.TournamentPoints, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []user.TournamentPoints
	for key, points := range r.subtotals {
		if key.userID == userID {
			out = append(out, user.TournamentPoints{
				UserID:       userID,
				TournamentID: key.tournamentID,
				Points:       points,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TournamentID < out[j].TournamentID })
	return out, nil
}
