package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/soccerates/prediction-league/internal/domain/team"
)

// TeamRepository is the in-memory team store used in tests and when no
// database URL is configured.
type TeamRepository struct {
	mu    sync.RWMutex
	teams map[string]team.Team
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{teams: make(map[string]team.Team)}
}

// Put inserts or replaces a team. It exists for seeding and tests; the
// engine itself only mutates counters through ApplyStatsDelta.
func (r *TeamRepository) Put(_ context.Context, t team.Team) error {
	if err := t.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	r.teams[t.ID] = t
	r.mu.Unlock()
	return nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.teams[teamID]
	return t, ok, nil
}

func (r *TeamRepository) ListByTournament(_ context.Context, tournamentID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []team.Team
	for _, t := range r.teams {
		if t.TournamentID == tournamentID {
			out = append(out, t)
		}
	}
	sortTeams(out)
	return out, nil
}

func (r *TeamRepository) ListByGroup(_ context.Context, tournamentID, group string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []team.Team
	for _, t := range r.teams {
		if t.TournamentID == tournamentID && t.Group == group {
			out = append(out, t)
		}
	}
	sortTeams(out)
	return out, nil
}

func (r *TeamRepository) ApplyStatsDelta(_ context.Context, teamID string, delta team.StatsDelta) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.teams[teamID]
	if !ok {
		return errors.Newf("team %s not found", teamID)
	}
	delta.ApplyTo(&t)
	r.teams[teamID] = t
	return nil
}

func sortTeams(teams []team.Team) {
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
}
