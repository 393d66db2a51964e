package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/soccerates/prediction-league/internal/domain/fixture"
)

type FixtureRepository struct {
	mu       sync.RWMutex
	fixtures map[string]fixture.Fixture
}

func NewFixtureRepository() *FixtureRepository {
	return &FixtureRepository{fixtures: make(map[string]fixture.Fixture)}
}

func (r *FixtureRepository) GetByID(_ context.Context, fixtureID string) (fixture.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fx, ok := r.fixtures[fixtureID]
	return cloneFixture(fx), ok, nil
}

func (r *FixtureRepository) Save(_ context.Context, fx fixture.Fixture) error {
	if err := fx.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	r.fixtures[fx.ID] = cloneFixture(fx)
	r.mu.Unlock()
	return nil
}

func (r *FixtureRepository) ListByTournament(_ context.Context, tournamentID string) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []fixture.Fixture
	for _, fx := range r.fixtures {
		if fx.TournamentID == tournamentID {
			out = append(out, cloneFixture(fx))
		}
	}
	sortFixtures(out)
	return out, nil
}

func (r *FixtureRepository) ListCompleted(_ context.Context) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []fixture.Fixture
	for _, fx := range r.fixtures {
		if fx.ResultAvailable() {
			out = append(out, cloneFixture(fx))
		}
	}
	sortFixtures(out)
	return out, nil
}

// cloneFixture copies the goal pointers so callers cannot mutate stored
// state through a returned value.
func cloneFixture(fx fixture.Fixture) fixture.Fixture {
	if fx.Team1Goals != nil {
		g := *fx.Team1Goals
		fx.Team1Goals = &g
	}
	if fx.Team2Goals != nil {
		g := *fx.Team2Goals
		fx.Team2Goals = &g
	}
	return fx
}

func sortFixtures(fixtures []fixture.Fixture) {
	sort.Slice(fixtures, func(i, j int) bool {
		if !fixtures[i].MatchDate.Equal(fixtures[j].MatchDate) {
			return fixtures[i].MatchDate.Before(fixtures[j].MatchDate)
		}
		return fixtures[i].ID < fixtures[j].ID
	})
}
