package usecase

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/soccerates/prediction-league/internal/domain/team"
	"github.com/soccerates/prediction-league/internal/domain/tournament"
	"github.com/soccerates/prediction-league/internal/platform/cache"
	"github.com/soccerates/prediction-league/internal/platform/logging"
)

type stubTournamentRepo struct {
	tournaments map[string]tournament.Tournament
}

func newStubTournamentRepo(ids ...string) *stubTournamentRepo {
	repo := &stubTournamentRepo{tournaments: make(map[string]tournament.Tournament)}
	for _, id := range ids {
		repo.tournaments[id] = tournament.Tournament{ID: id, Name: id, HasGroupStage: true}
	}
	return repo
}

func (r *stubTournamentRepo) GetByID(_ context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	t, ok := r.tournaments[tournamentID]
	return t, ok, nil
}

func (r *stubTournamentRepo) List(_ context.Context) ([]tournament.Tournament, error) {
	var out []tournament.Tournament
	for _, t := range r.tournaments {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type countingTeamRepo struct {
	*stubTeamRepo
	listCalls int
}

func (r *countingTeamRepo) ListByGroup(ctx context.Context, tournamentID, group string) ([]team.Team, error) {
	r.listCalls++
	return r.stubTeamRepo.ListByGroup(ctx, tournamentID, group)
}

func newStandingsFixture() *stubTeamRepo {
	repo := newStubTeamRepo("esp", "por", "irn", "mar")
	repo.teams["esp"].GroupStats = team.Stats{Played: 3, Won: 1, Drawn: 2, GoalsFor: 6, GoalsAgainst: 5}
	repo.teams["por"].GroupStats = team.Stats{Played: 3, Won: 1, Drawn: 2, GoalsFor: 5, GoalsAgainst: 4}
	repo.teams["irn"].GroupStats = team.Stats{Played: 3, Won: 1, Drawn: 1, Lost: 1, GoalsFor: 2, GoalsAgainst: 2}
	repo.teams["mar"].GroupStats = team.Stats{Played: 3, Drawn: 1, Lost: 2, GoalsFor: 2, GoalsAgainst: 4}
	for _, t := range repo.teams {
		t.Name = t.ID
		t.Stats = t.GroupStats
	}
	return repo
}

func TestStandingsService_GroupTable(t *testing.T) {
	t.Parallel()

	svc := NewStandingsService(
		newStandingsFixture(),
		newStubTournamentRepo("wc2018"),
		cache.NewStore(time.Minute),
		logging.NewNop(),
	)

	rows, err := svc.GroupTable(context.Background(), "wc2018", "A")
	if err != nil {
		t.Fatalf("GroupTable() error: %v", err)
	}

	// esp and por tie on points and goal difference; esp leads on goals
	// scored.
	wantOrder := []string{"esp", "por", "irn", "mar"}
	if len(rows) != len(wantOrder) {
		t.Fatalf("GroupTable() returned %d rows, want %d", len(rows), len(wantOrder))
	}
	for i, id := range wantOrder {
		if rows[i].TeamID != id {
			t.Fatalf("row %d = %s, want %s (table: %+v)", i, rows[i].TeamID, id, rows)
		}
	}
	if rows[0].Points != 5 || rows[0].GoalDifference != 1 {
		t.Fatalf("top row = %+v", rows[0])
	}
}

func TestStandingsService_GroupTableCached(t *testing.T) {
	t.Parallel()

	teams := &countingTeamRepo{stubTeamRepo: newStandingsFixture()}
	store := cache.NewStore(time.Minute)
	svc := NewStandingsService(teams, newStubTournamentRepo("wc2018"), store, logging.NewNop())
	ctx := context.Background()

	if _, err := svc.GroupTable(ctx, "wc2018", "A"); err != nil {
		t.Fatalf("GroupTable() error: %v", err)
	}
	if _, err := svc.GroupTable(ctx, "wc2018", "A"); err != nil {
		t.Fatalf("second GroupTable() error: %v", err)
	}
	if teams.listCalls != 1 {
		t.Fatalf("repo hit %d times, want 1", teams.listCalls)
	}

	// Invalidation forces a reload, mirroring what a result save does.
	store.DeletePrefix(ctx, standingsCachePrefix("wc2018"))
	if _, err := svc.GroupTable(ctx, "wc2018", "A"); err != nil {
		t.Fatalf("GroupTable() after invalidation: %v", err)
	}
	if teams.listCalls != 2 {
		t.Fatalf("repo hit %d times after invalidation, want 2", teams.listCalls)
	}
}

func TestStandingsService_OverallTable(t *testing.T) {
	t.Parallel()

	teams := newStandingsFixture()
	// A knockout win moves the overall table but not the group table.
	teams.teams["por"].Stats.Played++
	teams.teams["por"].Stats.Won++
	teams.teams["por"].Stats.GoalsFor += 2

	svc := NewStandingsService(teams, newStubTournamentRepo("wc2018"), cache.NewStore(time.Minute), logging.NewNop())
	ctx := context.Background()

	overall, err := svc.OverallTable(ctx, "wc2018")
	if err != nil {
		t.Fatalf("OverallTable() error: %v", err)
	}
	if overall[0].TeamID != "por" || overall[0].Points != 8 {
		t.Fatalf("overall top row = %+v", overall[0])
	}

	grouped, err := svc.GroupTable(ctx, "wc2018", "A")
	if err != nil {
		t.Fatalf("GroupTable() error: %v", err)
	}
	if grouped[0].TeamID != "esp" {
		t.Fatalf("group top row = %+v", grouped[0])
	}
}

func TestStandingsService_InputValidation(t *testing.T) {
	t.Parallel()

	svc := NewStandingsService(
		newStandingsFixture(),
		newStubTournamentRepo("wc2018"),
		cache.NewStore(time.Minute),
		logging.NewNop(),
	)
	ctx := context.Background()

	if _, err := svc.GroupTable(ctx, "wc2018", "Z"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("GroupTable() with bad group: %v", err)
	}
	if _, err := svc.GroupTable(ctx, "missing", "A"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GroupTable() with unknown tournament: %v", err)
	}
	if _, err := svc.OverallTable(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("OverallTable() with unknown tournament: %v", err)
	}
}
