package memory

import (
	"context"
	"testing"
	"time"

	"github.com/soccerates/prediction-league/internal/domain/answer"
	"github.com/soccerates/prediction-league/internal/domain/team"
	"github.com/soccerates/prediction-league/internal/domain/tournament"
	"github.com/soccerates/prediction-league/internal/domain/user"
)

func TestSeed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tournaments := NewTournamentRepository()
	teams := NewTeamRepository()
	fixtures := NewFixtureRepository()

	if err := Seed(ctx, tournaments, teams, fixtures); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	if _, found, _ := tournaments.GetByID(ctx, "wc2018"); !found {
		t.Fatal("seed tournament missing")
	}

	all, err := teams.ListByTournament(ctx, "wc2018")
	if err != nil {
		t.Fatalf("ListByTournament() error: %v", err)
	}
	if len(all) != 32 {
		t.Fatalf("seeded %d teams, want 32", len(all))
	}
	for _, tm := range all {
		if tm.Stats != (team.Stats{}) || tm.GroupStats != (team.Stats{}) {
			t.Fatalf("seeded team %s has non-zero counters: %+v", tm.ID, tm)
		}
	}

	groupB, err := teams.ListByGroup(ctx, "wc2018", "B")
	if err != nil {
		t.Fatalf("ListByGroup() error: %v", err)
	}
	if len(groupB) != 4 {
		t.Fatalf("group B has %d teams, want 4", len(groupB))
	}

	// 8 groups, 6 round-robin pairings each.
	fxs, err := fixtures.ListByTournament(ctx, "wc2018")
	if err != nil {
		t.Fatalf("ListByTournament() error: %v", err)
	}
	if len(fxs) != 48 {
		t.Fatalf("seeded %d fixtures, want 48", len(fxs))
	}
	completed, _ := fixtures.ListCompleted(ctx)
	if len(completed) != 0 {
		t.Fatalf("seed produced %d completed fixtures, want 0", len(completed))
	}
}

func TestTournamentRepository_ListOrderIsStable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewTournamentRepository()

	kickoff := time.Date(2026, 6, 11, 0, 0, 0, 0, time.UTC)
	for _, id := range []string{"euro2026", "copa2026", "wc2026"} {
		if err := repo.Put(ctx, tournament.Tournament{ID: id, Name: id, StartDate: kickoff}); err != nil {
			t.Fatalf("Put(%s) error: %v", id, err)
		}
	}

	// Equal start dates fall back to the id so repeated lists agree.
	for i := 0; i < 5; i++ {
		listed, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if len(listed) != 3 {
			t.Fatalf("listed %d tournaments, want 3", len(listed))
		}
		if listed[0].ID != "copa2026" || listed[1].ID != "euro2026" || listed[2].ID != "wc2026" {
			t.Fatalf("unstable order: %s, %s, %s", listed[0].ID, listed[1].ID, listed[2].ID)
		}
	}
}

func TestTeamRepository_ApplyStatsDelta(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewTeamRepository()
	if err := repo.Put(ctx, team.Team{ID: "esp", TournamentID: "wc2018", Name: "Spain", Group: "B"}); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	delta := team.StatsDelta{Played: 1, Won: 1, GoalsFor: 3, GoalsAgainst: 1}
	if err := repo.ApplyStatsDelta(ctx, "esp", delta); err != nil {
		t.Fatalf("ApplyStatsDelta() error: %v", err)
	}
	if err := repo.ApplyStatsDelta(ctx, "esp", delta.Neg()); err != nil {
		t.Fatalf("ApplyStatsDelta() inverse error: %v", err)
	}

	got, _, _ := repo.GetByID(ctx, "esp")
	if got.Stats != (team.Stats{}) {
		t.Fatalf("delta and inverse did not cancel: %+v", got.Stats)
	}

	if err := repo.ApplyStatsDelta(ctx, "nobody", delta); err == nil {
		t.Fatal("ApplyStatsDelta() on unknown team succeeded")
	}
}

func TestFixtureRepository_CloneIsolation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewFixtureRepository()
	tournaments := NewTournamentRepository()
	teams := NewTeamRepository()
	if err := Seed(ctx, tournaments, teams, repo); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	fx, found, _ := repo.GetByID(ctx, "wc2018-por-esp")
	if !found {
		t.Fatal("seed fixture missing")
	}

	g1, g2 := 3, 3
	fx.Team1Goals, fx.Team2Goals = &g1, &g2
	if err := repo.Save(ctx, fx); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	// Mutating the caller's copy must not reach the store.
	*fx.Team1Goals = 9

	stored, _, _ := repo.GetByID(ctx, "wc2018-por-esp")
	if *stored.Team1Goals != 3 {
		t.Fatalf("stored goals = %d, caller mutation leaked", *stored.Team1Goals)
	}
}

func TestAnswerRepository_UpsertPreservesScoringState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewAnswerRepository()

	ans := answer.Answer{UserID: "alice", FixtureID: "fx-1", Team1Goals: 2, Team2Goals: 1}
	if err := repo.UpsertPrediction(ctx, ans); err != nil {
		t.Fatalf("UpsertPrediction() error: %v", err)
	}

	five := 5
	if err := repo.SetPoints(ctx, "alice", "fx-1", &five, true); err != nil {
		t.Fatalf("SetPoints() error: %v", err)
	}

	// An edit carrying bogus scoring fields must not overwrite them.
	edit := answer.Answer{UserID: "alice", FixtureID: "fx-1", Team1Goals: 0, Team2Goals: 0, PointsAdded: false}
	if err := repo.UpsertPrediction(ctx, edit); err != nil {
		t.Fatalf("UpsertPrediction() error: %v", err)
	}

	got, _, _ := repo.GetByUserAndFixture(ctx, "alice", "fx-1")
	if got.Team1Goals != 0 || got.Team2Goals != 0 {
		t.Fatalf("prediction fields not updated: %+v", got)
	}
	if got.Points == nil || *got.Points != 5 || !got.PointsAdded {
		t.Fatalf("scoring state lost on edit: %+v", got)
	}

	if err := repo.SetPoints(ctx, "alice", "missing", &five, true); err == nil {
		t.Fatal("SetPoints() on unknown answer succeeded")
	}
}

func TestUserRepository_PointsFlow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewUserRepository()

	if err := repo.CreateProfile(ctx, user.Profile{UserID: "alice", Username: "alice"}); err != nil {
		t.Fatalf("CreateProfile() error: %v", err)
	}
	if err := repo.CreateProfile(ctx, user.Profile{UserID: "alice", Username: "alice"}); err == nil {
		t.Fatal("duplicate CreateProfile() succeeded")
	}

	if err := repo.EnsureTournamentPoints(ctx, "alice", "wc2018"); err != nil {
		t.Fatalf("EnsureTournamentPoints() error: %v", err)
	}
	if err := repo.AddPoints(ctx, "alice", 5); err != nil {
		t.Fatalf("AddPoints() error: %v", err)
	}
	if err := repo.AddTournamentPoints(ctx, "alice", "wc2018", 5); err != nil {
		t.Fatalf("AddTournamentPoints() error: %v", err)
	}
	if err := repo.AddPoints(ctx, "alice", -3); err != nil {
		t.Fatalf("AddPoints() negative delta error: %v", err)
	}

	profile, _, _ := repo.GetProfile(ctx, "alice")
	if profile.Points != 2 {
		t.Fatalf("profile points = %d, want 2", profile.Points)
	}

	subtotals, _ := repo.ListTournamentPointsByUser(ctx, "alice")
	if len(subtotals) != 1 || subtotals[0].Points != 5 {
		t.Fatalf("subtotals = %+v", subtotals)
	}
}
