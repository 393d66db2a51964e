package usecase

import (
	"context"
	"sort"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/soccerates/prediction-league/internal/domain/answer"
	"github.com/soccerates/prediction-league/internal/domain/user"
	"github.com/soccerates/prediction-league/internal/platform/logging"
)

type answerKey struct {
	userID    string
	fixtureID string
}

type stubAnswerRepo struct {
	answers map[answerKey]answer.Answer
}

func newStubAnswerRepo(answers ...answer.Answer) *stubAnswerRepo {
	repo := &stubAnswerRepo{answers: make(map[answerKey]answer.Answer)}
	for _, ans := range answers {
		repo.answers[answerKey{ans.UserID, ans.FixtureID}] = ans
	}
	return repo
}

func (r *stubAnswerRepo) GetByUserAndFixture(_ context.Context, userID, fixtureID string) (answer.Answer, bool, error) {
	ans, ok := r.answers[answerKey{userID, fixtureID}]
	return ans, ok, nil
}

func (r *stubAnswerRepo) ListByFixture(_ context.Context, fixtureID string) ([]answer.Answer, error) {
	var out []answer.Answer
	for _, ans := range r.answers {
		if ans.FixtureID == fixtureID {
			out = append(out, ans)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *stubAnswerRepo) ListByUser(_ context.Context, userID string) ([]answer.Answer, error) {
	var out []answer.Answer
	for _, ans := range r.answers {
		if ans.UserID == userID {
			out = append(out, ans)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FixtureID < out[j].FixtureID })
	return out, nil
}

func (r *stubAnswerRepo) UpsertPrediction(_ context.Context, ans answer.Answer) error {
	key := answerKey{ans.UserID, ans.FixtureID}
	if prev, ok := r.answers[key]; ok {
		ans.Points = prev.Points
		ans.PointsAdded = prev.PointsAdded
	}
	r.answers[key] = ans
	return nil
}

func (r *stubAnswerRepo) SetPoints(_ context.Context, userID, fixtureID string, points *int, added bool) error {
	key := answerKey{userID, fixtureID}
	ans, ok := r.answers[key]
	if !ok {
		return errors.Newf("unknown answer (%s, %s)", userID, fixtureID)
	}
	ans.Points = points
	ans.PointsAdded = added
	r.answers[key] = ans
	return nil
}

type tournamentKey struct {
	userID       string
	tournamentID string
}

type stubUserRepo struct {
	profiles  map[string]*user.Profile
	subtotals map[tournamentKey]int
}

func newStubUserRepo(userIDs ...string) *stubUserRepo {
	repo := &stubUserRepo{
		profiles:  make(map[string]*user.Profile),
		subtotals: make(map[tournamentKey]int),
	}
	for _, id := range userIDs {
		repo.profiles[id] = &user.Profile{UserID: id, Username: id}
	}
	return repo
}

func (r *stubUserRepo) GetProfile(_ context.Context, userID string) (user.Profile, bool, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return user.Profile{}, false, nil
	}
	return *p, true, nil
}

func (r *stubUserRepo) CreateProfile(_ context.Context, profile user.Profile) error {
	if _, ok := r.profiles[profile.UserID]; ok {
		return errors.Newf("profile %s already exists", profile.UserID)
	}
	r.profiles[profile.UserID] = &profile
	return nil
}

func (r *stubUserRepo) ListProfiles(_ context.Context) ([]user.Profile, error) {
	var out []user.Profile
	for _, p := range r.profiles {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *stubUserRepo) AddPoints(_ context.Context, userID string, delta int) error {
	p, ok := r.profiles[userID]
	if !ok {
		return errors.Newf("unknown user %s", userID)
	}
	p.Points += delta
	return nil
}

func (r *stubUserRepo) EnsureTournamentPoints(_ context.Context, userID, tournamentID string) error {
	key := tournamentKey{userID, tournamentID}
	if _, ok := r.subtotals[key]; !ok {
		r.subtotals[key] = 0
	}
	return nil
}

func (r *stubUserRepo) AddTournamentPoints(_ context.Context, userID, tournamentID string, delta int) error {
	r.subtotals[tournamentKey{userID, tournamentID}] += delta
	return nil
}

func (r *stubUserRepo) ListTournamentPointsByUser(_ context.Context, userID string) ([]user.TournamentPoints, error) {
	var out []user.TournamentPoints
	for key, pts := range r.subtotals {
		if key.userID == userID {
			out = append(out, user.TournamentPoints{UserID: userID, TournamentID: key.tournamentID, Points: pts})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TournamentID < out[j].TournamentID })
	return out, nil
}

func TestLedgerService_Credit(t *testing.T) {
	t.Parallel()

	answers := newStubAnswerRepo(answer.Answer{UserID: "alice", FixtureID: "fx-1", Team1Goals: 2, Team2Goals: 1})
	users := newStubUserRepo("alice")
	svc := NewLedgerService(answers, users, logging.NewNop())
	ctx := context.Background()

	ans, _, _ := answers.GetByUserAndFixture(ctx, "alice", "fx-1")
	if err := svc.Credit(ctx, ans, "wc2018", 5); err != nil {
		t.Fatalf("Credit() error: %v", err)
	}

	got, _, _ := answers.GetByUserAndFixture(ctx, "alice", "fx-1")
	if got.Points == nil || *got.Points != 5 || !got.PointsAdded {
		t.Fatalf("answer after credit = %+v", got)
	}
	if users.profiles["alice"].Points != 5 {
		t.Fatalf("profile points = %d, want 5", users.profiles["alice"].Points)
	}
	if users.subtotals[tournamentKey{"alice", "wc2018"}] != 5 {
		t.Fatalf("tournament subtotal = %d, want 5", users.subtotals[tournamentKey{"alice", "wc2018"}])
	}
}

func TestLedgerService_CreditIdempotent(t *testing.T) {
	t.Parallel()

	answers := newStubAnswerRepo(answer.Answer{UserID: "alice", FixtureID: "fx-1"})
	users := newStubUserRepo("alice")
	svc := NewLedgerService(answers, users, logging.NewNop())
	ctx := context.Background()

	ans, _, _ := answers.GetByUserAndFixture(ctx, "alice", "fx-1")
	if err := svc.Credit(ctx, ans, "wc2018", 3); err != nil {
		t.Fatalf("Credit() error: %v", err)
	}

	// A redelivered credit must read the flagged answer and do nothing.
	ans, _, _ = answers.GetByUserAndFixture(ctx, "alice", "fx-1")
	if err := svc.Credit(ctx, ans, "wc2018", 3); err != nil {
		t.Fatalf("second Credit() error: %v", err)
	}

	if users.profiles["alice"].Points != 3 {
		t.Fatalf("profile points = %d, want 3 after replay", users.profiles["alice"].Points)
	}
}

func TestLedgerService_DebitClearsCredit(t *testing.T) {
	t.Parallel()

	answers := newStubAnswerRepo(answer.Answer{UserID: "alice", FixtureID: "fx-1"})
	users := newStubUserRepo("alice")
	svc := NewLedgerService(answers, users, logging.NewNop())
	ctx := context.Background()

	ans, _, _ := answers.GetByUserAndFixture(ctx, "alice", "fx-1")
	if err := svc.Credit(ctx, ans, "wc2018", 5); err != nil {
		t.Fatalf("Credit() error: %v", err)
	}

	ans, _, _ = answers.GetByUserAndFixture(ctx, "alice", "fx-1")
	if err := svc.Debit(ctx, ans, "wc2018"); err != nil {
		t.Fatalf("Debit() error: %v", err)
	}

	got, _, _ := answers.GetByUserAndFixture(ctx, "alice", "fx-1")
	if got.Points != nil || got.PointsAdded {
		t.Fatalf("answer after debit = %+v", got)
	}
	if users.profiles["alice"].Points != 0 {
		t.Fatalf("profile points = %d, want 0", users.profiles["alice"].Points)
	}
	if users.subtotals[tournamentKey{"alice", "wc2018"}] != 0 {
		t.Fatalf("tournament subtotal = %d, want 0", users.subtotals[tournamentKey{"alice", "wc2018"}])
	}

	// Debiting an uncredited answer is a no-op, not an error.
	got, _, _ = answers.GetByUserAndFixture(ctx, "alice", "fx-1")
	if err := svc.Debit(ctx, got, "wc2018"); err != nil {
		t.Fatalf("Debit() on uncredited answer: %v", err)
	}
	if users.profiles["alice"].Points != 0 {
		t.Fatalf("profile points moved on no-op debit: %d", users.profiles["alice"].Points)
	}
}

func TestLedgerService_AdjustMovesByDifference(t *testing.T) {
	t.Parallel()

	answers := newStubAnswerRepo(answer.Answer{UserID: "alice", FixtureID: "fx-1"})
	users := newStubUserRepo("alice")
	svc := NewLedgerService(answers, users, logging.NewNop())
	ctx := context.Background()

	ans, _, _ := answers.GetByUserAndFixture(ctx, "alice", "fx-1")
	if err := svc.Credit(ctx, ans, "wc2018", 5); err != nil {
		t.Fatalf("Credit() error: %v", err)
	}

	ans, _, _ = answers.GetByUserAndFixture(ctx, "alice", "fx-1")
	if err := svc.Adjust(ctx, ans, "wc2018", 2); err != nil {
		t.Fatalf("Adjust() error: %v", err)
	}

	got, _, _ := answers.GetByUserAndFixture(ctx, "alice", "fx-1")
	if got.Points == nil || *got.Points != 2 || !got.PointsAdded {
		t.Fatalf("answer after adjust = %+v", got)
	}
	if users.profiles["alice"].Points != 2 {
		t.Fatalf("profile points = %d, want 2", users.profiles["alice"].Points)
	}
	if users.subtotals[tournamentKey{"alice", "wc2018"}] != 2 {
		t.Fatalf("tournament subtotal = %d, want 2", users.subtotals[tournamentKey{"alice", "wc2018"}])
	}
}

func TestLedgerService_AdjustUncreditedFallsBackToCredit(t *testing.T) {
	t.Parallel()

	answers := newStubAnswerRepo(answer.Answer{UserID: "alice", FixtureID: "fx-1"})
	users := newStubUserRepo("alice")
	svc := NewLedgerService(answers, users, logging.NewNop())
	ctx := context.Background()

	ans, _, _ := answers.GetByUserAndFixture(ctx, "alice", "fx-1")
	if err := svc.Adjust(ctx, ans, "wc2018", 3); err != nil {
		t.Fatalf("Adjust() error: %v", err)
	}

	got, _, _ := answers.GetByUserAndFixture(ctx, "alice", "fx-1")
	if got.Points == nil || *got.Points != 3 || !got.PointsAdded {
		t.Fatalf("answer after adjust-as-credit = %+v", got)
	}
	if users.profiles["alice"].Points != 3 {
		t.Fatalf("profile points = %d, want 3", users.profiles["alice"].Points)
	}
}

func TestLedgerService_CreditedWithoutPointsIsInvariantViolation(t *testing.T) {
	t.Parallel()

	broken := answer.Answer{UserID: "alice", FixtureID: "fx-1", PointsAdded: true}
	answers := newStubAnswerRepo(broken)
	users := newStubUserRepo("alice")
	svc := NewLedgerService(answers, users, logging.NewNop())
	ctx := context.Background()

	if err := svc.Debit(ctx, broken, "wc2018"); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("Debit() on broken answer: %v", err)
	}
	if err := svc.Adjust(ctx, broken, "wc2018", 2); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("Adjust() on broken answer: %v", err)
	}
}
