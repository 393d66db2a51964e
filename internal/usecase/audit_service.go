package usecase

import (
	"context"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/soccerates/prediction-league/internal/domain/answer"
	"github.com/soccerates/prediction-league/internal/domain/fixture"
	"github.com/soccerates/prediction-league/internal/domain/scoring"
	"github.com/soccerates/prediction-league/internal/domain/team"
	"github.com/soccerates/prediction-league/internal/domain/user"
	"github.com/soccerates/prediction-league/internal/platform/logging"
)

// Discrepancy kinds reported by the auditor.
const (
	DiscrepancyAnswerPoints    = "answer_points"
	DiscrepancyProfileTotal    = "profile_total"
	DiscrepancyTournamentTotal = "tournament_total"
	DiscrepancySubtotalSum     = "subtotal_sum"
	DiscrepancyTeamCounters    = "team_counters"
)

// Discrepancy is one detected divergence between stored incremental state
// and a full recomputation from fixture results.
type Discrepancy struct {
	Kind         string `json:"kind"`
	UserID       string `json:"userId,omitempty"`
	TeamID       string `json:"teamId,omitempty"`
	TournamentID string `json:"tournamentId,omitempty"`
	FixtureID    string `json:"fixtureId,omitempty"`
	Want         int    `json:"want"`
	Got          int    `json:"got"`
	Detail       string `json:"detail,omitempty"`
}

// AuditService recomputes what every stored total ought to be from the
// completed fixtures and reports where the incremental state disagrees. It
// never writes; repair stays a human decision. User audits fan out over a
// bounded worker pool since each one walks the user's full answer list.
type AuditService struct {
	fixtures   fixture.Repository
	answers    answer.Repository
	teams      team.Repository
	users      user.Repository
	maxWorkers int
	logger     *logging.Logger
}

func NewAuditService(
	fixtures fixture.Repository,
	answers answer.Repository,
	teams team.Repository,
	users user.Repository,
	maxWorkers int,
	logger *logging.Logger,
) *AuditService {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &AuditService{
		fixtures:   fixtures,
		answers:    answers,
		teams:      teams,
		users:      users,
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

// completedView is the recomputation input derived from one completed
// fixture.
type completedView struct {
	tournamentID string
	result       scoring.Result
}

// Run audits every user and every team and returns the discrepancies found,
// ordered deterministically. An empty slice means the stores are consistent.
func (s *AuditService) Run(ctx context.Context) ([]Discrepancy, error) {
	ctx, span := tracer().Start(ctx, "AuditService.Run")
	defer span.End()

	completed, err := s.fixtures.ListCompleted(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list completed fixtures")
	}

	views := make(map[string]completedView, len(completed))
	for _, fx := range completed {
		views[fx.ID] = completedView{tournamentID: fx.TournamentID, result: resultOf(fx)}
	}

	profiles, err := s.users.ListProfiles(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list profiles")
	}

	pool, err := ants.NewPool(s.maxWorkers)
	if err != nil {
		return nil, errors.Wrap(err, "create audit pool")
	}
	defer pool.Release()

	var (
		mu       sync.Mutex
		found    []Discrepancy
		firstErr error
		wg       sync.WaitGroup
	)
	report := func(ds []Discrepancy, auditErr error) {
		mu.Lock()
		defer mu.Unlock()
		found = append(found, ds...)
		if auditErr != nil && firstErr == nil {
			firstErr = auditErr
		}
	}

	for _, profile := range profiles {
		profile := profile
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			ds, auditErr := s.auditUser(ctx, profile, views)
			report(ds, auditErr)
		})
		if submitErr != nil {
			wg.Done()
			report(nil, errors.Wrap(submitErr, "submit user audit"))
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	teamDiscrepancies, err := s.auditTeams(ctx, completed)
	if err != nil {
		return nil, err
	}
	found = append(found, teamDiscrepancies...)

	sort.Slice(found, func(i, j int) bool {
		a, b := found[i], found[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.UserID != b.UserID {
			return a.UserID < b.UserID
		}
		if a.TeamID != b.TeamID {
			return a.TeamID < b.TeamID
		}
		return a.FixtureID < b.FixtureID
	})

	s.logger.InfoContext(ctx, "audit finished",
		"users", len(profiles), "completedFixtures", len(completed), "discrepancies", len(found))
	return found, nil
}

// auditUser recomputes one user's expected scores and compares them to the
// stored answer points, the per-tournament subtotals and the profile total.
func (s *AuditService) auditUser(ctx context.Context, profile user.Profile, views map[string]completedView) ([]Discrepancy, error) {
	answers, err := s.answers.ListByUser(ctx, profile.UserID)
	if err != nil {
		return nil, errors.Wrapf(err, "list answers for user %s", profile.UserID)
	}

	var found []Discrepancy
	expectedTotal := 0
	expectedByTournament := make(map[string]int)

	for _, ans := range answers {
		view, completed := views[ans.FixtureID]
		if !completed {
			if ans.PointsAdded {
				found = append(found, Discrepancy{
					Kind:      DiscrepancyAnswerPoints,
					UserID:    profile.UserID,
					FixtureID: ans.FixtureID,
					Detail:    "credited answer on fixture without result",
				})
			}
			continue
		}

		want := scoring.Score(predictionOf(ans), view.result)
		expectedTotal += want
		expectedByTournament[view.tournamentID] += want

		got := 0
		if ans.Points != nil {
			got = *ans.Points
		}
		if !ans.PointsAdded || ans.Points == nil || got != want {
			found = append(found, Discrepancy{
				Kind:         DiscrepancyAnswerPoints,
				UserID:       profile.UserID,
				TournamentID: view.tournamentID,
				FixtureID:    ans.FixtureID,
				Want:         want,
				Got:          got,
			})
		}
	}

	if profile.Points != expectedTotal {
		found = append(found, Discrepancy{
			Kind:   DiscrepancyProfileTotal,
			UserID: profile.UserID,
			Want:   expectedTotal,
			Got:    profile.Points,
		})
	}

	subtotals, err := s.users.ListTournamentPointsByUser(ctx, profile.UserID)
	if err != nil {
		return nil, errors.Wrapf(err, "list subtotals for user %s", profile.UserID)
	}

	subtotalSum := 0
	for _, sub := range subtotals {
		subtotalSum += sub.Points
		want := expectedByTournament[sub.TournamentID]
		if sub.Points != want {
			found = append(found, Discrepancy{
				Kind:         DiscrepancyTournamentTotal,
				UserID:       profile.UserID,
				TournamentID: sub.TournamentID,
				Want:         want,
				Got:          sub.Points,
			})
		}
		delete(expectedByTournament, sub.TournamentID)
	}
	for tournamentID, want := range expectedByTournament {
		if want != 0 {
			found = append(found, Discrepancy{
				Kind:         DiscrepancyTournamentTotal,
				UserID:       profile.UserID,
				TournamentID: tournamentID,
				Want:         want,
				Got:          0,
			})
		}
	}

	if subtotalSum != profile.Points {
		found = append(found, Discrepancy{
			Kind:   DiscrepancySubtotalSum,
			UserID: profile.UserID,
			Want:   profile.Points,
			Got:    subtotalSum,
		})
	}

	return found, nil
}

// auditTeams rebuilds every team's counters from the completed fixtures and
// compares them to the stored ones.
func (s *AuditService) auditTeams(ctx context.Context, completed []fixture.Fixture) ([]Discrepancy, error) {
	expected := make(map[string]*team.Team)
	tournaments := make(map[string]struct{})
	for _, fx := range completed {
		tournaments[fx.TournamentID] = struct{}{}
		for _, teamID := range []string{fx.Team1ID, fx.Team2ID} {
			t, ok := expected[teamID]
			if !ok {
				t = &team.Team{ID: teamID}
				expected[teamID] = t
			}
			statsDeltaFor(fx, teamID).ApplyTo(t)
		}
	}

	var found []Discrepancy
	for tournamentID := range tournaments {
		teams, err := s.teams.ListByTournament(ctx, tournamentID)
		if err != nil {
			return nil, errors.Wrapf(err, "list teams for tournament %s", tournamentID)
		}
		for _, stored := range teams {
			want := team.Team{}
			if t, ok := expected[stored.ID]; ok {
				want = *t
			}
			if stored.Stats != want.Stats || stored.GroupStats != want.GroupStats {
				found = append(found, Discrepancy{
					Kind:         DiscrepancyTeamCounters,
					TeamID:       stored.ID,
					TournamentID: tournamentID,
					Want:         want.Stats.Played,
					Got:          stored.Stats.Played,
					Detail:       "stored counters diverge from recomputation",
				})
			}
		}
	}

	return found, nil
}
