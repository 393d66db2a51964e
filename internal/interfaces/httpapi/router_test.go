package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/soccerates/prediction-league/internal/domain/fixture"
	"github.com/soccerates/prediction-league/internal/domain/team"
	"github.com/soccerates/prediction-league/internal/domain/tournament"
	"github.com/soccerates/prediction-league/internal/infrastructure/repository/memory"
	"github.com/soccerates/prediction-league/internal/platform/cache"
	"github.com/soccerates/prediction-league/internal/platform/logging"
	"github.com/soccerates/prediction-league/internal/usecase"
)

// newTestRouter wires the full HTTP stack over in-memory repositories with a
// single tournament, two teams, and one upcoming group fixture.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	ctx := context.Background()
	logger := logging.NewNop()

	tournaments := memory.NewTournamentRepository()
	teams := memory.NewTeamRepository()
	fixtures := memory.NewFixtureRepository()
	answers := memory.NewAnswerRepository()
	users := memory.NewUserRepository()

	if err := tournaments.Put(ctx, tournament.Tournament{
		ID:            "wc2018",
		Name:          "World Cup 2018",
		StartDate:     time.Date(2018, 6, 14, 0, 0, 0, 0, time.UTC),
		HasGroupStage: true,
	}); err != nil {
		t.Fatalf("put tournament: %v", err)
	}
	for _, side := range []struct{ id, name string }{
		{"esp", "Spain"},
		{"por", "Portugal"},
	} {
		if err := teams.Put(ctx, team.Team{
			ID:           side.id,
			TournamentID: "wc2018",
			Name:         side.name,
			CountryCode:  strings.ToUpper(side.id),
			Group:        "B",
		}); err != nil {
			t.Fatalf("put team %s: %v", side.id, err)
		}
	}
	if err := fixtures.Save(ctx, fixture.Fixture{
		ID:           "wc2018-esp-por",
		TournamentID: "wc2018",
		Team1ID:      "esp",
		Team2ID:      "por",
		Group:        "B",
		Stage:        fixture.StageGroup,
		MatchDate:    time.Now().Add(48 * time.Hour),
	}); err != nil {
		t.Fatalf("save fixture: %v", err)
	}

	store := cache.NewStore(time.Minute)
	statsService := usecase.NewTeamStatsService(teams, logger)
	ledgerService := usecase.NewLedgerService(answers, users, logger)
	resultService := usecase.NewResultService(fixtures, answers, statsService, ledgerService, store, logger)
	predictionService := usecase.NewPredictionService(answers, fixtures, 30*time.Minute, logger)
	standingsService := usecase.NewStandingsService(teams, tournaments, store, logger)
	userService := usecase.NewUserService(users, answers, logger)
	auditService := usecase.NewAuditService(fixtures, answers, teams, users, 4, logger)

	handler := NewHandler(resultService, predictionService, standingsService, userService, auditService, logger)
	return NewRouter(handler, logger, []string{"*"})
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()

	var envelope struct {
		Data sonicRaw `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v (body %s)", err, rec.Body.String())
	}
	if err := sonic.Unmarshal(envelope.Data, dst); err != nil {
		t.Fatalf("unmarshal data: %v (body %s)", err, rec.Body.String())
	}
}

type sonicRaw []byte

func (r *sonicRaw) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_PredictionAndResultFlow(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/users",
		`{"userId":"alice","username":"Alice"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (body %s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPut, "/v1/users/alice/predictions/wc2018-esp-por",
		`{"team1Goals":2,"team2Goals":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit prediction: expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPut, "/v1/fixtures/wc2018-esp-por/result",
		`{"team1Goals":2,"team2Goals":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("save result: expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}
	var transition resultTransitionDTO
	decodeData(t, rec, &transition)
	if transition.Transition != "result_added" {
		t.Fatalf("expected result_added transition, got %q", transition.Transition)
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/leaderboard", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("leaderboard: expected 200, got %d", rec.Code)
	}
	var ranked []usecase.RankedUser
	decodeData(t, rec, &ranked)
	if len(ranked) != 1 || ranked[0].UserID != "alice" || ranked[0].Points != 5 {
		t.Fatalf("unexpected leaderboard: %+v", ranked)
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/users/alice/points", "")
	var averages userAveragesDTO
	decodeData(t, rec, &averages)
	if averages.TotalPoints != 5 || averages.AnswersScored != 1 || averages.AveragePoints != 5 {
		t.Fatalf("unexpected averages: %+v", averages)
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/tournaments/wc2018/groups/b/standings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("group standings: expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}
	var rows []usecase.StandingsRow
	decodeData(t, rec, &rows)
	if len(rows) != 2 || rows[0].TeamID != "esp" || rows[0].Points != 3 {
		t.Fatalf("unexpected group standings: %+v", rows)
	}

	rec = doJSON(t, router, http.MethodPost, "/v1/internal/audit", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("audit: expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}
	var audit struct {
		Count int `json:"count"`
	}
	decodeData(t, rec, &audit)
	if audit.Count != 0 {
		t.Fatalf("expected clean audit, got %d discrepancies (body %s)", audit.Count, rec.Body.String())
	}
}

func TestRouter_PredictionAfterResultIsRejected(t *testing.T) {
	router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/v1/users", `{"userId":"bob","username":"Bob"}`)
	rec := doJSON(t, router, http.MethodPut, "/v1/fixtures/wc2018-esp-por/result",
		`{"team1Goals":1,"team2Goals":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("save result: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPut, "/v1/users/bob/predictions/wc2018-esp-por",
		`{"team1Goals":0,"team2Goals":0}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for closed prediction, got %d (body %s)", rec.Code, rec.Body.String())
	}
}

func TestRouter_UnknownFixtureIs404(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPut, "/v1/fixtures/nope/result",
		`{"team1Goals":1,"team2Goals":0}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d (body %s)", rec.Code, rec.Body.String())
	}
}

func TestRouter_MalformedBodyIs400(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/users", `{"userId":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (body %s)", rec.Code, rec.Body.String())
	}

	var body struct {
		Error struct {
			Status string `json:"status"`
		} `json:"error"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal error body: %v", err)
	}
	if body.Error.Status != "INVALID_ARGUMENT" {
		t.Fatalf("expected INVALID_ARGUMENT, got %q", body.Error.Status)
	}
}

func TestRouter_PreviewScore(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPut, "/v1/fixtures/wc2018-esp-por/result",
		`{"team1Goals":2,"team2Goals":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("save result: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/v1/fixtures/wc2018-esp-por/score/preview",
		`{"team1Goals":1,"team2Goals":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("preview: expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}
	var preview previewScoreDTO
	decodeData(t, rec, &preview)
	if preview.Points != 3 {
		t.Fatalf("expected 3 points for matching draw outcome plus difference, got %d", preview.Points)
	}
}
