package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/soccerates/prediction-league/internal/domain/fixture"
	"github.com/soccerates/prediction-league/internal/domain/scoring"
)

type saveResultRequest struct {
	Team1Goals *int `json:"team1Goals" validate:"omitempty,min=0,max=99"`
	Team2Goals *int `json:"team2Goals" validate:"omitempty,min=0,max=99"`
	ExtraTime  bool `json:"extraTime"`
	Penalties  bool `json:"penalties"`
}

type previewScoreRequest struct {
	Team1Goals int  `json:"team1Goals" validate:"min=0,max=99"`
	Team2Goals int  `json:"team2Goals" validate:"min=0,max=99"`
	ExtraTime  bool `json:"extraTime"`
	Penalties  bool `json:"penalties"`
}

type resultTransitionDTO struct {
	FixtureID  string `json:"fixtureId"`
	Transition string `json:"transition"`
}

type previewScoreDTO struct {
	FixtureID string `json:"fixtureId"`
	Points    int    `json:"points"`
}

type fixtureDTO struct {
	ID           string    `json:"id"`
	TournamentID string    `json:"tournamentId"`
	Team1ID      string    `json:"team1Id"`
	Team2ID      string    `json:"team2Id"`
	Group        string    `json:"group,omitempty"`
	Stage        string    `json:"stage"`
	MatchDate    time.Time `json:"matchDate"`
	Team1Goals   *int      `json:"team1Goals,omitempty"`
	Team2Goals   *int      `json:"team2Goals,omitempty"`
	ExtraTime    bool      `json:"extraTime"`
	Penalties    bool      `json:"penalties"`
}

func (h *Handler) SaveFixtureResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveFixtureResult")
	defer span.End()

	fixtureID := strings.TrimSpace(r.PathValue("fixtureID"))

	var req saveResultRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	transition, err := h.resultService.ApplyResult(ctx, fixtureID, req.Team1Goals, req.Team2Goals, req.ExtraTime, req.Penalties)
	if err != nil {
		h.logger.WarnContext(ctx, "save result failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resultTransitionDTO{
		FixtureID:  fixtureID,
		Transition: transition.String(),
	})
}

func (h *Handler) PreviewFixtureScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PreviewFixtureScore")
	defer span.End()

	fixtureID := strings.TrimSpace(r.PathValue("fixtureID"))

	var req previewScoreRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	points, err := h.resultService.PreviewScore(ctx, fixtureID, scoring.Prediction{
		Team1Goals: req.Team1Goals,
		Team2Goals: req.Team2Goals,
		ExtraTime:  req.ExtraTime,
		Penalties:  req.Penalties,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "preview score failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, previewScoreDTO{
		FixtureID: fixtureID,
		Points:    points,
	})
}

func (h *Handler) ListTournamentFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournamentFixtures")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	fixtures, err := h.resultService.FixturesByTournament(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]fixtureDTO, 0, len(fixtures))
	for _, fx := range fixtures {
		items = append(items, fixtureToDTO(ctx, fx))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func fixtureToDTO(ctx context.Context, fx fixture.Fixture) fixtureDTO {
	_, span := startSpan(ctx, "httpapi.fixtureToDTO")
	defer span.End()

	return fixtureDTO{
		ID:           fx.ID,
		TournamentID: fx.TournamentID,
		Team1ID:      fx.Team1ID,
		Team2ID:      fx.Team2ID,
		Group:        fx.Group,
		Stage:        fx.Stage,
		MatchDate:    fx.MatchDate,
		Team1Goals:   fx.Team1Goals,
		Team2Goals:   fx.Team2Goals,
		ExtraTime:    fx.ExtraTime,
		Penalties:    fx.Penalties,
	}
}
