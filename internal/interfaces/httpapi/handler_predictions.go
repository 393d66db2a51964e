package httpapi

import (
	"net/http"
	"strings"

	"github.com/soccerates/prediction-league/internal/domain/answer"
)

type submitPredictionRequest struct {
	Team1Goals int  `json:"team1Goals" validate:"min=0,max=99"`
	Team2Goals int  `json:"team2Goals" validate:"min=0,max=99"`
	ExtraTime  bool `json:"extraTime"`
	Penalties  bool `json:"penalties"`
}

func (h *Handler) SubmitPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPrediction")
	defer span.End()

	userID := strings.TrimSpace(r.PathValue("userID"))
	fixtureID := strings.TrimSpace(r.PathValue("fixtureID"))

	var req submitPredictionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	ans := answer.Answer{
		UserID:     userID,
		FixtureID:  fixtureID,
		Team1Goals: req.Team1Goals,
		Team2Goals: req.Team2Goals,
		ExtraTime:  req.ExtraTime,
		Penalties:  req.Penalties,
	}

	if err := h.predictionService.Submit(ctx, ans); err != nil {
		h.logger.WarnContext(ctx, "submit prediction failed",
			"user_id", userID,
			"fixture_id", fixtureID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(ctx, ans))
}
