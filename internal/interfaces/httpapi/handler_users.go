package httpapi

import (
	"context"
	"net/http"

	"github.com/soccerates/prediction-league/internal/domain/answer"
	"github.com/soccerates/prediction-league/internal/domain/user"
)

type registerUserRequest struct {
	UserID   string `json:"userId" validate:"required,max=64"`
	Username string `json:"username" validate:"required,max=100"`
}

type profileDTO struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Points   int    `json:"points"`
}

type userAveragesDTO struct {
	TotalPoints   int     `json:"totalPoints"`
	AnswersScored int     `json:"answersScored"`
	AveragePoints float64 `json:"averagePoints"`
}

type tournamentPointsDTO struct {
	TournamentID string `json:"tournamentId"`
	Points       int    `json:"points"`
}

type predictionDTO struct {
	FixtureID  string `json:"fixtureId"`
	Team1Goals int    `json:"team1Goals"`
	Team2Goals int    `json:"team2Goals"`
	ExtraTime  bool   `json:"extraTime"`
	Penalties  bool   `json:"penalties"`
	Points     *int   `json:"points,omitempty"`
	Scored     bool   `json:"scored"`
}

func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterUser")
	defer span.End()

	var req registerUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	profile, err := h.userService.Register(ctx, req.UserID, req.Username)
	if err != nil {
		h.logger.WarnContext(ctx, "register user failed", "user_id", req.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, profileToDTO(ctx, profile))
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	ranked, err := h.userService.Leaderboard(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, ranked)
}

func (h *Handler) GetUserPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUserPoints")
	defer span.End()

	userID := r.PathValue("userID")
	averages, err := h.userService.Averages(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "user points failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userAveragesDTO{
		TotalPoints:   averages.TotalPoints,
		AnswersScored: averages.AnswersScored,
		AveragePoints: averages.AveragePoints,
	})
}

func (h *Handler) GetUserTournamentPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUserTournamentPoints")
	defer span.End()

	userID := r.PathValue("userID")
	subtotals, err := h.userService.TournamentBreakdown(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "tournament breakdown failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]tournamentPointsDTO, 0, len(subtotals))
	for _, sub := range subtotals {
		items = append(items, tournamentPointsDTO{
			TournamentID: sub.TournamentID,
			Points:       sub.Points,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListUserPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUserPredictions")
	defer span.End()

	userID := r.PathValue("userID")
	answers, err := h.predictionService.ListForUser(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "list predictions failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]predictionDTO, 0, len(answers))
	for _, ans := range answers {
		items = append(items, predictionToDTO(ctx, ans))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func profileToDTO(ctx context.Context, p user.Profile) profileDTO {
	_, span := startSpan(ctx, "httpapi.profileToDTO")
	defer span.End()

	return profileDTO{
		UserID:   p.UserID,
		Username: p.Username,
		Points:   p.Points,
	}
}

func predictionToDTO(ctx context.Context, ans answer.Answer) predictionDTO {
	_, span := startSpan(ctx, "httpapi.predictionToDTO")
	defer span.End()

	return predictionDTO{
		FixtureID:  ans.FixtureID,
		Team1Goals: ans.Team1Goals,
		Team2Goals: ans.Team2Goals,
		ExtraTime:  ans.ExtraTime,
		Penalties:  ans.Penalties,
		Points:     ans.Points,
		Scored:     ans.PointsAdded,
	}
}
