package httpapi

import (
	"net/http"
	"strings"
	"time"
)

type tournamentDTO struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	StartDate     time.Time `json:"startDate"`
	HasGroupStage bool      `json:"hasGroupStage"`
}

func (h *Handler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournaments")
	defer span.End()

	tournaments, err := h.standingsService.Tournaments(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list tournaments failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]tournamentDTO, 0, len(tournaments))
	for _, t := range tournaments {
		items = append(items, tournamentDTO{
			ID:            t.ID,
			Name:          t.Name,
			StartDate:     t.StartDate,
			HasGroupStage: t.HasGroupStage,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetOverallStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetOverallStandings")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	rows, err := h.standingsService.OverallTable(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "overall standings failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rows)
}

func (h *Handler) GetGroupStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGroupStandings")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	group := strings.ToUpper(strings.TrimSpace(r.PathValue("group")))

	rows, err := h.standingsService.GroupTable(ctx, tournamentID, group)
	if err != nil {
		h.logger.WarnContext(ctx, "group standings failed",
			"tournament_id", tournamentID,
			"group", group,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rows)
}

func (h *Handler) RunAudit(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunAudit")
	defer span.End()

	discrepancies, err := h.auditService.Run(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "consistency audit failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"discrepancies": discrepancies,
		"count":         len(discrepancies),
	})
}
