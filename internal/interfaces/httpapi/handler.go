package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/soccerates/prediction-league/internal/platform/logging"
	"github.com/soccerates/prediction-league/internal/usecase"
)

type Handler struct {
	resultService     *usecase.ResultService
	predictionService *usecase.PredictionService
	standingsService  *usecase.StandingsService
	userService       *usecase.UserService
	auditService      *usecase.AuditService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	resultService *usecase.ResultService,
	predictionService *usecase.PredictionService,
	standingsService *usecase.StandingsService,
	userService *usecase.UserService,
	auditService *usecase.AuditService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		resultService:     resultService,
		predictionService: predictionService,
		standingsService:  standingsService,
		userService:       userService,
		auditService:      auditService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func decodeBody(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
