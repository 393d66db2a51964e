package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/soccerates/prediction-league/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_MapsDomainSentinels(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus string
		wantReason string
	}{
		{
			name:       "invalid input",
			err:        fmt.Errorf("%w: goals cannot be negative", usecase.ErrInvalidInput),
			wantCode:   http.StatusBadRequest,
			wantStatus: "INVALID_ARGUMENT",
			wantReason: "invalidInput",
		},
		{
			name:       "not found",
			err:        fmt.Errorf("%w: fixture missing", usecase.ErrNotFound),
			wantCode:   http.StatusNotFound,
			wantStatus: "NOT_FOUND",
			wantReason: "notFound",
		},
		{
			name:       "prediction closed",
			err:        fmt.Errorf("%w: kickoff is too close", usecase.ErrPredictionClosed),
			wantCode:   http.StatusConflict,
			wantStatus: "FAILED_PRECONDITION",
			wantReason: "predictionClosed",
		},
		{
			name:       "unknown error",
			err:        fmt.Errorf("database is on fire"),
			wantCode:   http.StatusInternalServerError,
			wantStatus: "INTERNAL",
			wantReason: "internalError",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(context.Background(), rec, tc.err)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected status %d, got %d", tc.wantCode, rec.Code)
			}

			var body struct {
				APIVersion string `json:"apiVersion"`
				Error      struct {
					Code   int    `json:"code"`
					Status string `json:"status"`
					Errors []struct {
						Domain string `json:"domain"`
						Reason string `json:"reason"`
					} `json:"errors"`
				} `json:"error"`
			}
			if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal response body: %v", err)
			}

			if body.Error.Code != tc.wantCode {
				t.Fatalf("expected error.code %d, got %d", tc.wantCode, body.Error.Code)
			}
			if body.Error.Status != tc.wantStatus {
				t.Fatalf("expected error.status %q, got %q", tc.wantStatus, body.Error.Status)
			}
			if len(body.Error.Errors) != 1 || body.Error.Errors[0].Reason != tc.wantReason {
				t.Fatalf("expected single error item with reason %q, got %+v", tc.wantReason, body.Error.Errors)
			}
		})
	}
}

func TestWriteInternalError_HidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeInternalError(context.Background(), rec)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	errBody, _ := body["error"].(map[string]any)
	if errBody == nil {
		t.Fatalf("expected error body, got %v", body)
	}
	if got, _ := errBody["message"].(string); got != "internal server error" {
		t.Fatalf("expected generic message, got %q", got)
	}
}
