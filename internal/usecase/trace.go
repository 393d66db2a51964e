package usecase

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

func tracer() trace.Tracer {
	return otel.Tracer("prediction-league/internal/usecase")
}
