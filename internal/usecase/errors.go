package usecase

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidInput marks requests rejected before touching storage.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks lookups for entities that do not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvariantViolation marks states the engine must never produce,
	// such as reverting stats for a fixture that has no stored result.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrPredictionClosed marks predictions submitted after the cutoff.
	ErrPredictionClosed = errors.New("prediction window closed")
)
