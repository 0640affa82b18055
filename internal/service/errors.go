package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a referenced patient, encounter, or note does not exist.
	// This is the only error class that surfaces to callers as a request failure.
	ErrNotFound = errors.New("not found")
	// ErrCapabilityUnavailable is returned when an external capability (de-identification,
	// embedding, reranking, chat) is unreachable, misconfigured, or times out. Consumers
	// always recover from it locally with a deterministic fallback.
	ErrCapabilityUnavailable = errors.New("capability unavailable")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
