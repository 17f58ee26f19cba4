package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrNoModelPredictions = errors.New("candidate has no model predictions")
	ErrNotFound           = errors.New("record not found")
	ErrInvalidBankroll    = errors.New("bankroll must be greater than zero")
	ErrEmptyWeights       = errors.New("model weights are empty")
)

// ValidationError indicates invalid configuration or input that aborts an
// entire selection cycle before any scoring occurs. Per-candidate problems
// are never ValidationErrors; they exclude only the offending candidate.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError creates a validation error for a named field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
