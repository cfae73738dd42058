package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no entry exists for a requested date.
	ErrNotFound = errors.New("entry not found")

	// ErrConflict is returned when an entry already exists for a date.
	ErrConflict = errors.New("entry already exists for date")

	// ErrGeneration is returned when the upstream model fails or returns unusable output.
	ErrGeneration = errors.New("generation failed")

	// ErrValidation is returned when entry content violates its bounds.
	ErrValidation = errors.New("validation failed")
)

// ValidationError describes a single field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
}

// Unwrap allows errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
