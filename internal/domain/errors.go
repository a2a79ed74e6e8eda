// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// More specific errors below wrap it.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is nil or malformed.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidTitle is returned when a deck title is empty or whitespace-only.
	ErrInvalidTitle = fmt.Errorf("%w: title must not be empty", ErrValidation)

	// ErrInvalidPosition is returned when an item position lies outside 1..10.
	ErrInvalidPosition = fmt.Errorf(
		"%w: position must be between %d and %d",
		ErrValidation,
		MinPosition,
		MaxPosition,
	)

	// ErrIncompleteDeck is returned when an operation requires every
	// position to be filled and at least one is missing or blank.
	ErrIncompleteDeck = errors.New("all 10 items must be filled")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Unwrap returns the wrapped sentinel.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError; err defaults to ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{Field: field, Message: message, Err: err}
}
