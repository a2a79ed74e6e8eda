package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by the generation package
var (
	// ErrServiceFailure is the root of every failed generation call.
	ErrServiceFailure = errors.New("text generation service failed")

	// ErrContentBlocked is returned when the provider refuses to answer
	// because of its safety filters.
	ErrContentBlocked = fmt.Errorf("%w: content blocked by safety filters", ErrServiceFailure)

	// ErrEmptyResponse is returned when the provider answers without any text.
	ErrEmptyResponse = fmt.Errorf("%w: empty response", ErrServiceFailure)

	// ErrCircuitOpen is returned without calling the provider while the
	// circuit breaker is open.
	ErrCircuitOpen = fmt.Errorf("%w: circuit open", ErrServiceFailure)

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// ServiceError describes a failed call to a generation provider.
type ServiceError struct {
	// Code is the provider's HTTP status code, or 0 when unknown.
	Code int
	// Status is the provider's status string, e.g. "RESOURCE_EXHAUSTED".
	Status string
	// Details is a human-readable description that is safe to show to users.
	Details string
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	msg := "text generation failed"
	if e.Code != 0 {
		msg = fmt.Sprintf("%s (%d %s)", msg, e.Code, e.Status)
	}
	if e.Details != "" {
		msg += ": " + e.Details
	}
	return msg
}

// Unwrap makes the error match both ErrServiceFailure and its cause.
func (e *ServiceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrServiceFailure}
	}
	return []error{ErrServiceFailure, e.Err}
}

// Details returns a user-facing description of a generation error.
func Details(err error) string {
	if err == nil {
		return ""
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) && svcErr.Details != "" {
		return svcErr.Details
	}
	return err.Error()
}
