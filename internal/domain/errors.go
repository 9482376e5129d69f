// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Fault taxonomy. Every error surfaced by the client unwraps to exactly one
// of these, so callers classify with errors.Is.
var (
	// ErrTransportFault covers an unreachable service and any 5xx response.
	ErrTransportFault = errors.New("transport fault")

	// ErrAuthFault is a 401 classified as session-invalidating.
	ErrAuthFault = errors.New("authentication fault")

	// ErrPermissionFault is a 403: authenticated but not allowed.
	ErrPermissionFault = errors.New("permission fault")

	// ErrValidationFault is a local field-rule violation or a 4xx that is
	// neither an auth, permission nor not-found failure.
	ErrValidationFault = errors.New("validation fault")

	// ErrNotFoundFault is a 404 on a lookup.
	ErrNotFoundFault = errors.New("not found fault")
)

// Common validation errors, all wrapped by ValidationError.
var (
	ErrEmptyField          = errors.New("cannot be empty")
	ErrFieldTooLong        = errors.New("is too long")
	ErrFieldTooShort       = errors.New("is too short")
	ErrInvalidEmail        = errors.New("must be a valid email address")
	ErrInvalidDate         = errors.New("must be a date in YYYY-MM-DD format")
	ErrInvalidStatus       = errors.New("is not a known execution status")
	ErrInvalidSituation    = errors.New("is not a known task situation")
	ErrMissingExecutedNote = errors.New("is required before closing or completing a task")
	ErrMissingResponsible  = errors.New("must reference a responsible user")
	ErrInvalidID           = errors.New("must be a positive identifier")
)

// ValidationError reports a local rule violation on a single field.
// It never reaches the network layer.
type ValidationError struct {
	Field string
	Err   error
}

// NewValidationError creates a ValidationError for field wrapping err.
func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %v", e.Field, e.Err)
}

// Unwrap returns the specific rule error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is makes every ValidationError match ErrValidationFault.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFault
}
