package faults

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by every service. The HTTP layer maps these to
// status codes; services never format user-facing messages.
var (
	ErrNotFound          = errors.New("record not found")
	ErrTenantMismatch    = errors.New("record belongs to another company")
	ErrAlreadyReconciled = errors.New("bookout already reconciled")
	ErrAlreadyDecided    = errors.New("expense already decided")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError reports which field failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid returns a ValidationError for the given field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// TransitionError reports a disallowed status change.
type TransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid %s transition: %s -> %s", e.Entity, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
