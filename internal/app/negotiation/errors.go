package negotiation

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("transition not allowed in current state")
	ErrNoPendingQuote    = errors.New("no pending quote to respond to")
)

// ValidationError описывает отсутствующее или неверное поле
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func missingField(field string) error {
	return &ValidationError{Field: field, Reason: "field is required"}
}

func invalidField(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
