package shipment

import (
	"errors"
	"fmt"
)

// ValidationError is a client-input error raised before any outbound
// aggregator call is made.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a client-input validation error.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
