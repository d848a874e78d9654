package spring

import (
	"errors"
	"fmt"
)

// APIError represents an error reported by the aggregator, either as a
// non-2xx HTTP status or a non-zero ErrorLevel in the response body.
type APIError struct {
	Command    string
	ErrorLevel int
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error (level %d): %s: %v", e.Command, e.ErrorLevel, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error (level %d): %s", e.Command, e.ErrorLevel, e.Message)
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// NewAPIError creates a new APIError.
func NewAPIError(command string, level int, message string) *APIError {
	return &APIError{
		Command:    command,
		ErrorLevel: level,
		Message:    message,
	}
}

// WithCause adds a cause to the error.
func (e *APIError) WithCause(err error) *APIError {
	e.Cause = err
	return e
}

// WithStatusCode adds an HTTP status code to the error.
func (e *APIError) WithStatusCode(code int) *APIError {
	e.StatusCode = code
	return e
}

// Sentinel errors for common aggregator scenarios.
var (
	// ErrAPIKeyMissing indicates the aggregator API key is not configured.
	ErrAPIKeyMissing = errors.New("aggregator api key not configured")

	// ErrNoShipment indicates a booking response carried no shipment body.
	ErrNoShipment = errors.New("aggregator response carried no shipment")
)
