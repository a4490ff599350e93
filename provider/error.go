package provider

import (
	"fmt"
	"time"
)

// APIError is the normalized error shape returned by provider clients.
//
// Clients translate transport- and vendor-specific failures into this
// one representation so that failure classification can stay a pure
// function over status code, message, and retry-after hint.
type APIError struct {
	// StatusCode is the HTTP-shaped status code, 0 if unknown.
	StatusCode int

	// Message is the provider-supplied error text. May contain secrets;
	// it is sanitized before leaving the resilience layer.
	Message string

	// RetryAfter is the provider-supplied wait hint, 0 if none was given.
	// Typically populated from a Retry-After header on 429 responses.
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider: status %d: %s", e.StatusCode, e.Message)
	}
	return "provider: " + e.Message
}

// WithRetryAfter returns a copy carrying the given wait hint.
func (e *APIError) WithRetryAfter(d time.Duration) *APIError {
	clone := *e
	clone.RetryAfter = d
	return &clone
}

// NewAPIError creates a normalized provider error.
func NewAPIError(statusCode int, message string) *APIError {
	return &APIError{StatusCode: statusCode, Message: message}
}
