package resilience

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for resilience operations.
var (
	// ErrCircuitOpen is returned when the circuit breaker rejects a call.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrRetriesExhausted is returned when the attempt budget is spent.
	ErrRetriesExhausted = errors.New("resilience: retries exhausted")

	// ErrFallbackUnavailable is returned when fallback was requested but
	// no alternate path is configured, or the alternate path failed.
	ErrFallbackUnavailable = errors.New("resilience: fallback unavailable")

	// ErrAttemptTimeout is returned when a single attempt exceeds its
	// per-attempt timeout. Classified as transient and retried.
	ErrAttemptTimeout = errors.New("resilience: attempt timed out")

	// ErrAuthRejected is returned when the provider rejected credentials.
	// Never retried and never routed to fallback.
	ErrAuthRejected = errors.New("resilience: provider rejected credentials")

	// ErrCanceled is returned when the caller's context was canceled.
	// Distinct from provider failures; not recorded against the breaker.
	ErrCanceled = errors.New("resilience: call canceled")

	// ErrThrottled is returned when the client-side throttle rejects a call.
	ErrThrottled = errors.New("resilience: client-side rate limit exceeded")

	// ErrTooManyInflight is returned when the in-flight cap is reached.
	ErrTooManyInflight = errors.New("resilience: too many in-flight calls")
)

// CircuitOpenError reports a rejected call while the circuit is open.
type CircuitOpenError struct {
	// RemainingWait is how long until the breaker will probe again.
	RemainingWait time.Duration
}

func (e *CircuitOpenError) Error() string {
	return fmt.Sprintf("resilience: circuit breaker is open (retry in %s)", e.RemainingWait.Round(time.Millisecond))
}

// Unwrap allows errors.Is(err, ErrCircuitOpen).
func (e *CircuitOpenError) Unwrap() error { return ErrCircuitOpen }

// RetriesExhaustedError reports a spent attempt budget. LastErr is the
// final (sanitized) provider failure.
type RetriesExhaustedError struct {
	Attempts int
	LastErr  error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("resilience: retries exhausted after %d attempts: %v", e.Attempts, e.LastErr)
}

// Unwrap exposes the last provider failure.
func (e *RetriesExhaustedError) Unwrap() error { return e.LastErr }

// Is allows errors.Is(err, ErrRetriesExhausted).
func (e *RetriesExhaustedError) Is(target error) bool { return target == ErrRetriesExhausted }
