package resilience

import (
	"context"
	"fmt"

	"github.com/venturelens/upstream/observe"
)

// Coordinator hands calls that the primary provider path could not serve
// to a pluggable alternate execution path, typically a closure over a
// secondary provider client.
//
// A nil or unconfigured Coordinator is valid and reports
// ErrFallbackUnavailable when consulted, which is the behavior callers get
// until application wiring plugs in a real alternate path.
type Coordinator[T any] struct {
	alternate Work[T]
	logger    observe.Logger
}

// NewCoordinator creates a fallback coordinator around the alternate path.
// logger may be nil.
func NewCoordinator[T any](alternate Work[T], logger observe.Logger) *Coordinator[T] {
	if logger == nil {
		logger = observe.NopLogger()
	}
	return &Coordinator[T]{alternate: alternate, logger: logger}
}

// Attempt executes the alternate path. original is the (already sanitized)
// primary failure that triggered fallback.
//
// When the alternate path itself fails, the returned error carries the
// ORIGINAL primary error as its cause: the primary failure is what
// triggered fallback and is the diagnostically relevant one. The alternate
// failure is logged, not surfaced.
func (c *Coordinator[T]) Attempt(ctx context.Context, original error) (T, error) {
	var zero T

	if c == nil || c.alternate == nil {
		return zero, fmt.Errorf("%w: no alternate path configured", ErrFallbackUnavailable)
	}

	value, err := c.alternate(ctx)
	if err != nil {
		c.logger.Warn(ctx, "fallback path failed",
			observe.Field{Key: "error", Value: err.Error()})
		return zero, fmt.Errorf("%w: %w", ErrFallbackUnavailable, original)
	}
	return value, nil
}
