package resilience

import (
	"context"
	"sync"
	"time"
)

// InflightConfig configures the in-flight call limiter.
type InflightConfig struct {
	// MaxInflight is the maximum number of concurrent provider calls.
	// Default: 10
	MaxInflight int

	// MaxWait is how long to wait for a slot before failing with
	// ErrTooManyInflight. Default: 0 (fail immediately)
	MaxWait time.Duration
}

// InflightLimiter caps how many provider calls this process has in flight
// at once. It gates admission; it owns no workers and runs nothing itself.
type InflightLimiter struct {
	config InflightConfig
	sem    chan struct{}

	mu       sync.Mutex
	active   int
	rejected int64
}

// NewInflightLimiter creates an in-flight limiter.
func NewInflightLimiter(config InflightConfig) *InflightLimiter {
	if config.MaxInflight <= 0 {
		config.MaxInflight = 10
	}
	return &InflightLimiter{
		config: config,
		sem:    make(chan struct{}, config.MaxInflight),
	}
}

// Acquire claims a slot, waiting up to MaxWait.
func (l *InflightLimiter) Acquire(ctx context.Context) error {
	select {
	case l.sem <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil
	default:
	}

	if l.config.MaxWait <= 0 {
		l.mu.Lock()
		l.rejected++
		l.mu.Unlock()
		return ErrTooManyInflight
	}

	timer := time.NewTimer(l.config.MaxWait)
	defer timer.Stop()

	select {
	case l.sem <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil
	case <-timer.C:
		l.mu.Lock()
		l.rejected++
		l.mu.Unlock()
		return ErrTooManyInflight
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot claimed by Acquire.
func (l *InflightLimiter) Release() {
	select {
	case <-l.sem:
		l.mu.Lock()
		l.active--
		l.mu.Unlock()
	default:
		// Release without a matching Acquire; nothing to free.
	}
}

// Active returns the number of calls currently in flight.
func (l *InflightLimiter) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// Rejected returns how many acquisitions were refused.
func (l *InflightLimiter) Rejected() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rejected
}
