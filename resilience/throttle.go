package resilience

import (
	"context"
	"sync"
	"time"
)

// ThrottleConfig configures the client-side throttle.
type ThrottleConfig struct {
	// Rate is the number of provider calls allowed per second.
	// Default: 10
	Rate float64

	// Burst is the maximum burst size. Default: 5
	Burst int

	// MaxWait is the longest a caller will block waiting for a token
	// before failing with ErrThrottled. Default: 2 seconds
	MaxWait time.Duration
}

// Throttle is a token-bucket limiter on outbound provider calls, keeping
// this process under the provider's quota rather than burning retry
// budget on 429 responses.
type Throttle struct {
	config ThrottleConfig

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewThrottle creates a throttle with a full bucket.
func NewThrottle(config ThrottleConfig) *Throttle {
	if config.Rate <= 0 {
		config.Rate = 10
	}
	if config.Burst <= 0 {
		config.Burst = 5
	}
	if config.MaxWait <= 0 {
		config.MaxWait = 2 * time.Second
	}

	return &Throttle{
		config:     config,
		tokens:     float64(config.Burst),
		lastRefill: time.Now(),
	}
}

// Allow consumes a token if one is available.
func (t *Throttle) Allow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.refillLocked()
	if t.tokens >= 1 {
		t.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available, the context is done, or MaxWait
// elapses (ErrThrottled).
func (t *Throttle) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.Allow() {
		return nil
	}

	t.mu.Lock()
	needed := 1 - t.tokens
	wait := time.Duration(needed / t.config.Rate * float64(time.Second))
	t.mu.Unlock()

	if wait > t.config.MaxWait {
		wait = t.config.MaxWait
	}

	if err := sleepCtx(ctx, wait); err != nil {
		return err
	}
	if t.Allow() {
		return nil
	}
	return ErrThrottled
}

// Tokens returns the current token count after refill.
func (t *Throttle) Tokens() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refillLocked()
	return t.tokens
}

func (t *Throttle) refillLocked() {
	now := time.Now()
	elapsed := now.Sub(t.lastRefill)
	t.lastRefill = now

	t.tokens += elapsed.Seconds() * t.config.Rate
	if t.tokens > float64(t.config.Burst) {
		t.tokens = float64(t.config.Burst)
	}
}
