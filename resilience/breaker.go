package resilience

import (
	"fmt"
	"sync"
	"time"
)

// CircuitState represents the circuit breaker state.
type CircuitState int

const (
	// StateClosed means calls flow to the provider normally.
	StateClosed CircuitState = iota
	// StateOpen means calls are rejected until the open timeout elapses.
	StateOpen
	// StateHalfOpen means probe calls are allowed to test recovery.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig configures the availability tracker. Immutable after
// construction.
type BreakerConfig struct {
	// FailureThreshold is the number of failures inside the monitoring
	// window that opens the circuit. Default: 5
	FailureThreshold int

	// SuccessThreshold is the number of successes while half-open
	// required to close the circuit. Default: 2
	SuccessThreshold int

	// OpenTimeout is how long the circuit stays open before a probe
	// is allowed. Default: 30 seconds
	OpenTimeout time.Duration

	// Window is the monitoring duration failures are counted over.
	// Default: 5 minutes
	Window time.Duration

	// OnStateChange is called when the circuit state changes. Must not
	// call back into the Breaker.
	OnStateChange func(from, to CircuitState)
}

// HealthSnapshot is a point-in-time view of provider availability, shaped
// for monitoring endpoints and dashboards.
type HealthSnapshot struct {
	Healthy        bool         `json:"healthy"`
	State          CircuitState `json:"-"`
	StateName      string       `json:"circuitState"`
	RecentFailures int          `json:"recentFailures"`
	Reason         string       `json:"reason,omitempty"`
}

// Breaker is the availability tracker for one upstream provider: it owns
// the circuit state and a sliding window of recent failure timestamps.
//
// There is one Breaker per provider per process, constructed at startup
// and shared by reference with every caller. All methods are safe for
// concurrent use; state transitions are applied atomically under an
// internal mutex. State is process-local: a fresh process starts closed.
type Breaker struct {
	config BreakerConfig
	now    func() time.Time

	mu                sync.Mutex
	state             CircuitState
	failures          []time.Time
	lastFailure       time.Time
	halfOpenSuccesses int
}

// NewBreaker creates an availability tracker in the closed state.
func NewBreaker(config BreakerConfig) *Breaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 2
	}
	if config.OpenTimeout <= 0 {
		config.OpenTimeout = 30 * time.Second
	}
	if config.Window <= 0 {
		config.Window = 5 * time.Minute
	}

	return &Breaker{
		config: config,
		now:    time.Now,
		state:  StateClosed,
	}
}

// Available reports whether the provider should currently be called.
// True unless the circuit is open with time still left on the open timeout.
func (b *Breaker) Available() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StateOpen {
		return true
	}
	return b.now().Sub(b.lastFailure) >= b.config.OpenTimeout
}

// Acquire gates one call attempt. Closed and half-open circuits admit the
// call. An open circuit whose timeout has elapsed transitions to half-open
// exactly once (concurrent callers racing this check see half-open and are
// admitted without a second transition) and admits the probe; otherwise
// Acquire fails with a *CircuitOpenError carrying the remaining wait.
func (b *Breaker) Acquire() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed, StateHalfOpen:
		return nil
	default: // StateOpen
		elapsed := b.now().Sub(b.lastFailure)
		if elapsed >= b.config.OpenTimeout {
			b.halfOpenSuccesses = 0
			b.setStateLocked(StateHalfOpen)
			return nil
		}
		return &CircuitOpenError{RemainingWait: b.config.OpenTimeout - elapsed}
	}
}

// RecordSuccess records a successful call. While half-open, consecutive
// successes count toward SuccessThreshold; reaching it closes the circuit
// and clears the failure window. While closed, a success only prunes the
// window: failure streaks are measured over the window, so a single
// success does not erase a building failure pattern.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pruneLocked(b.now())

	if b.state == StateHalfOpen {
		b.halfOpenSuccesses++
		if b.halfOpenSuccesses >= b.config.SuccessThreshold {
			b.failures = b.failures[:0]
			b.halfOpenSuccesses = 0
			b.setStateLocked(StateClosed)
		}
	}
}

// RecordFailure records a failed call. A single failure while half-open
// re-opens the circuit immediately. While closed, the circuit opens once
// the pruned window holds FailureThreshold failures.
func (b *Breaker) RecordFailure(err error) {
	if err == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.failures = append(b.failures, now)
	b.lastFailure = now
	b.pruneLocked(now)

	switch b.state {
	case StateHalfOpen:
		b.setStateLocked(StateOpen)
	case StateClosed:
		if len(b.failures) >= b.config.FailureThreshold {
			b.setStateLocked(StateOpen)
		}
	}
}

// Status returns a snapshot of the breaker for health reporting.
func (b *Breaker) Status() HealthSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pruneLocked(b.now())

	snap := HealthSnapshot{
		Healthy:        b.state != StateOpen,
		State:          b.state,
		StateName:      b.state.String(),
		RecentFailures: len(b.failures),
	}
	if b.state == StateOpen {
		remaining := b.config.OpenTimeout - b.now().Sub(b.lastFailure)
		if remaining < 0 {
			remaining = 0
		}
		snap.Reason = fmt.Sprintf("%d recent failures; next probe in %s",
			len(b.failures), remaining.Round(time.Millisecond))
	}
	return snap
}

// Reset is the administrative force-reset: it closes the circuit and
// clears all counters and the failure window. Intended for operator use
// after a confirmed upstream fix.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = b.failures[:0]
	b.halfOpenSuccesses = 0
	b.lastFailure = time.Time{}
	if b.state != StateClosed {
		b.setStateLocked(StateClosed)
	}
}

// pruneLocked drops failures older than the monitoring window. Every read
// of the failure count goes through here first, so the window is bounded.
func (b *Breaker) pruneLocked(now time.Time) {
	cutoff := now.Add(-b.config.Window)
	i := 0
	for i < len(b.failures) && !b.failures[i].After(cutoff) {
		i++
	}
	if i > 0 {
		b.failures = append(b.failures[:0], b.failures[i:]...)
	}
}

func (b *Breaker) setStateLocked(state CircuitState) {
	if b.state == state {
		return
	}
	from := b.state
	b.state = state
	if b.config.OnStateChange != nil {
		b.config.OnStateChange(from, state)
	}
}
