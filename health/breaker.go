package health

import (
	"context"

	"github.com/venturelens/upstream/resilience"
)

// BreakerChecker reports the availability of one upstream provider from
// its circuit breaker snapshot: closed maps to healthy, half-open to
// degraded (probation), open to unhealthy.
type BreakerChecker struct {
	name    string
	breaker *resilience.Breaker
}

// NewBreakerChecker creates a checker over the provider's shared breaker.
func NewBreakerChecker(name string, breaker *resilience.Breaker) *BreakerChecker {
	return &BreakerChecker{name: name, breaker: breaker}
}

// Name returns the checker name.
func (c *BreakerChecker) Name() string { return c.name }

// Check translates the breaker snapshot into a health result.
func (c *BreakerChecker) Check(_ context.Context) Result {
	snap := c.breaker.Status()

	details := map[string]any{
		"circuitState":   snap.StateName,
		"recentFailures": snap.RecentFailures,
	}

	switch snap.State {
	case resilience.StateOpen:
		return Unhealthy(snap.Reason, resilience.ErrCircuitOpen).WithDetails(details)
	case resilience.StateHalfOpen:
		return Degraded("provider on probation after failures").WithDetails(details)
	default:
		return Healthy("provider available").WithDetails(details)
	}
}
