package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/venturelens/upstream/resilience"
)

func TestBreakerChecker_ClosedIsHealthy(t *testing.T) {
	breaker := resilience.NewBreaker(resilience.BreakerConfig{})
	checker := NewBreakerChecker("openai", breaker)

	if checker.Name() != "openai" {
		t.Errorf("Name() = %q, want %q", checker.Name(), "openai")
	}

	res := checker.Check(context.Background())
	if res.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", res.Status)
	}
	if res.Details["circuitState"] != "closed" {
		t.Errorf("circuitState detail = %v, want closed", res.Details["circuitState"])
	}
}

func TestBreakerChecker_OpenIsUnhealthy(t *testing.T) {
	breaker := resilience.NewBreaker(resilience.BreakerConfig{FailureThreshold: 2})
	checker := NewBreakerChecker("openai", breaker)

	breaker.RecordFailure(errors.New("status 503"))
	breaker.RecordFailure(errors.New("status 503"))

	res := checker.Check(context.Background())
	if res.Status != StatusUnhealthy {
		t.Fatalf("Status = %v, want unhealthy", res.Status)
	}
	if !errors.Is(res.Error, resilience.ErrCircuitOpen) {
		t.Errorf("Error = %v, want %v", res.Error, resilience.ErrCircuitOpen)
	}
	if res.Details["recentFailures"] != 2 {
		t.Errorf("recentFailures detail = %v, want 2", res.Details["recentFailures"])
	}
}

func TestBreakerChecker_HalfOpenIsDegraded(t *testing.T) {
	breaker := resilience.NewBreaker(resilience.BreakerConfig{
		FailureThreshold: 1,
		OpenTimeout:      time.Millisecond,
	})
	checker := NewBreakerChecker("openai", breaker)

	breaker.RecordFailure(errors.New("status 503"))
	time.Sleep(5 * time.Millisecond)
	if err := breaker.Acquire(); err != nil {
		t.Fatalf("Acquire() after open timeout error = %v", err)
	}

	res := checker.Check(context.Background())
	if res.Status != StatusDegraded {
		t.Errorf("Status = %v, want degraded", res.Status)
	}
	if res.Details["circuitState"] != "half-open" {
		t.Errorf("circuitState detail = %v, want half-open", res.Details["circuitState"])
	}
}
