package resilience

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/venturelens/upstream/provider"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureClass
	}{
		{"rate limit", provider.NewAPIError(429, "rate limit exceeded"), ClassRateLimit},
		{"internal error", provider.NewAPIError(500, "internal server error"), ClassServerError},
		{"bad gateway", provider.NewAPIError(502, "bad gateway"), ClassServerError},
		{"overloaded", provider.NewAPIError(529, "overloaded"), ClassServerError},
		{"request timeout", provider.NewAPIError(408, "request timeout"), ClassServerError},
		{"gateway timeout", provider.NewAPIError(504, "gateway timeout"), ClassServerError},
		{"unauthorized", provider.NewAPIError(401, "invalid api key"), ClassFatalAuth},
		{"forbidden", provider.NewAPIError(403, "permission denied"), ClassFatalAuth},
		{"bad request", provider.NewAPIError(400, "invalid model"), ClassFatal},
		{"not found", provider.NewAPIError(404, "no such model"), ClassFatal},
		{"statusless timeout message", provider.NewAPIError(0, "request timed out"), ClassTransient},
		{"connection reset", errors.New("read tcp: connection reset by peer"), ClassTransient},
		{"connection refused", errors.New("dial tcp: connection refused"), ClassTransient},
		{"no such host", errors.New("lookup api.example.com: no such host"), ClassTransient},
		{"attempt timeout sentinel", ErrAttemptTimeout, ClassTransient},
		{"wrapped attempt timeout", fmt.Errorf("attempt 2: %w", ErrAttemptTimeout), ClassTransient},
		{"deadline exceeded", context.DeadlineExceeded, ClassTransient},
		{"plain error", errors.New("schema validation failed"), ClassFatal},
		{"nil", nil, ClassFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestClassify_WrappedAPIError(t *testing.T) {
	err := fmt.Errorf("calling provider: %w", provider.NewAPIError(429, "slow down"))
	if got := Classify(err); got != ClassRateLimit {
		t.Errorf("Classify(wrapped 429) = %v, want rate-limit", got)
	}
}

func TestFailureClass_Retryable(t *testing.T) {
	retryable := []FailureClass{ClassRateLimit, ClassServerError, ClassTransient}
	for _, c := range retryable {
		if !c.Retryable() {
			t.Errorf("%v.Retryable() = false, want true", c)
		}
	}
	fatal := []FailureClass{ClassFatalAuth, ClassFatal}
	for _, c := range fatal {
		if c.Retryable() {
			t.Errorf("%v.Retryable() = true, want false", c)
		}
	}
}

func TestRetryAfterHint(t *testing.T) {
	withHint := provider.NewAPIError(429, "slow down").WithRetryAfter(5 * time.Second)
	d, ok := RetryAfterHint(withHint)
	if !ok || d != 5*time.Second {
		t.Errorf("RetryAfterHint(with hint) = (%v, %v), want (5s, true)", d, ok)
	}

	if _, ok := RetryAfterHint(provider.NewAPIError(429, "slow down")); ok {
		t.Error("RetryAfterHint(no hint) ok = true, want false")
	}
	if _, ok := RetryAfterHint(errors.New("timeout")); ok {
		t.Error("RetryAfterHint(plain error) ok = true, want false")
	}
}

func TestTriggersFallback(t *testing.T) {
	if !triggersFallback(provider.NewAPIError(500, "boom")) {
		t.Error("triggersFallback(500) = false, want true")
	}
	if triggersFallback(provider.NewAPIError(429, "slow down")) {
		t.Error("triggersFallback(429) = true, want false")
	}
	if triggersFallback(errors.New("connection reset")) {
		t.Error("triggersFallback(network error) = true, want false")
	}
}
