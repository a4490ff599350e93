// Package resilience governs every call this process makes to its upstream
// large-language-model provider.
//
// It combines three cooperating pieces:
//
//   - Breaker: the availability tracker. One shared instance per provider
//     owns the circuit state (closed/open/half-open) and a sliding window
//     of recent failure timestamps.
//
//   - Executor: wraps a caller-supplied unit of work in a bounded retry
//     loop with per-attempt timeouts, failure classification, exponential
//     backoff with additive jitter, and rate-limit-hint-aware waits.
//
//   - Coordinator: when the primary path is judged unusable (open circuit,
//     provider 5xx, or exhausted retries), hands the call to a pluggable
//     alternate execution path.
//
// Every error surfaced by the package is passed through the configured
// redact.Sanitizer first, so provider credentials never leak through error
// messages or logs.
//
// # Usage
//
//	breaker := resilience.NewBreaker(resilience.BreakerConfig{
//	    FailureThreshold: 5,
//	    OpenTimeout:      30 * time.Second,
//	})
//	ex := resilience.NewExecutor(resilience.ExecutorConfig{
//	    Breaker:   breaker,
//	    Sanitizer: redact.NewSanitizer(redact.WithLiterals(apiKey)),
//	})
//
//	result, err := resilience.Do(ctx, ex, func(ctx context.Context) (*provider.Response, error) {
//	    return client.Complete(ctx, req)
//	}, resilience.DefaultOptions())
package resilience
