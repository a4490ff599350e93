package resilience

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/venturelens/upstream/observe"
	"github.com/venturelens/upstream/provider"
	"github.com/venturelens/upstream/redact"
)

// Work is the caller-supplied unit of work: one fully-prepared call
// against the upstream provider.
type Work[T any] func(ctx context.Context) (T, error)

// Options configures one Execute invocation. Supplied per call and never
// stored by the executor.
type Options struct {
	// MaxRetries is the number of retries after the first attempt, so the
	// total attempt budget is MaxRetries+1. Zero means a single attempt.
	MaxRetries int

	// BaseDelay is the backoff delay before the first retry.
	// Default: 100ms
	BaseDelay time.Duration

	// MaxDelay caps the exponential backoff. Default: 10s
	MaxDelay time.Duration

	// Timeout bounds each individual attempt. Default: 30s
	Timeout time.Duration

	// EnableFallback routes terminal failures to the fallback coordinator.
	// Off by default so callers needing deterministic single-provider
	// behavior are not silently rerouted.
	EnableFallback bool

	// Meta labels telemetry for this call.
	Meta observe.CallMeta
}

// DefaultOptions returns the standard per-call options: 3 retries, 100ms
// base delay, 10s delay cap, 30s per-attempt timeout, fallback off.
func DefaultOptions() Options {
	return Options{
		MaxRetries: 3,
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   10 * time.Second,
		Timeout:    30 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = 100 * time.Millisecond
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = 10 * time.Second
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return o
}

// Result is returned to the caller on success.
type Result[T any] struct {
	// Value is the successful result.
	Value T

	// Attempts is how many primary attempts were consumed.
	Attempts int

	// TotalTime is the wall-clock time spent, including all waits.
	TotalTime time.Duration

	// UsedFallback reports whether the alternate path served the call.
	UsedFallback bool
}

// ExecutorConfig configures an Executor.
type ExecutorConfig struct {
	// Breaker is the shared availability tracker. Required: every
	// executor for a provider must share that provider's breaker.
	Breaker *Breaker

	// Sanitizer scrubs secrets from every surfaced error. Optional but
	// strongly recommended in production wiring.
	Sanitizer *redact.Sanitizer

	// Logger receives retry and fallback events. Default: discard.
	Logger observe.Logger

	// Metrics receives call, retry, and fallback measurements.
	// Default: discard.
	Metrics observe.Metrics

	// Throttle optionally rate-limits outbound attempts client-side.
	Throttle *Throttle

	// Inflight optionally caps concurrent calls through this executor.
	Inflight *InflightLimiter
}

// Executor runs units of work against the upstream provider with bounded
// retries, per-attempt timeouts, failure-aware delays, and circuit
// protection. Executors are cheap and stateless apart from the shared
// Breaker; one per provider is typical.
type Executor struct {
	breaker   *Breaker
	sanitizer *redact.Sanitizer
	logger    observe.Logger
	metrics   observe.Metrics
	throttle  *Throttle
	inflight  *InflightLimiter

	now    func() time.Time
	jitter func(d time.Duration) time.Duration
}

// NewExecutor creates an executor. A nil Breaker gets a default one, but
// sharing a breaker across executors for the same provider is the point.
func NewExecutor(cfg ExecutorConfig) *Executor {
	if cfg.Breaker == nil {
		cfg.Breaker = NewBreaker(BreakerConfig{})
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observe.NopMetrics()
	}
	return &Executor{
		breaker:   cfg.Breaker,
		sanitizer: cfg.Sanitizer,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		throttle:  cfg.Throttle,
		inflight:  cfg.Inflight,
		now:       time.Now,
		jitter:    additiveJitter,
	}
}

// Breaker returns the shared availability tracker.
func (ex *Executor) Breaker() *Breaker { return ex.breaker }

// Do executes work with retries and no fallback path.
func Do[T any](ctx context.Context, ex *Executor, work Work[T], opts Options) (*Result[T], error) {
	return DoWithFallback(ctx, ex, work, nil, opts)
}

// DoWithFallback executes work with retries, handing terminal failures to
// fb when opts.EnableFallback is set.
//
// Per attempt: the work races a per-attempt timeout; a success is recorded
// with the breaker and returned; a failure is classified and recorded, then
// either retried after a computed delay, handed to fallback (5xx with
// fallback enabled, or budget spent), or surfaced sanitized. The breaker is
// consulted once before any attempt: an open circuit fails fast without
// consuming attempt budget unless fallback is enabled.
func DoWithFallback[T any](ctx context.Context, ex *Executor, work Work[T], fb *Coordinator[T], opts Options) (*Result[T], error) {
	opts = opts.withDefaults()
	start := ex.now()
	res := &Result[T]{}

	finish := func(err error) (*Result[T], error) {
		res.TotalTime = ex.now().Sub(start)
		ex.metrics.RecordCall(ctx, opts.Meta, res.TotalTime, res.Attempts, res.UsedFallback, err)
		if err != nil {
			return nil, err
		}
		return res, nil
	}

	runFallback := func(original error) (*Result[T], error) {
		original = ex.sanitizeErr(original)
		value, err := fb.Attempt(ctx, original)
		if err != nil {
			return finish(err)
		}
		ex.logger.Warn(ctx, "upstream call served by fallback path",
			observe.Field{Key: "attempts", Value: res.Attempts},
			observe.Field{Key: "primary_error", Value: original.Error()})
		res.Value = value
		res.UsedFallback = true
		return finish(nil)
	}

	// Availability gate: an open circuit rejects the call before any
	// attempt budget is spent.
	if err := ex.breaker.Acquire(); err != nil {
		if opts.EnableFallback {
			return runFallback(err)
		}
		ex.logger.Warn(ctx, "upstream call rejected by circuit breaker",
			observe.Field{Key: "error", Value: err.Error()})
		return finish(err)
	}

	if ex.inflight != nil {
		if err := ex.inflight.Acquire(ctx); err != nil {
			return finish(err)
		}
		defer ex.inflight.Release()
	}

	var lastErr error
	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		if ex.throttle != nil {
			if err := ex.throttle.Wait(ctx); err != nil {
				return finish(err)
			}
		}

		value, err := attemptOnce(ctx, work, opts.Timeout)
		res.Attempts = attempt + 1

		if err == nil {
			ex.breaker.RecordSuccess()
			res.Value = value
			return finish(nil)
		}

		// Caller cancellation is not a provider failure: abandon pending
		// retries without recording against the breaker.
		if ctx.Err() != nil {
			return finish(fmt.Errorf("%w: %w", ErrCanceled, ctx.Err()))
		}

		class := Classify(err)
		ex.breaker.RecordFailure(err)
		lastErr = err

		ex.logger.Debug(ctx, "upstream attempt failed",
			observe.Field{Key: "attempt", Value: attempt},
			observe.Field{Key: "class", Value: class.String()},
			observe.Field{Key: "error", Value: ex.sanitizeErr(err).Error()})

		if class == ClassFatalAuth {
			// Retrying with the same bad credentials cannot succeed, and
			// neither can a fallback sharing them.
			return finish(fmt.Errorf("%w: %v", ErrAuthRejected, ex.sanitizeErr(err)))
		}

		if opts.EnableFallback && triggersFallback(err) {
			return runFallback(err)
		}

		if !class.Retryable() {
			if opts.EnableFallback {
				return runFallback(err)
			}
			return finish(ex.sanitizeErr(err))
		}

		if attempt == opts.MaxRetries {
			break
		}

		delay := ex.delayFor(class, err, attempt, opts)
		ex.metrics.RecordRetry(ctx, opts.Meta, delay)
		if err := sleepCtx(ctx, delay); err != nil {
			return finish(fmt.Errorf("%w: %w", ErrCanceled, err))
		}
	}

	if opts.EnableFallback {
		return runFallback(lastErr)
	}
	return finish(&RetriesExhaustedError{Attempts: res.Attempts, LastErr: ex.sanitizeErr(lastErr)})
}

// attemptOnce races one execution of work against the per-attempt timeout.
func attemptOnce[T any](ctx context.Context, work Work[T], timeout time.Duration) (T, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		value, err := work(attemptCtx)
		done <- outcome{value, err}
	}()

	select {
	case out := <-done:
		return out.value, out.err
	case <-attemptCtx.Done():
		var zero T
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		return zero, ErrAttemptTimeout
	}
}

// delayFor computes the wait before the next attempt. An explicit provider
// hint is honored exactly, with no jitter or scaling. A rate-limit failure
// without a hint waits the fixed default. Everything else backs off
// exponentially, capped at MaxDelay, with additive jitter so the sleep
// never undershoots the nominal backoff.
func (ex *Executor) delayFor(class FailureClass, err error, attempt int, opts Options) time.Duration {
	if hint, ok := RetryAfterHint(err); ok {
		return hint
	}
	if class == ClassRateLimit {
		return DefaultRateLimitWait
	}

	delay := time.Duration(float64(opts.BaseDelay) * math.Pow(2, float64(attempt)))
	if delay > opts.MaxDelay || delay <= 0 {
		delay = opts.MaxDelay
	}
	return delay + ex.jitter(delay)
}

// additiveJitter returns a random duration in [0, delay/10).
func additiveJitter(delay time.Duration) time.Duration {
	tenth := int64(delay) / 10
	if tenth <= 0 {
		return 0
	}
	// #nosec G404 -- jitter is non-cryptographic timing variance.
	return time.Duration(rand.Int63n(tenth))
}

// sleepCtx sleeps for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// sanitizeErr scrubs secrets from err before it is logged or surfaced.
// Normalized provider errors keep their type with a rewritten message so
// classification information survives sanitization.
func (ex *Executor) sanitizeErr(err error) error {
	if err == nil || ex.sanitizer == nil {
		return err
	}
	var api *provider.APIError
	if errors.As(err, &api) {
		clean := ex.sanitizer.SanitizeText(api.Message)
		if clean == api.Message {
			return err
		}
		return &provider.APIError{StatusCode: api.StatusCode, Message: clean, RetryAfter: api.RetryAfter}
	}
	return ex.sanitizer.Sanitize(err)
}
