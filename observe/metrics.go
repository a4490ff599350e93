package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records execution metrics for upstream provider calls.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCall records one completed call with its duration, attempt
	// count, whether the fallback path served it, and error status.
	RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, attempts int, usedFallback bool, err error)

	// RecordRetry records a single retry wait before the next attempt.
	RecordRetry(ctx context.Context, meta CallMeta, delay time.Duration)

	// RecordStateChange records a circuit state transition.
	RecordStateChange(ctx context.Context, from, to string)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	totalCount    metric.Int64Counter
	errorCount    metric.Int64Counter
	retryCount    metric.Int64Counter
	fallbackCount metric.Int64Counter
	stateChanges  metric.Int64Counter
	attemptsHist  metric.Int64Histogram
	durationHist  metric.Float64Histogram
	retryWaitHist metric.Float64Histogram
}

// newMetrics creates a new Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		"upstream.call.total",
		metric.WithDescription("Total number of upstream provider calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"upstream.call.errors",
		metric.WithDescription("Total number of failed upstream provider calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	retryCount, err := meter.Int64Counter(
		"upstream.call.retries",
		metric.WithDescription("Total number of retry waits"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	fallbackCount, err := meter.Int64Counter(
		"upstream.call.fallbacks",
		metric.WithDescription("Total number of calls served by the fallback path"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	stateChanges, err := meter.Int64Counter(
		"upstream.breaker.transitions",
		metric.WithDescription("Total number of circuit breaker state transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	attemptsHist, err := meter.Int64Histogram(
		"upstream.call.attempts",
		metric.WithDescription("Attempts consumed per upstream call"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"upstream.call.duration_ms",
		metric.WithDescription("Wall-clock call duration in milliseconds, including waits"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	retryWaitHist, err := meter.Float64Histogram(
		"upstream.call.retry_wait_ms",
		metric.WithDescription("Backoff wait before a retry attempt in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:    totalCount,
		errorCount:    errorCount,
		retryCount:    retryCount,
		fallbackCount: fallbackCount,
		stateChanges:  stateChanges,
		attemptsHist:  attemptsHist,
		durationHist:  durationHist,
		retryWaitHist: retryWaitHist,
	}, nil
}

func (m *metricsImpl) callAttrs(meta CallMeta) metric.MeasurementOption {
	attrs := []attribute.KeyValue{
		attribute.String("upstream.provider", meta.Provider),
		attribute.String("upstream.operation", meta.Operation),
	}
	if meta.Model != "" {
		attrs = append(attrs, attribute.String("upstream.model", meta.Model))
	}
	return metric.WithAttributes(attrs...)
}

// RecordCall records metrics for one completed upstream call.
func (m *metricsImpl) RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, attempts int, usedFallback bool, err error) {
	opt := m.callAttrs(meta)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	if usedFallback {
		m.fallbackCount.Add(ctx, 1, opt)
	}
	m.attemptsHist.Record(ctx, int64(attempts), opt)
	m.durationHist.Record(ctx, float64(duration.Microseconds())/1000.0, opt)
}

// RecordRetry records one retry wait.
func (m *metricsImpl) RecordRetry(ctx context.Context, meta CallMeta, delay time.Duration) {
	opt := m.callAttrs(meta)
	m.retryCount.Add(ctx, 1, opt)
	m.retryWaitHist.Record(ctx, float64(delay.Microseconds())/1000.0, opt)
}

// RecordStateChange records a circuit state transition.
func (m *metricsImpl) RecordStateChange(ctx context.Context, from, to string) {
	m.stateChanges.Add(ctx, 1, metric.WithAttributes(
		attribute.String("breaker.from", from),
		attribute.String("breaker.to", to),
	))
}

// NopMetrics returns a Metrics recorder that discards everything.
func NopMetrics() Metrics { return nopMetrics{} }

type nopMetrics struct{}

func (nopMetrics) RecordCall(context.Context, CallMeta, time.Duration, int, bool, error) {}
func (nopMetrics) RecordRetry(context.Context, CallMeta, time.Duration)                  {}
func (nopMetrics) RecordStateChange(context.Context, string, string)                    {}
