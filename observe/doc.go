// Package observe provides telemetry for upstream provider calls.
//
// It wires OpenTelemetry tracing and metrics behind a single Observer,
// and supplies a minimal structured Logger used across the resilience
// layer. All components are safe for concurrent use and degrade to
// no-ops when disabled, so library code can log and record metrics
// unconditionally.
//
// # Usage
//
//	obs, err := observe.NewObserver(ctx, observe.Config{
//	    ServiceName: "upstream-gateway",
//	    Version:     "1.4.2",
//	    Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "prometheus"},
//	    Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
//	})
//	if err != nil {
//	    return err
//	}
//	defer obs.Shutdown(context.Background())
package observe
