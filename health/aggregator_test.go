package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

func staticChecker(name string, result Result) Checker {
	return NewCheckerFunc(name, func(context.Context) Result { return result })
}

func TestAggregator_CheckUnknownName(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})

	_, err := agg.Check(context.Background(), "missing")
	if !errors.Is(err, ErrCheckerNotFound) {
		t.Errorf("Check() error = %v, want %v", err, ErrCheckerNotFound)
	}
}

func TestAggregator_CheckByName(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})
	agg.Register("openai", staticChecker("openai", Healthy("provider available")))

	res, err := agg.Check(context.Background(), "openai")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if res.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", res.Status)
	}
	if res.Duration <= 0 {
		t.Error("Duration not populated")
	}
}

func TestAggregator_RegisterReplaces(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})
	agg.Register("openai", staticChecker("openai", Healthy("v1")))
	agg.Register("openai", staticChecker("openai", Degraded("v2")))

	res, err := agg.Check(context.Background(), "openai")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if res.Message != "v2" {
		t.Errorf("Message = %q, want replacement checker's result", res.Message)
	}

	if results := agg.CheckAll(context.Background()); len(results) != 1 {
		t.Errorf("CheckAll() returned %d results, want 1", len(results))
	}
}

func TestAggregator_CheckAll(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})
	agg.Register("openai", staticChecker("openai", Healthy("provider available")))
	agg.Register("fallback", staticChecker("fallback", Degraded("provider on probation after failures")))
	agg.Register("quota", staticChecker("quota", Unhealthy("quota exhausted", errors.New("429"))))

	results := agg.CheckAll(context.Background())
	if len(results) != 3 {
		t.Fatalf("CheckAll() returned %d results, want 3", len(results))
	}
	if results["openai"].Status != StatusHealthy {
		t.Errorf("openai status = %v, want healthy", results["openai"].Status)
	}
	if results["fallback"].Status != StatusDegraded {
		t.Errorf("fallback status = %v, want degraded", results["fallback"].Status)
	}
	if results["quota"].Status != StatusUnhealthy {
		t.Errorf("quota status = %v, want unhealthy", results["quota"].Status)
	}
}

func TestAggregator_CheckAllRunsInParallel(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})
	slow := func(context.Context) Result {
		time.Sleep(50 * time.Millisecond)
		return Healthy("ok")
	}
	for _, name := range []string{"a", "b", "c", "d"} {
		agg.Register(name, NewCheckerFunc(name, slow))
	}

	start := time.Now()
	agg.CheckAll(context.Background())
	elapsed := time.Since(start)

	// Sequential execution would take at least 200ms.
	if elapsed > 150*time.Millisecond {
		t.Errorf("CheckAll() took %v, checks did not run in parallel", elapsed)
	}
}

func TestAggregator_SlowCheckTimesOut(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{Timeout: 20 * time.Millisecond})
	agg.Register("stuck", NewCheckerFunc("stuck", func(ctx context.Context) Result {
		<-ctx.Done()
		time.Sleep(time.Second)
		return Healthy("too late")
	}))

	results := agg.CheckAll(context.Background())
	res := results["stuck"]
	if res.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy", res.Status)
	}
	if !errors.Is(res.Error, ErrCheckTimeout) {
		t.Errorf("Error = %v, want %v", res.Error, ErrCheckTimeout)
	}
}

func TestAggregator_OverallStatus(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})

	tests := []struct {
		name    string
		results map[string]Result
		want    Status
	}{
		{"empty", map[string]Result{}, StatusHealthy},
		{"all healthy", map[string]Result{"a": Healthy(""), "b": Healthy("")}, StatusHealthy},
		{"one degraded", map[string]Result{"a": Healthy(""), "b": Degraded("")}, StatusDegraded},
		{"unhealthy wins", map[string]Result{"a": Degraded(""), "b": Unhealthy("", nil)}, StatusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := agg.OverallStatus(tt.results); got != tt.want {
				t.Errorf("OverallStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusHealthy, "healthy"},
		{StatusDegraded, "degraded"},
		{StatusUnhealthy, "unhealthy"},
		{Status(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}
