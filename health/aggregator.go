package health

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// AggregatorConfig configures the health aggregator.
type AggregatorConfig struct {
	// Timeout bounds a full CheckAll sweep. Default: 10s
	Timeout time.Duration
}

// Aggregator fans one health query out to every registered checker and
// reduces the results to a single status.
type Aggregator struct {
	config AggregatorConfig

	mu       sync.RWMutex
	checkers map[string]Checker
}

// NewAggregator creates a health aggregator.
func NewAggregator(config AggregatorConfig) *Aggregator {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &Aggregator{
		config:   config,
		checkers: make(map[string]Checker),
	}
}

// Register adds checker under name. Registering an existing name replaces
// the previous checker.
func (a *Aggregator) Register(name string, checker Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.checkers[name] = checker
}

// Check runs the single named checker.
func (a *Aggregator) Check(ctx context.Context, name string) (Result, error) {
	a.mu.RLock()
	checker, ok := a.checkers[name]
	a.mu.RUnlock()

	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrCheckerNotFound, name)
	}
	return a.run(ctx, checker), nil
}

// CheckAll runs every registered checker concurrently under one deadline
// and returns the results keyed by registration name.
func (a *Aggregator) CheckAll(ctx context.Context) map[string]Result {
	a.mu.RLock()
	snapshot := make(map[string]Checker, len(a.checkers))
	for name, c := range a.checkers {
		snapshot[name] = c
	}
	a.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	var (
		wg        sync.WaitGroup
		resultsMu sync.Mutex
		results   = make(map[string]Result, len(snapshot))
	)
	for name, checker := range snapshot {
		wg.Add(1)
		go func(name string, checker Checker) {
			defer wg.Done()
			res := a.run(ctx, checker)
			resultsMu.Lock()
			results[name] = res
			resultsMu.Unlock()
		}(name, checker)
	}
	wg.Wait()

	return results
}

// OverallStatus reduces results to one status. Any unhealthy check makes
// the whole set unhealthy; otherwise any degraded check degrades it.
func (a *Aggregator) OverallStatus(results map[string]Result) Status {
	overall := StatusHealthy
	for _, r := range results {
		switch r.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			overall = StatusDegraded
		}
	}
	return overall
}

// run executes one check, stamping its duration. A checker that outlives
// the deadline is abandoned and reported unhealthy; its goroutine may
// finish later into a buffered channel.
func (a *Aggregator) run(ctx context.Context, checker Checker) Result {
	start := time.Now()

	done := make(chan Result, 1)
	go func() {
		done <- checker.Check(ctx)
	}()

	var res Result
	select {
	case res = <-done:
	case <-ctx.Done():
		res = Unhealthy("check abandoned at deadline", ErrCheckTimeout)
	}
	res.Duration = time.Since(start)
	return res
}
