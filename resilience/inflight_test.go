package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestInflightLimiter_CapsConcurrency(t *testing.T) {
	l := NewInflightLimiter(InflightConfig{MaxInflight: 2})

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire #1 = %v, want nil", err)
	}
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire #2 = %v, want nil", err)
	}

	if err := l.Acquire(context.Background()); !errors.Is(err, ErrTooManyInflight) {
		t.Fatalf("Acquire #3 = %v, want ErrTooManyInflight", err)
	}
	if got := l.Rejected(); got != 1 {
		t.Errorf("Rejected() = %d, want 1", got)
	}

	l.Release()
	if err := l.Acquire(context.Background()); err != nil {
		t.Errorf("Acquire after Release = %v, want nil", err)
	}
}

func TestInflightLimiter_WaitsForSlot(t *testing.T) {
	l := NewInflightLimiter(InflightConfig{MaxInflight: 1, MaxWait: time.Second})

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire = %v, want nil", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- l.Acquire(context.Background())
	}()

	time.Sleep(10 * time.Millisecond)
	l.Release()

	if err := <-done; err != nil {
		t.Errorf("waiting Acquire = %v, want nil", err)
	}
}

func TestInflightLimiter_ReleaseWithoutAcquire(t *testing.T) {
	l := NewInflightLimiter(InflightConfig{MaxInflight: 1})
	l.Release() // must not panic or free phantom slots

	if got := l.Active(); got != 0 {
		t.Errorf("Active() = %d, want 0", got)
	}
}

func TestInflightLimiter_ConcurrentUse(t *testing.T) {
	l := NewInflightLimiter(InflightConfig{MaxInflight: 4, MaxWait: time.Second})

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire = %v, want nil", err)
				return
			}
			if got := l.Active(); got > 4 {
				t.Errorf("Active() = %d, want <= 4", got)
			}
			time.Sleep(time.Millisecond)
			l.Release()
		}()
	}
	wg.Wait()

	if got := l.Active(); got != 0 {
		t.Errorf("Active() = %d after all released, want 0", got)
	}
}
