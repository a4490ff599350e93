package provider

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// BuildFunc constructs a provider client. Called at most once per cache
// window regardless of concurrent callers.
type BuildFunc func(ctx context.Context) (Client, error)

// FactoryConfig configures the client factory.
type FactoryConfig struct {
	// Build constructs the client. Required.
	Build BuildFunc

	// TTL is how long a constructed client is reused before being
	// rebuilt. Default: 1 hour.
	TTL time.Duration
}

// Factory constructs the provider client once and caches it for a TTL.
//
// It replaces lazy construction hidden behind a proxy with an explicit
// get-or-build: the first caller after startup, expiry, or Invalidate
// builds the client; concurrent callers share that one build.
type Factory struct {
	config FactoryConfig
	now    func() time.Time

	mu      sync.RWMutex
	client  Client
	builtAt time.Time

	group singleflight.Group
}

// NewFactory creates a client factory.
func NewFactory(config FactoryConfig) (*Factory, error) {
	if config.Build == nil {
		return nil, errors.New("provider: factory build func is required")
	}
	if config.TTL <= 0 {
		config.TTL = time.Hour
	}
	return &Factory{
		config: config,
		now:    time.Now,
	}, nil
}

// Get returns the cached client, building it when absent or expired.
func (f *Factory) Get(ctx context.Context) (Client, error) {
	f.mu.RLock()
	client := f.client
	fresh := client != nil && f.now().Sub(f.builtAt) < f.config.TTL
	f.mu.RUnlock()

	if fresh {
		return client, nil
	}

	// Deduplicate concurrent rebuilds; every waiter gets the same result.
	v, err, _ := f.group.Do("build", func() (any, error) {
		// Another caller may have finished a build while we queued.
		f.mu.RLock()
		cached := f.client
		stillFresh := cached != nil && f.now().Sub(f.builtAt) < f.config.TTL
		f.mu.RUnlock()
		if stillFresh {
			return cached, nil
		}

		built, err := f.config.Build(ctx)
		if err != nil {
			return nil, err
		}

		f.mu.Lock()
		f.client = built
		f.builtAt = f.now()
		f.mu.Unlock()

		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Client), nil
}

// Invalidate drops the cached client so the next Get rebuilds it.
// Used after credential rotation or a confirmed provider-side change.
func (f *Factory) Invalidate() {
	f.mu.Lock()
	f.client = nil
	f.builtAt = time.Time{}
	f.mu.Unlock()
}
