package engine

import (
	"context"
	"time"

	"github.com/matzehuels/gvlayout/pkg/cache"
	"github.com/matzehuels/gvlayout/pkg/observability"
)

const cacheKeyType = "engine"

// CachedEngine serves repeated documents from a cache.
type CachedEngine struct {
	inner Engine
	cache cache.Cache
	ttl   time.Duration
}

// Cached wraps inner so successful runs are stored in c for ttl (zero keeps
// them forever). Runs that failed or exited non-zero are never stored.
func Cached(inner Engine, c cache.Cache, ttl time.Duration) *CachedEngine {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &CachedEngine{inner: inner, cache: c, ttl: ttl}
}

// Name returns the wrapped engine's name.
func (e *CachedEngine) Name() string {
	return e.inner.Name()
}

// Run returns the cached output for doc or runs the wrapped engine.
// Cache failures degrade to a plain run.
func (e *CachedEngine) Run(ctx context.Context, doc []byte) (*Output, error) {
	key := cache.EngineKey(e.inner.Name(), doc)
	hooks := observability.Cache()

	if data, ok, err := e.cache.Get(ctx, key); err == nil && ok {
		hooks.OnCacheHit(ctx, cacheKeyType)
		return &Output{Stdout: data, Cached: true}, nil
	}
	hooks.OnCacheMiss(ctx, cacheKeyType)

	out, err := e.inner.Run(ctx, doc)
	if err != nil || out.ExitCode != 0 {
		return out, err
	}
	if err := e.cache.Set(ctx, key, out.Stdout, e.ttl); err == nil {
		hooks.OnCacheSet(ctx, cacheKeyType, len(out.Stdout))
	}
	return out, nil
}

var _ Engine = (*CachedEngine)(nil)
