package reconcile

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// ReconcileCache holds pre-built indices for fast targeted reconciliation.
type ReconcileCache struct {
	// PrimaryIndex is the indexed map of primary items by key.
	PrimaryIndex map[string]Item

	// SecondaryIndex is the indexed map of secondary items by key.
	SecondaryIndex map[string]Item

	// Built is the timestamp when this cache was built.
	Built time.Time

	// TTL is the time-to-live for this cache.
	TTL time.Duration
}

// IsExpired returns true if this cache has expired based on its TTL.
func (c *ReconcileCache) IsExpired(now time.Time) bool {
	if c.TTL == 0 {
		return true // No caching
	}
	return now.Sub(c.Built) > c.TTL
}

// BuildCache builds a new cache for the given spec by loading both indices
// concurrently. It does not store the cache; use GetOrBuildCache for that.
func (e *Engine) BuildCache(ctx context.Context, spec *Spec) (*ReconcileCache, error) {
	var primary, secondary map[string]Item

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		idx, err := spec.Adapter.LoadPrimaryIndex(gctx, spec.Scope)
		if err != nil {
			return fmt.Errorf("failed to load primary index: %w", err)
		}
		primary = idx
		return nil
	})
	g.Go(func() error {
		idx, err := spec.Adapter.LoadSecondaryIndex(gctx, spec.Scope)
		if err != nil {
			return fmt.Errorf("failed to load secondary index: %w", err)
		}
		secondary = idx
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ReconcileCache{
		PrimaryIndex:   primary,
		SecondaryIndex: secondary,
		Built:          e.now(),
		TTL:            spec.CacheTTL,
	}, nil
}

// GetOrBuildCache retrieves a cache for the given spec, or builds a new one
// if it doesn't exist or has expired. Concurrent callers for the same key
// share one build.
func (e *Engine) GetOrBuildCache(ctx context.Context, spec *Spec) (*ReconcileCache, error) {
	cacheKey := spec.CacheKey()

	if cache := e.cached(cacheKey); cache != nil {
		return cache, nil
	}

	result, err, _ := e.sf.Do(cacheKey, func() (any, error) {
		// Double-check after acquiring the flight
		if cache := e.cached(cacheKey); cache != nil {
			return cache, nil
		}

		newCache, err := e.BuildCache(ctx, spec)
		if err != nil {
			return nil, err
		}

		e.mu.Lock()
		e.caches[cacheKey] = newCache
		e.mu.Unlock()
		return newCache, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*ReconcileCache), nil
}

func (e *Engine) cached(cacheKey string) *ReconcileCache {
	e.mu.RLock()
	cache, exists := e.caches[cacheKey]
	e.mu.RUnlock()
	if exists && !cache.IsExpired(e.now()) {
		return cache
	}
	return nil
}

// InvalidateCache removes the cache for the given spec.
func (e *Engine) InvalidateCache(spec *Spec) {
	e.mu.Lock()
	delete(e.caches, spec.CacheKey())
	e.mu.Unlock()
}
