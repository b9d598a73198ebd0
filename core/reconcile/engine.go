package reconcile

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Engine reconciles two sources through an Adapter and owns the index caches.
type Engine struct {
	mu     sync.RWMutex
	caches map[string]*ReconcileCache
	sf     singleflight.Group
	now    func() time.Time
}

// NewEngine creates an engine with an empty cache.
func NewEngine() *Engine {
	return &Engine{
		caches: make(map[string]*ReconcileCache),
		now:    time.Now,
	}
}

// ReconcileAll performs a full reconciliation of Spec.Scope.
// It loads both indices, computes the union of keys, and returns a result
// for each key indicating presence and mismatches.
func (e *Engine) ReconcileAll(ctx context.Context, spec *Spec) ([]ReconcileResult, error) {
	cache, err := e.BuildCache(ctx, spec)
	if err != nil {
		return nil, err
	}
	return reconcileFromCache(cache, spec.Adapter), nil
}

// ReconcileOne performs a targeted reconciliation for a single key using
// cached indices. A key absent from both sides yields a result with neither
// side present.
func (e *Engine) ReconcileOne(ctx context.Context, spec *Spec, key string) (*ReconcileResult, error) {
	var (
		cache *ReconcileCache
		err   error
	)
	if spec.CacheTTL > 0 {
		cache, err = e.GetOrBuildCache(ctx, spec)
	} else {
		cache, err = e.BuildCache(ctx, spec)
	}
	if err != nil {
		return nil, err
	}

	result := buildResult(key, cache.PrimaryIndex, cache.SecondaryIndex, spec.Adapter)
	return &result, nil
}

// reconcileFromCache builds sorted results for the union of both indices.
func reconcileFromCache(cache *ReconcileCache, adapter Adapter) []ReconcileResult {
	union := buildUnion(cache.PrimaryIndex, cache.SecondaryIndex)

	results := make([]ReconcileResult, 0, len(union))
	for key := range union {
		results = append(results, buildResult(key, cache.PrimaryIndex, cache.SecondaryIndex, adapter))
	}

	// Sort results by key for deterministic output
	sort.Slice(results, func(i, j int) bool {
		return results[i].Key < results[j].Key
	})
	return results
}

// buildUnion creates a union of the keys of both indices.
func buildUnion(primary, secondary map[string]Item) map[string]struct{} {
	union := make(map[string]struct{}, len(primary)+len(secondary))
	for key := range primary {
		union[key] = struct{}{}
	}
	for key := range secondary {
		union[key] = struct{}{}
	}
	return union
}

// buildResult creates a ReconcileResult for a single key.
func buildResult(key string, primary, secondary map[string]Item, adapter Adapter) ReconcileResult {
	pItem, pPresent := primary[key]
	sItem, sPresent := secondary[key]

	result := ReconcileResult{
		Key:              key,
		PrimaryPresent:   pPresent,
		SecondaryPresent: sPresent,
		Mismatch:         []string{},
	}

	if pPresent || sPresent {
		result.Name = adapter.ResolveName(pItem, sItem)
		result.Metadata = adapter.GetMetadata(pItem, sItem)
	}

	if pPresent && sPresent {
		if mismatch := adapter.CompareFields(pItem, sItem); mismatch != nil {
			result.Mismatch = mismatch
		}
	}

	return result
}
