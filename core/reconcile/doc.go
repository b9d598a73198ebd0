// Package reconcile compares two stores that are expected to mirror each
// other key for key and repairs the differences.
//
// The system consists of three parts:
//
// 1. Engine: builds the union of keys from both sides, detects presence and
// absence, and collects field mismatches reported by the adapter.
//
// 2. Adapter: model-specific loading and comparison. Adapters that also
// implement Mutator can delete orphans or backfill the missing side.
//
// 3. Cache: TTL-based index cache with stampede protection, owned by the
// Engine and dropped after any applied plan.
//
// # Usage Example
//
//	engine := reconcile.NewEngine()
//	spec := &reconcile.Spec{
//	    Adapter:  adapter,
//	    Scope:    "2026-02-11",
//	    CacheTTL: time.Minute,
//	}
//
//	plan, err := engine.Plan(ctx, spec, reconcile.ReconcileOptions{DoPurge: true})
//	executed, err := engine.Apply(ctx, spec, plan, reconcile.ReconcileOptions{DoPurge: true, Confirmed: true})
package reconcile
