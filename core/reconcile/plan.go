package reconcile

import (
	"context"
	"fmt"
	"strings"
)

// Plan performs reconciliation and returns a plan with results and actions.
// It does NOT execute actions; use Apply for that.
func (e *Engine) Plan(ctx context.Context, spec *Spec, opts ReconcileOptions) (*ReconcilePlan, error) {
	cache, err := e.GetOrBuildCache(ctx, spec)
	if err != nil {
		return nil, err
	}

	results := reconcileFromCache(cache, spec.Adapter)
	summary, actions := buildPlanFromResults(results, cache, opts)

	return &ReconcilePlan{
		Adapter: spec.Adapter.Name(),
		Scope:   spec.Scope,
		Results: results,
		Actions: actions,
		Summary: summary,
	}, nil
}

// Apply executes the actions in a reconcile plan and returns the number
// executed. Nothing runs unless opts.Confirmed is true and opts.DryRun is
// false. The cached indices for the scope are dropped after any mutation.
func (e *Engine) Apply(ctx context.Context, spec *Spec, plan *ReconcilePlan, opts ReconcileOptions) (executed int, err error) {
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}
	if len(plan.Actions) == 0 {
		return 0, nil
	}

	mutator, ok := spec.Adapter.(Mutator)
	if !ok {
		return 0, fmt.Errorf("adapter %s does not implement Mutator interface", spec.Adapter.Name())
	}
	defer e.InvalidateCache(spec)

	var (
		deletePrimary   []string
		deleteSecondary []string
		backfills       []Action
	)
	for _, action := range plan.Actions {
		switch action.Type {
		case ActionDeletePrimary:
			deletePrimary = append(deletePrimary, action.Key)
		case ActionDeleteSecondary:
			deleteSecondary = append(deleteSecondary, action.Key)
		case ActionBackfillPrimary, ActionBackfillSecondary:
			backfills = append(backfills, action)
		}
	}

	if len(deletePrimary) > 0 {
		if batch, ok := mutator.(PrimaryBatchDeleter); ok {
			if err := batch.DeletePrimaryBatch(ctx, deletePrimary); err != nil {
				return executed, fmt.Errorf("failed to batch delete primary keys: %w", err)
			}
			executed += len(deletePrimary)
		} else {
			for _, key := range deletePrimary {
				if err := mutator.DeletePrimary(ctx, key); err != nil {
					return executed, fmt.Errorf("failed to delete primary key %s: %w", key, err)
				}
				executed++
			}
		}
	}

	if len(deleteSecondary) > 0 {
		if batch, ok := mutator.(SecondaryBatchDeleter); ok {
			if err := batch.DeleteSecondaryBatch(ctx, deleteSecondary); err != nil {
				return executed, fmt.Errorf("failed to batch delete secondary keys: %w", err)
			}
			executed += len(deleteSecondary)
		} else {
			for _, key := range deleteSecondary {
				if err := mutator.DeleteSecondary(ctx, key); err != nil {
					return executed, fmt.Errorf("failed to delete secondary key %s: %w", key, err)
				}
				executed++
			}
		}
	}

	for _, action := range backfills {
		var err error
		if action.Type == ActionBackfillPrimary {
			err = mutator.BackfillPrimary(ctx, action.Key, action.Source)
		} else {
			err = mutator.BackfillSecondary(ctx, action.Key, action.Source)
		}
		if err != nil {
			return executed, fmt.Errorf("failed to backfill key %s: %w", action.Key, err)
		}
		executed++
	}

	return executed, nil
}

// PlanAndApply is a convenience wrapper that plans and optionally applies actions.
func (e *Engine) PlanAndApply(ctx context.Context, spec *Spec, opts ReconcileOptions) (*ReconcilePlan, int, error) {
	plan, err := e.Plan(ctx, spec, opts)
	if err != nil {
		return nil, 0, err
	}
	executed, err := e.Apply(ctx, spec, plan, opts)
	return plan, executed, err
}

// buildPlanFromResults generates a summary and action plan from reconciliation results.
// Purge takes precedence over sync for a key present on only one side.
func buildPlanFromResults(results []ReconcileResult, cache *ReconcileCache, opts ReconcileOptions) (PlanSummary, []Action) {
	var summary PlanSummary
	var actions []Action

	summary.TotalItems = len(results)

	for _, result := range results {
		if !result.PrimaryPresent {
			summary.MissingPrimary++
		}
		if !result.SecondaryPresent {
			summary.MissingSecondary++
		}
		if len(result.Mismatch) > 0 {
			summary.Mismatches++
		}

		if result.PrimaryPresent && result.SecondaryPresent {
			continue
		}
		reason := missingReason(result)

		if opts.DoPurge {
			actionType := ActionDeleteSecondary
			if result.PrimaryPresent {
				actionType = ActionDeletePrimary
			}
			actions = append(actions, Action{Type: actionType, Key: result.Key, Reason: reason})
			summary.PurgeActions++
			continue
		}

		if opts.DoSync {
			if result.PrimaryPresent {
				actions = append(actions, Action{
					Type:   ActionBackfillSecondary,
					Key:    result.Key,
					Reason: reason,
					Source: cache.PrimaryIndex[result.Key],
				})
			} else {
				actions = append(actions, Action{
					Type:   ActionBackfillPrimary,
					Key:    result.Key,
					Reason: reason,
					Source: cache.SecondaryIndex[result.Key],
				})
			}
			summary.SyncActions++
		}
	}

	return summary, actions
}

// missingReason builds a reason string for a key present on only one side.
func missingReason(result ReconcileResult) string {
	var missing []string
	if !result.PrimaryPresent {
		missing = append(missing, "primary")
	}
	if !result.SecondaryPresent {
		missing = append(missing, "secondary")
	}
	if len(missing) == 0 {
		return "complete"
	}
	return "missing in: " + strings.Join(missing, ", ")
}
