package reconcile

import "time"

// ReconcileResult is the reconciliation output for a single key.
// It records on which side the key is present and any detected mismatches.
type ReconcileResult struct {
	// Key is the shared identity of the entity on both sides.
	Key string `json:"key"`

	// Name is the display name of the entity.
	Name string `json:"name"`

	// PrimaryPresent indicates whether the key exists on the primary side.
	PrimaryPresent bool `json:"primary_present"`

	// SecondaryPresent indicates whether the key exists on the secondary side.
	SecondaryPresent bool `json:"secondary_present"`

	// Mismatch contains descriptions of discrepancies between the two sides,
	// e.g. "treatment rows: 2".
	Mismatch []string `json:"mismatch"`

	// Metadata contains adapter-specific data (e.g. visit date, tables).
	Metadata map[string]string `json:"metadata"`
}

// Spec defines the configuration for a reconciliation operation.
type Spec struct {
	// Adapter provides model-specific reconciliation logic.
	Adapter Adapter

	// CacheTTL is the time-to-live for cached indices.
	// If zero, caching is disabled.
	CacheTTL time.Duration

	// Scope narrows what the adapter loads, e.g. a visit date or a year.
	Scope string
}

// CacheKey returns a unique key for caching based on spec parameters.
func (s *Spec) CacheKey() string {
	return s.Adapter.Name() + "|" + s.Scope
}

// Item is an adapter-defined entity loaded from one side.
type Item any

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionDeletePrimary deletes an orphan from the primary side.
	ActionDeletePrimary ActionType = "delete_primary"
	// ActionDeleteSecondary deletes an orphan from the secondary side.
	ActionDeleteSecondary ActionType = "delete_secondary"
	// ActionBackfillPrimary recreates the primary side from the secondary item.
	ActionBackfillPrimary ActionType = "backfill_primary"
	// ActionBackfillSecondary recreates the secondary side from the primary item.
	ActionBackfillSecondary ActionType = "backfill_secondary"
)

// Action represents a planned mutation operation.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Key is the entity key.
	Key string `json:"key"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`

	// Source is the item present on the other side. Only set for backfills.
	Source Item `json:"-"`
}

// IsPurge reports whether the action deletes data.
func (a Action) IsPurge() bool {
	return a.Type == ActionDeletePrimary || a.Type == ActionDeleteSecondary
}

// ReconcilePlan contains reconciliation results and planned actions.
type ReconcilePlan struct {
	// Adapter is the name of the adapter that produced the plan.
	Adapter string `json:"adapter"`

	// Scope is the scope the plan was built for.
	Scope string `json:"scope"`

	// Results contains per-key reconciliation data.
	Results []ReconcileResult `json:"results"`

	// Actions contains planned mutation operations.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate statistics for a reconcile plan.
type PlanSummary struct {
	// TotalItems is the total number of unique keys.
	TotalItems int `json:"total_items"`

	// MissingPrimary counts keys present only on the secondary side.
	MissingPrimary int `json:"missing_primary"`

	// MissingSecondary counts keys present only on the primary side.
	MissingSecondary int `json:"missing_secondary"`

	// Mismatches counts keys with discrepancies.
	Mismatches int `json:"mismatches"`

	// PurgeActions counts planned delete actions.
	PurgeActions int `json:"purge_actions"`

	// SyncActions counts planned backfill actions.
	SyncActions int `json:"sync_actions"`
}

// ReconcileOptions controls reconcile behavior for purge/sync operations.
type ReconcileOptions struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// DoPurge enables deletion of keys present on only one side.
	DoPurge bool

	// DoSync enables backfilling the missing side from the present one.
	DoSync bool

	// Confirmed indicates the operator has confirmed the mutations.
	// If false, mutations will not execute regardless of DryRun.
	Confirmed bool
}
