package reconcile

import "context"

// Adapter defines the model-specific side of a two-sided reconciliation.
// The primary side is the one whose presence is authoritative for the
// workflow; the secondary side is expected to mirror it key for key.
type Adapter interface {
	// Name returns the unique name of this adapter.
	Name() string

	// LoadPrimaryIndex loads all primary items in scope, indexed by key.
	LoadPrimaryIndex(ctx context.Context, scope string) (map[string]Item, error)

	// LoadSecondaryIndex loads all secondary items in scope, indexed by key.
	LoadSecondaryIndex(ctx context.Context, scope string) (map[string]Item, error)

	// ResolveName returns the display name for a key. Either item may be nil.
	ResolveName(primary, secondary Item) string

	// CompareFields returns descriptions of discrepancies between the two
	// items. Both items are guaranteed to be non-nil.
	CompareFields(primary, secondary Item) []string

	// GetMetadata returns model-specific metadata for the key. Either item may be nil.
	GetMetadata(primary, secondary Item) map[string]string
}

// Mutator is implemented by adapters that can repair what a plan reports.
type Mutator interface {
	Adapter

	// DeletePrimary removes the primary item for key.
	DeletePrimary(ctx context.Context, key string) error

	// DeleteSecondary removes the secondary item(s) for key.
	DeleteSecondary(ctx context.Context, key string) error

	// BackfillPrimary recreates the primary item for key from the secondary item.
	BackfillPrimary(ctx context.Context, key string, source Item) error

	// BackfillSecondary recreates the secondary item for key from the primary item.
	BackfillSecondary(ctx context.Context, key string, source Item) error
}

// PrimaryBatchDeleter is implemented by mutators that delete primary items in one call.
type PrimaryBatchDeleter interface {
	DeletePrimaryBatch(ctx context.Context, keys []string) error
}

// SecondaryBatchDeleter is implemented by mutators that delete secondary items in one call.
type SecondaryBatchDeleter interface {
	DeleteSecondaryBatch(ctx context.Context, keys []string) error
}
