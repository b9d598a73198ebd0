package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// mockBatchMutator extends mockMutator with batch deletion support.
type mockBatchMutator struct {
	mockMutator
	batchPrimaryCalls   [][]string
	batchSecondaryCalls [][]string
}

func (m *mockBatchMutator) DeletePrimaryBatch(ctx context.Context, keys []string) error {
	m.batchPrimaryCalls = append(m.batchPrimaryCalls, keys)
	return nil
}

func (m *mockBatchMutator) DeleteSecondaryBatch(ctx context.Context, keys []string) error {
	m.batchSecondaryCalls = append(m.batchSecondaryCalls, keys)
	return nil
}

// TestApply_UsesBatchDeletion tests that Apply uses batch methods when available.
func TestApply_UsesBatchDeletion(t *testing.T) {
	mutator := &mockBatchMutator{}
	engine := NewEngine()
	spec := &Spec{Adapter: mutator}

	plan := &ReconcilePlan{
		Actions: []Action{
			{Type: ActionDeletePrimary, Key: "1"},
			{Type: ActionDeletePrimary, Key: "2"},
			{Type: ActionDeleteSecondary, Key: "10"},
			{Type: ActionDeleteSecondary, Key: "11"},
			{Type: ActionDeleteSecondary, Key: "12"},
		},
	}

	executed, err := engine.Apply(context.Background(), spec, plan, ReconcileOptions{Confirmed: true})
	assert.NoError(t, err)
	assert.Equal(t, 5, executed)

	assert.Len(t, mutator.batchPrimaryCalls, 1, "Should use batch primary delete")
	assert.Equal(t, []string{"1", "2"}, mutator.batchPrimaryCalls[0])
	assert.Empty(t, mutator.deletedPrimary, "Should NOT use individual primary delete")

	assert.Len(t, mutator.batchSecondaryCalls, 1, "Should use batch secondary delete")
	assert.Equal(t, []string{"10", "11", "12"}, mutator.batchSecondaryCalls[0])
	assert.Empty(t, mutator.deletedSecondary, "Should NOT use individual secondary delete")
}

// TestApply_FallbackToIndividual tests the one-at-a-time path.
func TestApply_FallbackToIndividual(t *testing.T) {
	mutator := &mockMutator{}
	engine := NewEngine()
	spec := &Spec{Adapter: mutator}

	plan := &ReconcilePlan{
		Actions: []Action{
			{Type: ActionDeletePrimary, Key: "1"},
			{Type: ActionDeleteSecondary, Key: "10"},
		},
	}

	executed, err := engine.Apply(context.Background(), spec, plan, ReconcileOptions{Confirmed: true})
	assert.NoError(t, err)
	assert.Equal(t, 2, executed)
	assert.Equal(t, []string{"1"}, mutator.deletedPrimary)
	assert.Equal(t, []string{"10"}, mutator.deletedSecondary)
}
