package reconcile

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAdapter is a simple test adapter over string items.
type mockAdapter struct {
	primary        map[string]Item
	secondary      map[string]Item
	mismatches     map[string][]string
	primaryErr     error
	secondaryErr   error
	primaryLoads   atomic.Int32
	secondaryLoads atomic.Int32
}

func (m *mockAdapter) Name() string {
	return "mock"
}

func (m *mockAdapter) LoadPrimaryIndex(ctx context.Context, scope string) (map[string]Item, error) {
	m.primaryLoads.Add(1)
	if m.primaryErr != nil {
		return nil, m.primaryErr
	}
	out := make(map[string]Item, len(m.primary))
	for k, v := range m.primary {
		out[k] = v
	}
	return out, nil
}

func (m *mockAdapter) LoadSecondaryIndex(ctx context.Context, scope string) (map[string]Item, error) {
	m.secondaryLoads.Add(1)
	if m.secondaryErr != nil {
		return nil, m.secondaryErr
	}
	out := make(map[string]Item, len(m.secondary))
	for k, v := range m.secondary {
		out[k] = v
	}
	return out, nil
}

func (m *mockAdapter) ResolveName(primary, secondary Item) string {
	if primary != nil {
		return primary.(string)
	}
	if secondary != nil {
		return secondary.(string)
	}
	return ""
}

func (m *mockAdapter) CompareFields(primary, secondary Item) []string {
	return m.mismatches[primary.(string)]
}

func (m *mockAdapter) GetMetadata(primary, secondary Item) map[string]string {
	return map[string]string{"source": "mock"}
}

// TestBuildCache_ErrorHandling tests that BuildCache reports failures from either side.
func TestBuildCache_ErrorHandling(t *testing.T) {
	tests := []struct {
		name         string
		primaryErr   error
		secondaryErr error
		expectErr    string
	}{
		{
			name:       "Primary load error",
			primaryErr: fmt.Errorf("wait store down"),
			expectErr:  "failed to load primary index: wait store down",
		},
		{
			name:         "Secondary load error",
			secondaryErr: fmt.Errorf("treatment store down"),
			expectErr:    "failed to load secondary index: treatment store down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := &mockAdapter{primaryErr: tt.primaryErr, secondaryErr: tt.secondaryErr}
			engine := NewEngine()

			_, err := engine.BuildCache(context.Background(), &Spec{Adapter: adapter})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectErr)
		})
	}
}

func TestReconcileAll(t *testing.T) {
	adapter := &mockAdapter{
		primary:    map[string]Item{"1": "both", "2": "primary-only"},
		secondary:  map[string]Item{"1": "both", "3": "secondary-only"},
		mismatches: map[string][]string{"both": {"treatment rows: 2"}},
	}
	engine := NewEngine()

	results, err := engine.ReconcileAll(context.Background(), &Spec{Adapter: adapter, Scope: "2026-02-11"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Sorted by key
	assert.Equal(t, "1", results[0].Key)
	assert.True(t, results[0].PrimaryPresent)
	assert.True(t, results[0].SecondaryPresent)
	assert.Equal(t, []string{"treatment rows: 2"}, results[0].Mismatch)

	assert.Equal(t, "2", results[1].Key)
	assert.True(t, results[1].PrimaryPresent)
	assert.False(t, results[1].SecondaryPresent)
	assert.Equal(t, "primary-only", results[1].Name)
	assert.Empty(t, results[1].Mismatch)

	assert.Equal(t, "3", results[2].Key)
	assert.False(t, results[2].PrimaryPresent)
	assert.True(t, results[2].SecondaryPresent)
	assert.Equal(t, "mock", results[2].Metadata["source"])
}

func TestReconcileOne(t *testing.T) {
	adapter := &mockAdapter{
		primary:   map[string]Item{"1": "a"},
		secondary: map[string]Item{},
	}
	engine := NewEngine()
	spec := &Spec{Adapter: adapter, CacheTTL: time.Minute}

	result, err := engine.ReconcileOne(context.Background(), spec, "1")
	require.NoError(t, err)
	assert.True(t, result.PrimaryPresent)
	assert.False(t, result.SecondaryPresent)

	missing, err := engine.ReconcileOne(context.Background(), spec, "99")
	require.NoError(t, err)
	assert.False(t, missing.PrimaryPresent)
	assert.False(t, missing.SecondaryPresent)
	assert.Empty(t, missing.Name)

	// Second lookup was served from the cache
	assert.Equal(t, int32(1), adapter.primaryLoads.Load())
}

func TestGetOrBuildCache_Expiry(t *testing.T) {
	adapter := &mockAdapter{primary: map[string]Item{}, secondary: map[string]Item{}}
	engine := NewEngine()
	now := time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return now }
	spec := &Spec{Adapter: adapter, CacheTTL: time.Minute}

	_, err := engine.GetOrBuildCache(context.Background(), spec)
	require.NoError(t, err)
	_, err = engine.GetOrBuildCache(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, int32(1), adapter.primaryLoads.Load())

	now = now.Add(2 * time.Minute)
	_, err = engine.GetOrBuildCache(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, int32(2), adapter.primaryLoads.Load())

	engine.InvalidateCache(spec)
	_, err = engine.GetOrBuildCache(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, int32(3), adapter.primaryLoads.Load())
}

func TestGetOrBuildCache_ScopesAreSeparate(t *testing.T) {
	adapter := &mockAdapter{primary: map[string]Item{}, secondary: map[string]Item{}}
	engine := NewEngine()

	_, err := engine.GetOrBuildCache(context.Background(), &Spec{Adapter: adapter, CacheTTL: time.Minute, Scope: "2026-02-11"})
	require.NoError(t, err)
	_, err = engine.GetOrBuildCache(context.Background(), &Spec{Adapter: adapter, CacheTTL: time.Minute, Scope: "2026-02-12"})
	require.NoError(t, err)

	assert.Equal(t, int32(2), adapter.primaryLoads.Load())
}

func TestReconcileCache_IsExpired(t *testing.T) {
	built := time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC)

	assert.True(t, (&ReconcileCache{Built: built}).IsExpired(built), "zero TTL disables caching")

	cache := &ReconcileCache{Built: built, TTL: time.Minute}
	assert.False(t, cache.IsExpired(built.Add(30*time.Second)))
	assert.True(t, cache.IsExpired(built.Add(2*time.Minute)))
}
