package shard_test

import (
	"testing"
	"time"

	"clinic-desk/core/shard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_SeparatorIndependent(t *testing.T) {
	for _, kind := range []shard.Kind{shard.WaitList, shard.TreatmentLog} {
		t.Run(kind.String(), func(t *testing.T) {
			compact, err := shard.Resolve(kind, "20260211")
			require.NoError(t, err)
			dashed, err := shard.Resolve(kind, "2026-02-11")
			require.NoError(t, err)
			slashed, err := shard.Resolve(kind, "2026/02/11")
			require.NoError(t, err)

			assert.Equal(t, compact.Name(), dashed.Name())
			assert.Equal(t, compact.Name(), slashed.Name())
		})
	}
}

func TestResolve_Names(t *testing.T) {
	tests := []struct {
		name string
		kind shard.Kind
		date string
		want string
	}{
		{"Wait compact", shard.WaitList, "20260211", "WAIT2026"},
		{"Wait dashed", shard.WaitList, "2025-12-31", "WAIT2025"},
		{"Treatment compact", shard.TreatmentLog, "20240101", "MTR2024"},
		{"Treatment year only", shard.TreatmentLog, "2023", "MTR2023"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := shard.Resolve(tt.kind, tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tbl.Name())
		})
	}
}

func TestResolve_TooFewDigits(t *testing.T) {
	_, err := shard.Resolve(shard.WaitList, "26-1")
	assert.ErrorIs(t, err, shard.ErrInvalidDate)

	_, err = shard.Resolve(shard.WaitList, "")
	assert.ErrorIs(t, err, shard.ErrInvalidDate)
}

func TestTable_Counterpart(t *testing.T) {
	wait := shard.MustResolve(shard.WaitList, "2026-02-11")
	assert.Equal(t, "MTR2026", wait.Counterpart().Name())
	assert.Equal(t, "WAIT2026", wait.Counterpart().Counterpart().Name())
}

func TestResolveTime(t *testing.T) {
	ts := time.Date(2026, 2, 11, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "WAIT2026", shard.ResolveTime(shard.WaitList, ts).Name())
	assert.Equal(t, "MTR2026", shard.ResolveTime(shard.TreatmentLog, ts).Name())
}
