package reconcile_test

import (
	"context"
	"testing"
	"time"

	"clinic-desk/core/database"
	"clinic-desk/core/database/dbtest"
	corereconcile "clinic-desk/core/reconcile"
	"clinic-desk/core/visitid"
	"clinic-desk/feature/frontdesk"
	"clinic-desk/feature/frontdesk/reconcile"
	"clinic-desk/feature/treatment"
	"clinic-desk/feature/waitlist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var clinicNow = time.Date(2026, 2, 11, 9, 30, 15, 0, time.UTC)

type fixture struct {
	stores  *database.StoreSet
	sync    *frontdesk.Synchronizer
	adapter *reconcile.VisitAdapter
}

// setup creates one complete visit (1), one wait-only visit (2) and one
// treatment-only visit (3) on 2026-02-11.
func setup(t *testing.T) *fixture {
	ctx := context.Background()
	stores := dbtest.Stores(t)
	dbtest.SeedPerson(t, stores.Person(), 1, "홍길동", "1990-05-20", "남")
	dbtest.SeedPerson(t, stores.Person(), 2, "김영희", "1985-01-02", "여")
	dbtest.SeedPerson(t, stores.Person(), 3, "이철수", "1970-07-07", "남")
	dbtest.CreateWaitTable(t, stores.Waitlist(), "WAIT2026")
	dbtest.CreateTreatmentTable(t, stores.Treatment(), "MTR2026")

	sync := frontdesk.NewSynchronizer(stores, frontdesk.DefaultConfig(), visitid.FixedClock(clinicNow), zap.NewNop())

	_, err := sync.CreateCheckIn(ctx, 1, "2026-02-11")
	require.NoError(t, err)

	ids := visitid.FromTime(clinicNow, clinicNow)
	require.NoError(t, waitlist.NewRepository(stores).Insert(ctx, 2, "2026-02-11", ids, frontdesk.DefaultConfig().Assignment()))

	_, err = sync.CreateTreatmentRecord(ctx, &treatment.Record{PCode: 3, VisitDate: "2026-02-11"})
	require.NoError(t, err)

	return &fixture{stores: stores, sync: sync, adapter: reconcile.NewAdapter(stores, sync)}
}

func TestVisitKey(t *testing.T) {
	key := reconcile.VisitKey(12, "2026-02-11")
	assert.Equal(t, "12|2026-02-11", key)

	pcode, date, err := reconcile.ParseKey(key)
	require.NoError(t, err)
	assert.Equal(t, int64(12), pcode)
	assert.Equal(t, "2026-02-11", date)

	_, _, err = reconcile.ParseKey("12")
	assert.Error(t, err)
	_, _, err = reconcile.ParseKey("x|2026-02-11")
	assert.Error(t, err)
}

func TestAdapter_LoadIndices(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	primary, err := f.adapter.LoadPrimaryIndex(ctx, "2026-02-11")
	require.NoError(t, err)
	assert.Len(t, primary, 2)
	wait := primary["2|2026-02-11"].(reconcile.WaitItem)
	assert.Equal(t, "김영희", wait.Name)
	assert.Equal(t, "20260211093015", wait.ResID1)

	secondary, err := f.adapter.LoadSecondaryIndex(ctx, "20260211")
	require.NoError(t, err)
	assert.Len(t, secondary, 2)
	rec := secondary["3|2026-02-11"].(reconcile.TreatmentItem)
	assert.Equal(t, "이철수", rec.Name)
	assert.Len(t, rec.Seqs, 1)

	// A bare year covers the whole table.
	yearly, err := f.adapter.LoadPrimaryIndex(ctx, "2026")
	require.NoError(t, err)
	assert.Len(t, yearly, 2)

	empty, err := f.adapter.LoadPrimaryIndex(ctx, "2026-02-12")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = f.adapter.LoadPrimaryIndex(ctx, "2025-02-11")
	assert.Error(t, err, "WAIT2025 does not exist")
}

func TestAdapter_ReconcileAll(t *testing.T) {
	f := setup(t)
	engine := corereconcile.NewEngine()

	results, err := engine.ReconcileAll(context.Background(), &corereconcile.Spec{Adapter: f.adapter, Scope: "2026-02-11"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "1|2026-02-11", results[0].Key)
	assert.True(t, results[0].PrimaryPresent)
	assert.True(t, results[0].SecondaryPresent)
	assert.Empty(t, results[0].Mismatch)
	assert.Equal(t, "홍길동", results[0].Name)

	assert.Equal(t, "2|2026-02-11", results[1].Key)
	assert.False(t, results[1].SecondaryPresent)
	assert.Equal(t, "2", results[1].Metadata["pcode"])

	assert.Equal(t, "3|2026-02-11", results[2].Key)
	assert.False(t, results[2].PrimaryPresent)
	assert.Equal(t, "이철수", results[2].Name)
}

func TestAdapter_DuplicateTreatmentRows(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.sync.CreateTreatmentRecord(ctx, &treatment.Record{PCode: 1, VisitDate: "2026-02-11"})
	require.NoError(t, err)

	result, err := corereconcile.NewEngine().ReconcileOne(ctx, &corereconcile.Spec{Adapter: f.adapter, Scope: "2026-02-11"}, "1|2026-02-11")
	require.NoError(t, err)
	assert.Equal(t, []string{"treatment rows: 2"}, result.Mismatch)
	assert.Contains(t, result.Metadata["seq"], ",")
}

func TestAdapter_CompareFields_NameDrift(t *testing.T) {
	adapter := reconcile.NewAdapter(nil, nil)
	mismatch := adapter.CompareFields(
		reconcile.WaitItem{PCode: 1, Name: "홍길동"},
		reconcile.TreatmentItem{PCode: 1, Name: "홍길순", Seqs: []int64{4}},
	)
	assert.Equal(t, []string{`name: person="홍길동" treatment="홍길순"`}, mismatch)
}
