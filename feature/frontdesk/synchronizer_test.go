package frontdesk_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-desk/core/database"
	"clinic-desk/core/database/dbtest"
	"clinic-desk/core/visitid"
	"clinic-desk/feature/frontdesk"
	"clinic-desk/feature/treatment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var clinicNow = time.Date(2026, 2, 11, 9, 30, 15, 0, time.UTC)

type fixture struct {
	stores *database.StoreSet
	sync   *frontdesk.Synchronizer
	logs   *observer.ObservedLogs
}

// setup builds three in-memory stores with one registered patient.
// withTreatmentTable=false leaves MTR2026 missing so treatment writes fail.
func setup(t *testing.T, withTreatmentTable bool) *fixture {
	stores := dbtest.Stores(t)
	dbtest.SeedPerson(t, stores.Person(), 1, "홍길동", "1990-05-20", "남")
	dbtest.SeedPerson(t, stores.Person(), 2, "김영희", "1985-01-02", "여")
	dbtest.CreateWaitTable(t, stores.Waitlist(), "WAIT2026")
	if withTreatmentTable {
		dbtest.CreateTreatmentTable(t, stores.Treatment(), "MTR2026")
	}

	core, logs := observer.New(zapcore.InfoLevel)
	sync := frontdesk.NewSynchronizer(stores, frontdesk.DefaultConfig(), visitid.FixedClock(clinicNow), zap.New(core))
	return &fixture{stores: stores, sync: sync, logs: logs}
}

func closeStore(t *testing.T, stores *database.StoreSet, name database.StoreName) {
	var db = stores.Treatment()
	if name == database.Waitlist {
		db = stores.Waitlist()
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func TestCreateCheckIn_Postcondition(t *testing.T) {
	ctx := context.Background()
	f := setup(t, true)

	checkIn, err := f.sync.CreateCheckIn(ctx, 1, "2026-02-11")
	require.NoError(t, err)
	assert.Equal(t, "20260211093015", checkIn.Entry.ResID1)
	assert.Equal(t, "2026-02-11", checkIn.Entry.ResID2)
	assert.Positive(t, checkIn.Record.Seq)

	entries, err := f.sync.GetWaitingList(ctx, "2026-02-11")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, int64(1), e.PCode)
	assert.Equal(t, "홍길동", e.DisplayName)
	assert.Equal(t, "20260211093015", e.ResID1)
	assert.Equal(t, "2026-02-11", e.ResID2)
	assert.Equal(t, "1", e.RoomCode)
	assert.Equal(t, "제1진료실", e.RoomName)
	assert.Equal(t, "가정의학과", e.DeptName)
	assert.Equal(t, "63221", e.DoctorCode)
	assert.Equal(t, "한유석", e.DoctorName)

	records, err := f.sync.GetTreatmentLog(ctx, "2026-02-11", nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, int64(1), r.PCode)
	assert.Equal(t, checkIn.Record.Seq, r.Seq)
	assert.Equal(t, "홍길동", r.PName)
	assert.Equal(t, "남", r.Sex)
	assert.Equal(t, database.Date("1990-05-20"), r.PBirth)
	assert.Equal(t, "35y 8m", r.Age)
	assert.Equal(t, "", r.PhoneNum)
	assert.Equal(t, 1, r.Serial)
	assert.Equal(t, 0, r.N)
	assert.Equal(t, "요양", r.Gubun)
	assert.Equal(t, "", r.Fin)
	require.NotNil(t, r.VisitTime)
}

func TestCreateCheckIn_CompactDate(t *testing.T) {
	ctx := context.Background()
	f := setup(t, true)

	checkIn, err := f.sync.CreateCheckIn(ctx, 2, "20260211")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-11", checkIn.Entry.ResID2)

	entries, err := f.sync.GetWaitingList(ctx, "2026-02-11")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "김영희", entries[0].DisplayName)
}

func TestCreateCheckIn_UnknownPerson(t *testing.T) {
	ctx := context.Background()
	f := setup(t, true)

	_, err := f.sync.CreateCheckIn(ctx, 99, "2026-02-11")
	require.Error(t, err)
	assert.ErrorIs(t, err, database.ErrNotFound)

	entries, err := f.sync.GetWaitingList(ctx, "2026-02-11")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateCheckIn_InvalidDate(t *testing.T) {
	f := setup(t, true)

	_, err := f.sync.CreateCheckIn(context.Background(), 1, "tomorrow")
	require.Error(t, err)
}

func TestCreateCheckIn_Duplicate(t *testing.T) {
	ctx := context.Background()
	f := setup(t, true)

	_, err := f.sync.CreateCheckIn(ctx, 1, "2026-02-11")
	require.NoError(t, err)

	_, err = f.sync.CreateCheckIn(ctx, 1, "2026-02-11")
	require.Error(t, err)
	assert.ErrorIs(t, err, database.ErrDuplicateKey)
	assert.NotErrorIs(t, err, frontdesk.ErrPartialCreate)

	entries, err := f.sync.GetWaitingList(ctx, "2026-02-11")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// The loser wrote nothing to the treatment store.
	records, err := f.sync.GetTreatmentLog(ctx, "2026-02-11", nil)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestCreateCheckIn_PartialFailureKeepsWaitEntry(t *testing.T) {
	ctx := context.Background()
	f := setup(t, false)

	_, err := f.sync.CreateCheckIn(ctx, 1, "2026-02-11")
	require.Error(t, err)
	assert.ErrorIs(t, err, frontdesk.ErrPartialCreate)

	var partial *frontdesk.PartialCreateError
	require.True(t, errors.As(err, &partial))
	assert.Equal(t, int64(1), partial.PCode)
	assert.Equal(t, "2026-02-11", partial.VisitDate)
	assert.Equal(t, "WAIT2026", partial.WaitTable)
	assert.Equal(t, "MTR2026", partial.TreatmentTable)

	var storeErr *database.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, database.Treatment, storeErr.Store)

	entries, err := f.sync.GetWaitingList(ctx, "2026-02-11")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].PCode)

	logged := f.logs.FilterMessage("Check-in left without treatment record").All()
	require.Len(t, logged, 1)
	fields := logged[0].ContextMap()
	assert.Equal(t, int64(1), fields["pcode"])
	assert.Equal(t, "2026-02-11", fields["visit_date"])
	assert.Equal(t, "treatment", fields["store"])
	assert.Equal(t, storeErr.Op, fields["op"])
	assert.Equal(t, storeErr.Table, fields["table"])
}

func TestDeleteCheckIn_Cascades(t *testing.T) {
	ctx := context.Background()
	f := setup(t, true)

	_, err := f.sync.CreateCheckIn(ctx, 1, "2026-02-11")
	require.NoError(t, err)
	_, err = f.sync.CreateCheckIn(ctx, 2, "2026-02-11")
	require.NoError(t, err)

	result, err := f.sync.DeleteCheckIn(ctx, 1, "20260211")
	require.NoError(t, err)
	assert.True(t, result.Cascaded)
	assert.Equal(t, int64(1), result.Removed)

	entries, err := f.sync.GetWaitingList(ctx, "2026-02-11")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].PCode)

	records, err := f.sync.GetTreatmentLog(ctx, "2026-02-11", nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(2), records[0].PCode)
}

func TestDeleteCheckIn_UnreachableTreatmentStore(t *testing.T) {
	ctx := context.Background()
	f := setup(t, true)

	_, err := f.sync.CreateCheckIn(ctx, 1, "2026-02-11")
	require.NoError(t, err)
	closeStore(t, f.stores, database.Treatment)

	result, err := f.sync.DeleteCheckIn(ctx, 1, "2026-02-11")
	require.NoError(t, err)
	assert.False(t, result.Cascaded)

	entries, err := f.sync.GetWaitingList(ctx, "2026-02-11")
	require.NoError(t, err)
	assert.Empty(t, entries)

	logged := f.logs.FilterMessage("Cascade delete of treatment records failed").All()
	require.Len(t, logged, 1)
	assert.Equal(t, "treatment", logged[0].ContextMap()["store"])
	assert.Contains(t, logged[0].ContextMap()["error"], frontdesk.ErrCascadeFailure.Error())
}

func TestDeleteCheckIn_NotFound(t *testing.T) {
	f := setup(t, true)

	_, err := f.sync.DeleteCheckIn(context.Background(), 1, "2026-02-11")
	require.Error(t, err)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestDeleteTreatmentRecord_Cascades(t *testing.T) {
	ctx := context.Background()
	f := setup(t, true)

	checkIn, err := f.sync.CreateCheckIn(ctx, 1, "2026-02-11")
	require.NoError(t, err)

	result, err := f.sync.DeleteTreatmentRecord(ctx, "2026-02-11", checkIn.Record.Seq)
	require.NoError(t, err)
	assert.True(t, result.Cascaded)
	assert.Equal(t, int64(1), result.Removed)

	entries, err := f.sync.GetWaitingList(ctx, "2026-02-11")
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = f.sync.DeleteTreatmentRecord(ctx, "2026-02-11", checkIn.Record.Seq)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestDeleteTreatmentRecord_WithoutWaitEntry(t *testing.T) {
	ctx := context.Background()
	f := setup(t, true)

	rec, err := f.sync.CreateTreatmentRecord(ctx, &treatment.Record{PCode: 1, VisitDate: "2026-02-11"})
	require.NoError(t, err)

	result, err := f.sync.DeleteTreatmentRecord(ctx, "2026-02-11", rec.Seq)
	require.NoError(t, err)
	assert.True(t, result.Cascaded)
	assert.Zero(t, result.Removed)
	assert.Equal(t, 1, f.logs.FilterMessage("No wait entry to cascade").Len())
}

func TestDeleteTreatmentRecord_UnreachableWaitStore(t *testing.T) {
	ctx := context.Background()
	f := setup(t, true)

	checkIn, err := f.sync.CreateCheckIn(ctx, 1, "2026-02-11")
	require.NoError(t, err)
	closeStore(t, f.stores, database.Waitlist)

	result, err := f.sync.DeleteTreatmentRecord(ctx, "2026-02-11", checkIn.Record.Seq)
	require.NoError(t, err)
	assert.False(t, result.Cascaded)

	records, err := f.sync.GetTreatmentLog(ctx, "2026-02-11", nil)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 1, f.logs.FilterMessage("Cascade delete of wait entry failed").Len())
}

func TestUpdateWaitEntry_DoesNotTouchTreatment(t *testing.T) {
	ctx := context.Background()
	f := setup(t, true)

	_, err := f.sync.CreateCheckIn(ctx, 1, "2026-02-11")
	require.NoError(t, err)

	ids, err := f.sync.UpdateWaitEntry(ctx, 1, "2026-02-11", visitid.IDs{Timestamp: "20260211120000"})
	require.NoError(t, err)
	assert.Equal(t, visitid.IDs{Timestamp: "20260211120000", Date: "2026-02-11"}, ids)

	entries, err := f.sync.GetWaitingList(ctx, "2026-02-11")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "20260211120000", entries[0].ResID1)

	records, err := f.sync.GetTreatmentLog(ctx, "2026-02-11", nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "홍길동", records[0].PName)

	_, err = f.sync.UpdateWaitEntry(ctx, 2, "2026-02-11", visitid.IDs{})
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestCreateTreatmentRecord_Defaults(t *testing.T) {
	ctx := context.Background()
	f := setup(t, true)

	rec, err := f.sync.CreateTreatmentRecord(ctx, &treatment.Record{PCode: 2, VisitDate: "20260211"})
	require.NoError(t, err)
	assert.Positive(t, rec.Seq)

	got, err := f.sync.GetTreatmentLog(ctx, "2026-02-11", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "김영희", got[0].PName)
	assert.Equal(t, "여", got[0].Sex)
	assert.Equal(t, "41y 1m", got[0].Age)
	assert.Equal(t, "R", got[0].Reserved)
	assert.Equal(t, "36.5", got[0].Temperature)
	assert.Equal(t, "요양", got[0].Gubun)
	assert.Equal(t, 1, got[0].Serial)

	// The waiting list is not touched.
	entries, err := f.sync.GetWaitingList(ctx, "2026-02-11")
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = f.sync.CreateTreatmentRecord(ctx, &treatment.Record{PCode: 99, VisitDate: "2026-02-11"})
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestUpdateTreatmentRecord(t *testing.T) {
	ctx := context.Background()
	f := setup(t, true)

	checkIn, err := f.sync.CreateCheckIn(ctx, 1, "2026-02-11")
	require.NoError(t, err)

	fin := "Y"
	rec, err := f.sync.UpdateTreatmentRecord(ctx, "2026-02-11", checkIn.Record.Seq, treatment.Update{Fin: &fin})
	require.NoError(t, err)
	assert.Equal(t, "Y", rec.Fin)

	done, err := f.sync.GetTreatmentLog(ctx, "2026-02-11", &fin)
	require.NoError(t, err)
	assert.Len(t, done, 1)

	// The waiting list keeps its entry.
	entries, err := f.sync.GetWaitingList(ctx, "2026-02-11")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = f.sync.UpdateTreatmentRecord(ctx, "2026-02-11", checkIn.Record.Seq, treatment.Update{})
	assert.ErrorIs(t, err, treatment.ErrEmptyUpdate)
}

func TestConfig_Location(t *testing.T) {
	cfg := frontdesk.DefaultConfig()
	assert.Equal(t, "Asia/Seoul", cfg.Location().String())

	cfg.Timezone = "Nowhere/Invalid"
	assert.Equal(t, time.Local, cfg.Location())

	a := cfg.Assignment()
	assert.Equal(t, "제1진료실", a.RoomName)
	assert.Equal(t, "14", a.DeptCode)
}

func TestRestoreTreatmentRecord_RepairsPartialCheckIn(t *testing.T) {
	ctx := context.Background()
	f := setup(t, false)

	_, err := f.sync.CreateCheckIn(ctx, 1, "2026-02-11")
	require.ErrorIs(t, err, frontdesk.ErrPartialCreate)

	dbtest.CreateTreatmentTable(t, f.stores.Treatment(), "MTR2026")
	rec, err := f.sync.RestoreTreatmentRecord(ctx, 1, "20260211")
	require.NoError(t, err)
	assert.Equal(t, database.Date("2026-02-11"), rec.VisitDate)
	assert.Equal(t, "요양", rec.Gubun)

	records, err := f.sync.GetTreatmentLog(ctx, "2026-02-11", nil)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRestoreWaitEntry_UsesVisitTime(t *testing.T) {
	ctx := context.Background()
	f := setup(t, true)

	visit := time.Date(2026, 2, 11, 14, 5, 9, 0, time.UTC)
	ids, err := f.sync.RestoreWaitEntry(ctx, 2, "2026-02-11", &visit)
	require.NoError(t, err)
	assert.Equal(t, "20260211140509", ids.Timestamp)

	ids, err = f.sync.RestoreWaitEntry(ctx, 1, "2026-02-11", nil)
	require.NoError(t, err)
	assert.Equal(t, "20260211093015", ids.Timestamp)

	_, err = f.sync.RestoreWaitEntry(ctx, 1, "2026-02-11", nil)
	assert.ErrorIs(t, err, database.ErrDuplicateKey)
}
