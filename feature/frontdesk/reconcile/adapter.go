package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"clinic-desk/core/database"
	"clinic-desk/core/reconcile"
	"clinic-desk/core/shard"
	"clinic-desk/core/utils"
	"clinic-desk/core/visitid"
	"clinic-desk/feature/frontdesk"
	"clinic-desk/feature/person"
)

// VisitAdapter reconciles wait entries (primary) against treatment records
// (secondary). Both sides are keyed by person code and visit date.
type VisitAdapter struct {
	stores  *database.StoreSet
	persons *person.Repository
	sync    *frontdesk.Synchronizer
}

// NewAdapter creates a visit adapter. sync performs the backfills.
func NewAdapter(stores *database.StoreSet, sync *frontdesk.Synchronizer) *VisitAdapter {
	return &VisitAdapter{
		stores:  stores,
		persons: person.NewRepository(stores),
		sync:    sync,
	}
}

// Name returns the unique name of this adapter.
func (a *VisitAdapter) Name() string {
	return "visits"
}

// WaitItem is the primary-side view of a visit.
type WaitItem struct {
	PCode     int64
	VisitDate string
	ResID1    string
	Name      string
}

// TreatmentItem is the secondary-side view of a visit. A visit normally
// has exactly one record.
type TreatmentItem struct {
	PCode     int64
	VisitDate string
	Seqs      []int64
	Name      string
	VisitTime *time.Time
}

// VisitKey builds the reconcile key for a visit.
func VisitKey(pcode int64, date string) string {
	return fmt.Sprintf("%d|%s", pcode, date)
}

// ParseKey splits a key built by VisitKey.
func ParseKey(key string) (int64, string, error) {
	code, date, ok := strings.Cut(key, "|")
	if !ok {
		return 0, "", fmt.Errorf("malformed visit key %q", key)
	}
	pcode, err := strconv.ParseInt(code, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("malformed visit key %q: %w", key, err)
	}
	return pcode, date, nil
}

// scopeFilter turns a scope into a WHERE clause. A bare year covers the
// whole yearly table; anything else must be a visit date.
func scopeFilter(kind shard.Kind, scope string) (shard.Table, string, []any, error) {
	table, err := shard.Resolve(kind, scope)
	if err != nil {
		return shard.Table{}, "", nil, err
	}
	if len(shard.Digits(scope)) == 4 {
		return table, "", nil, nil
	}
	day, err := visitid.Canonical(scope)
	if err != nil {
		return shard.Table{}, "", nil, err
	}
	return table, " WHERE visidate = ?", []any{day}, nil
}

// ValidateScope reports whether scope names a year or a visit date.
func ValidateScope(scope string) error {
	_, _, _, err := scopeFilter(shard.WaitList, scope)
	return err
}

// LoadPrimaryIndex loads the wait entries in scope with their display names.
func (a *VisitAdapter) LoadPrimaryIndex(ctx context.Context, scope string) (map[string]reconcile.Item, error) {
	table, where, params, err := scopeFilter(shard.WaitList, scope)
	if err != nil {
		return nil, err
	}

	statement := fmt.Sprintf("SELECT pcode, visidate, resid1 FROM %s%s", table, where)
	rows, err := a.stores.Rows(ctx, database.Waitlist, statement, params...)
	if err != nil {
		return nil, database.Wrap("load wait index", database.Waitlist, table.Name(), scope, err)
	}

	items := make([]WaitItem, 0, len(rows))
	pcodes := make([]int64, 0, len(rows))
	for _, row := range rows {
		item := WaitItem{
			PCode:     utils.ToInt64(row["pcode"]),
			VisitDate: utils.ToDate(row["visidate"]),
			ResID1:    utils.ToString(row["resid1"]),
		}
		items = append(items, item)
		pcodes = append(pcodes, item.PCode)
	}

	names, err := a.persons.Names(ctx, pcodes)
	if err != nil {
		return nil, err
	}

	index := make(map[string]reconcile.Item, len(items))
	for _, item := range items {
		item.Name = names[item.PCode]
		index[VisitKey(item.PCode, item.VisitDate)] = item
	}
	return index, nil
}

// LoadSecondaryIndex loads the treatment records in scope grouped by visit.
func (a *VisitAdapter) LoadSecondaryIndex(ctx context.Context, scope string) (map[string]reconcile.Item, error) {
	table, where, params, err := scopeFilter(shard.TreatmentLog, scope)
	if err != nil {
		return nil, err
	}

	statement := fmt.Sprintf("SELECT seq, pcode, visidate, visitime, pname FROM %s%s ORDER BY seq", table, where)
	rows, err := a.stores.Rows(ctx, database.Treatment, statement, params...)
	if err != nil {
		return nil, database.Wrap("load treatment index", database.Treatment, table.Name(), scope, err)
	}

	grouped := make(map[string]*TreatmentItem)
	for _, row := range rows {
		pcode := utils.ToInt64(row["pcode"])
		date := utils.ToDate(row["visidate"])
		key := VisitKey(pcode, date)

		item, ok := grouped[key]
		if !ok {
			item = &TreatmentItem{
				PCode:     pcode,
				VisitDate: date,
				Name:      utils.ToString(row["pname"]),
			}
			if t, ok := row["visitime"].(time.Time); ok {
				item.VisitTime = &t
			}
			grouped[key] = item
		}
		item.Seqs = append(item.Seqs, utils.ToInt64(row["seq"]))
	}

	index := make(map[string]reconcile.Item, len(grouped))
	for key, item := range grouped {
		index[key] = *item
	}
	return index, nil
}

// ResolveName returns the patient name, preferring the person store.
func (a *VisitAdapter) ResolveName(primary, secondary reconcile.Item) string {
	if w, ok := primary.(WaitItem); ok && w.Name != "" {
		return w.Name
	}
	if t, ok := secondary.(TreatmentItem); ok {
		return t.Name
	}
	return ""
}

// CompareFields reports duplicate treatment records and name drift.
func (a *VisitAdapter) CompareFields(primary, secondary reconcile.Item) []string {
	w := primary.(WaitItem)
	t := secondary.(TreatmentItem)

	var mismatch []string
	if len(t.Seqs) > 1 {
		mismatch = append(mismatch, fmt.Sprintf("treatment rows: %d", len(t.Seqs)))
	}
	if w.Name != "" && t.Name != "" && w.Name != t.Name {
		mismatch = append(mismatch, fmt.Sprintf("name: person=%q treatment=%q", w.Name, t.Name))
	}
	return mismatch
}

// GetMetadata returns the visit coordinates and identifiers of both sides.
func (a *VisitAdapter) GetMetadata(primary, secondary reconcile.Item) map[string]string {
	meta := make(map[string]string)
	if w, ok := primary.(WaitItem); ok {
		meta["pcode"] = strconv.FormatInt(w.PCode, 10)
		meta["visit_date"] = w.VisitDate
		meta["resid1"] = w.ResID1
	}
	if t, ok := secondary.(TreatmentItem); ok {
		meta["pcode"] = strconv.FormatInt(t.PCode, 10)
		meta["visit_date"] = t.VisitDate
		seqs := make([]string, 0, len(t.Seqs))
		sorted := append([]int64(nil), t.Seqs...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		for _, seq := range sorted {
			seqs = append(seqs, strconv.FormatInt(seq, 10))
		}
		meta["seq"] = strings.Join(seqs, ",")
	}
	return meta
}
