package waitlist

import (
	"context"
	"fmt"
	"strings"

	"clinic-desk/core/charset"
	"clinic-desk/core/database"
	"clinic-desk/core/shard"
	"clinic-desk/core/visitid"
)

const selectColumns = "pcode, visidate, resid1, resid2, goodoc, roomcode, roomnm, deptcode, deptnm, doctrcode, doctrnm, d_alarm, psn"

// Columns returns the columns the repository reads from the yearly wait tables.
func Columns() []string {
	return strings.Split(selectColumns, ", ")
}

// Repository accesses the waiting-list store.
type Repository struct {
	stores *database.StoreSet
}

// NewRepository creates a repository over the waitlist store of stores.
func NewRepository(stores *database.StoreSet) *Repository {
	return &Repository{stores: stores}
}

// target resolves the yearly table and canonical date for a visit date.
func target(date string) (shard.Table, string, error) {
	table, err := shard.Resolve(shard.WaitList, date)
	if err != nil {
		return shard.Table{}, "", err
	}
	canonical, err := visitid.Canonical(date)
	if err != nil {
		return shard.Table{}, "", err
	}
	return table, canonical, nil
}

func visitKey(pcode int64, date string) string {
	return fmt.Sprintf("pcode=%d visidate=%s", pcode, date)
}

// ListByDate returns the entries for a visit date ordered by reservation id.
// Display names are not filled in.
func (r *Repository) ListByDate(ctx context.Context, date string) ([]Entry, error) {
	table, day, err := target(date)
	if err != nil {
		return nil, err
	}

	var rows []row
	statement := fmt.Sprintf("SELECT %s FROM %s WHERE visidate = ? ORDER BY resid1, pcode", selectColumns, table)
	if err := r.stores.Query(ctx, database.Waitlist, &rows, statement, day); err != nil {
		return nil, database.Wrap("list wait entries", database.Waitlist, table.Name(), "visidate="+day, err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, rw := range rows {
		entries = append(entries, rw.entry())
	}
	return entries, nil
}

// Get returns a single entry.
func (r *Repository) Get(ctx context.Context, pcode int64, date string) (*Entry, error) {
	table, day, err := target(date)
	if err != nil {
		return nil, err
	}

	var rows []row
	statement := fmt.Sprintf("SELECT %s FROM %s WHERE pcode = ? AND visidate = ?", selectColumns, table)
	if err := r.stores.Query(ctx, database.Waitlist, &rows, statement, pcode, day); err != nil {
		return nil, database.Wrap("get wait entry", database.Waitlist, table.Name(), visitKey(pcode, day), err)
	}
	if len(rows) == 0 {
		return nil, database.NotFound("get wait entry", database.Waitlist, table.Name(), visitKey(pcode, day))
	}
	e := rows[0].entry()
	return &e, nil
}

// Insert adds an entry for (pcode, date) with the given identifiers and
// assignment. A second insert for the same key fails with ErrDuplicateKey.
func (r *Repository) Insert(ctx context.Context, pcode int64, date string, ids visitid.IDs, a Assignment) error {
	table, day, err := target(date)
	if err != nil {
		return err
	}

	statement, args := database.NewAssignments(charset.EntityWaitEntry).
		Bind("pcode", pcode).
		Bind("visidate", day).
		Bind("resid1", ids.Timestamp).
		Bind("resid2", ids.Date).
		Bind("roomcode", a.RoomCode).
		Text("roomnm", a.RoomName).
		Bind("deptcode", a.DeptCode).
		Text("deptnm", a.DeptName).
		Bind("doctrcode", a.DoctorCode).
		Text("doctrnm", a.DoctorName).
		Bind("goodoc", "").
		Insert(table.Name())

	if _, err := r.stores.Exec(ctx, database.Waitlist, statement, args...); err != nil {
		return database.Wrap("insert wait entry", database.Waitlist, table.Name(), visitKey(pcode, day), err)
	}
	return nil
}

// UpdateIDs replaces the reservation identifiers of an entry.
func (r *Repository) UpdateIDs(ctx context.Context, pcode int64, date string, ids visitid.IDs) error {
	table, day, err := target(date)
	if err != nil {
		return err
	}

	statement, args := database.NewAssignments(charset.EntityWaitEntry).
		Bind("resid1", ids.Timestamp).
		Bind("resid2", ids.Date).
		Update(table.Name(), "pcode = ? AND visidate = ?", pcode, day)

	n, err := r.stores.Exec(ctx, database.Waitlist, statement, args...)
	if err != nil {
		return database.Wrap("update wait entry", database.Waitlist, table.Name(), visitKey(pcode, day), err)
	}
	if n == 0 {
		return database.NotFound("update wait entry", database.Waitlist, table.Name(), visitKey(pcode, day))
	}
	return nil
}

// Delete removes an entry. It returns ErrNotFound when no row matched.
func (r *Repository) Delete(ctx context.Context, pcode int64, date string) error {
	table, day, err := target(date)
	if err != nil {
		return err
	}

	statement := fmt.Sprintf("DELETE FROM %s WHERE pcode = ? AND visidate = ?", table)
	n, err := r.stores.Exec(ctx, database.Waitlist, statement, pcode, day)
	if err != nil {
		return database.Wrap("delete wait entry", database.Waitlist, table.Name(), visitKey(pcode, day), err)
	}
	if n == 0 {
		return database.NotFound("delete wait entry", database.Waitlist, table.Name(), visitKey(pcode, day))
	}
	return nil
}

// ListYear returns every entry in the yearly table containing date.
func (r *Repository) ListYear(ctx context.Context, date string) ([]Entry, error) {
	table, err := shard.Resolve(shard.WaitList, date)
	if err != nil {
		return nil, err
	}

	var rows []row
	statement := fmt.Sprintf("SELECT %s FROM %s ORDER BY visidate, pcode", selectColumns, table)
	if err := r.stores.Query(ctx, database.Waitlist, &rows, statement); err != nil {
		return nil, database.Wrap("list wait entries", database.Waitlist, table.Name(), "", err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, rw := range rows {
		entries = append(entries, rw.entry())
	}
	return entries, nil
}
