package treatment

import (
	"context"
	"fmt"
	"strings"

	"clinic-desk/core/charset"
	"clinic-desk/core/database"
	"clinic-desk/core/shard"
	"clinic-desk/core/visitid"
)

const selectColumns = "seq, pcode, visidate, visitime, pname, pbirth, age, phonenum, sex, serial, n, gubun, reserved, fin, temperatur"

// Columns returns the columns the repository reads from the yearly treatment tables.
func Columns() []string {
	return strings.Split(selectColumns, ", ")
}

// Repository accesses the treatment-log store.
type Repository struct {
	stores *database.StoreSet
}

// NewRepository creates a repository over the treatment store of stores.
func NewRepository(stores *database.StoreSet) *Repository {
	return &Repository{stores: stores}
}

func target(date string) (shard.Table, string, error) {
	table, err := shard.Resolve(shard.TreatmentLog, date)
	if err != nil {
		return shard.Table{}, "", err
	}
	canonical, err := visitid.Canonical(date)
	if err != nil {
		return shard.Table{}, "", err
	}
	return table, canonical, nil
}

func records(rows []row) []Record {
	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out
}

// ListByDate returns the records for a visit date ordered by visit time.
// A non-nil fin restricts the result to that completion flag.
func (r *Repository) ListByDate(ctx context.Context, date string, fin *string) ([]Record, error) {
	table, day, err := target(date)
	if err != nil {
		return nil, err
	}

	statement := fmt.Sprintf("SELECT %s FROM %s WHERE visidate = ?", selectColumns, table)
	params := []any{day}
	if fin != nil {
		statement += " AND fin = ?"
		params = append(params, *fin)
	}
	statement += " ORDER BY visitime, seq"

	var rows []row
	if err := r.stores.Query(ctx, database.Treatment, &rows, statement, params...); err != nil {
		return nil, database.Wrap("list treatment records", database.Treatment, table.Name(), "visidate="+day, err)
	}
	return records(rows), nil
}

// ListYear returns every record in the yearly table containing date.
func (r *Repository) ListYear(ctx context.Context, date string) ([]Record, error) {
	table, err := shard.Resolve(shard.TreatmentLog, date)
	if err != nil {
		return nil, err
	}

	var rows []row
	statement := fmt.Sprintf("SELECT %s FROM %s ORDER BY visidate, seq", selectColumns, table)
	if err := r.stores.Query(ctx, database.Treatment, &rows, statement); err != nil {
		return nil, database.Wrap("list treatment records", database.Treatment, table.Name(), "", err)
	}
	return records(rows), nil
}

// Get returns the record with the given sequence number in the table for date.
func (r *Repository) Get(ctx context.Context, date string, seq int64) (*Record, error) {
	table, err := shard.Resolve(shard.TreatmentLog, date)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("seq=%d", seq)

	var rows []row
	statement := fmt.Sprintf("SELECT %s FROM %s WHERE seq = ?", selectColumns, table)
	if err := r.stores.Query(ctx, database.Treatment, &rows, statement, seq); err != nil {
		return nil, database.Wrap("get treatment record", database.Treatment, table.Name(), key, err)
	}
	if len(rows) == 0 {
		return nil, database.NotFound("get treatment record", database.Treatment, table.Name(), key)
	}
	rec := rows[0].record()
	return &rec, nil
}

// Insert adds rec to the table for its visit date and returns the generated
// sequence number. rec.Seq is set on success.
func (r *Repository) Insert(ctx context.Context, rec *Record) (int64, error) {
	table, day, err := target(rec.VisitDate.String())
	if err != nil {
		return 0, err
	}
	rec.VisitDate = database.Date(day)
	key := fmt.Sprintf("pcode=%d visidate=%s", rec.PCode, day)

	db, err := r.stores.DB(ctx, database.Treatment)
	if err != nil {
		return 0, err
	}
	rw := newRow(rec)
	if err := db.Table(table.Name()).Create(&rw).Error; err != nil {
		return 0, database.Wrap("insert treatment record", database.Treatment, table.Name(), key, err)
	}
	rec.Seq = rw.Seq
	return rw.Seq, nil
}

// Update changes the given fields of one record.
func (r *Repository) Update(ctx context.Context, date string, seq int64, u Update) error {
	table, err := shard.Resolve(shard.TreatmentLog, date)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("seq=%d", seq)

	a := database.NewAssignments(charset.EntityTreatment)
	if u.VisitTime != nil {
		a.Bind("visitime", *u.VisitTime)
	}
	if u.PName != nil {
		a.Text("pname", *u.PName)
	}
	if u.PBirth != nil {
		a.Bind("pbirth", database.Date(*u.PBirth))
	}
	if u.Age != nil {
		a.Text("age", *u.Age)
	}
	if u.PhoneNum != nil {
		a.Text("phonenum", *u.PhoneNum)
	}
	if u.Sex != nil {
		a.Text("sex", *u.Sex)
	}
	if u.Gubun != nil {
		a.Text("gubun", *u.Gubun)
	}
	if u.Reserved != nil {
		a.Bind("reserved", *u.Reserved)
	}
	if u.Fin != nil {
		a.Bind("fin", *u.Fin)
	}
	if u.Temperature != nil {
		a.Bind("temperatur", *u.Temperature)
	}
	if a.Len() == 0 {
		return ErrEmptyUpdate
	}

	statement, args := a.Update(table.Name(), "seq = ?", seq)
	n, err := r.stores.Exec(ctx, database.Treatment, statement, args...)
	if err != nil {
		return database.Wrap("update treatment record", database.Treatment, table.Name(), key, err)
	}
	if n == 0 {
		return database.NotFound("update treatment record", database.Treatment, table.Name(), key)
	}
	return nil
}

// Delete removes one record by sequence number.
func (r *Repository) Delete(ctx context.Context, date string, seq int64) error {
	table, err := shard.Resolve(shard.TreatmentLog, date)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("seq=%d", seq)

	statement := fmt.Sprintf("DELETE FROM %s WHERE seq = ?", table)
	n, err := r.stores.Exec(ctx, database.Treatment, statement, seq)
	if err != nil {
		return database.Wrap("delete treatment record", database.Treatment, table.Name(), key, err)
	}
	if n == 0 {
		return database.NotFound("delete treatment record", database.Treatment, table.Name(), key)
	}
	return nil
}

// DeleteByVisit removes every record for (pcode, date) and returns how many were removed.
func (r *Repository) DeleteByVisit(ctx context.Context, pcode int64, date string) (int64, error) {
	table, day, err := target(date)
	if err != nil {
		return 0, err
	}

	statement := fmt.Sprintf("DELETE FROM %s WHERE pcode = ? AND visidate = ?", table)
	n, err := r.stores.Exec(ctx, database.Treatment, statement, pcode, day)
	if err != nil {
		return 0, database.Wrap("delete treatment records", database.Treatment, table.Name(),
			fmt.Sprintf("pcode=%d visidate=%s", pcode, day), err)
	}
	return n, nil
}
