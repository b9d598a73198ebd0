package frontdesk

import (
	"context"
	"fmt"

	"clinic-desk/core/database"
	"clinic-desk/core/shard"
	"clinic-desk/feature/treatment"
	"clinic-desk/feature/waitlist"
)

// TableReport describes one yearly table.
type TableReport struct {
	Store          database.StoreName `json:"store"`
	MissingColumns []string           `json:"missing_columns"`
	Status         string             `json:"status"` // "ok", "missing", "error"
	Error          string             `json:"error,omitempty"`
}

// SchemaReport lists the yearly tables the check-in workflow writes for a date.
type SchemaReport struct {
	Year    string                 `json:"year"`
	Tables  map[string]TableReport `json:"tables"`
	Matched bool                   `json:"matched"`
}

// CheckSchema verifies that the wait and treatment tables for date exist and
// carry every column the repositories read. A store that cannot be inspected
// is reported, not returned as an error.
func (s *Synchronizer) CheckSchema(ctx context.Context, date string) (*SchemaReport, error) {
	year, err := shard.Year(date)
	if err != nil {
		return nil, err
	}
	report := &SchemaReport{Year: year, Tables: make(map[string]TableReport, 2), Matched: true}

	checks := []struct {
		kind    shard.Kind
		store   database.StoreName
		columns []string
	}{
		{shard.WaitList, database.Waitlist, waitlist.Columns()},
		{shard.TreatmentLog, database.Treatment, treatment.Columns()},
	}
	for _, chk := range checks {
		table := shard.MustResolve(chk.kind, year)
		tr := TableReport{Store: chk.store, MissingColumns: []string{}, Status: "ok"}

		db, err := s.stores.DB(ctx, chk.store)
		if err == nil {
			var missing []string
			missing, err = database.MissingColumns(db, table.Name(), chk.columns)
			if len(missing) > 0 {
				tr.MissingColumns = missing
			}
		}
		switch {
		case err != nil:
			tr.Status = "error"
			tr.Error = fmt.Sprintf("failed to inspect %s: %v", table, err)
		case len(tr.MissingColumns) == len(chk.columns):
			tr.Status = "missing"
		case len(tr.MissingColumns) > 0:
			tr.Status = "error"
		}
		if tr.Status != "ok" {
			report.Matched = false
		}
		report.Tables[table.Name()] = tr
	}
	return report, nil
}
