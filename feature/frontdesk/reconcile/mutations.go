package reconcile

import (
	"context"
	"fmt"

	"clinic-desk/core/reconcile"
	"clinic-desk/feature/treatment"
	"clinic-desk/feature/waitlist"
)

// DeletePrimary removes the orphan wait entry for key.
func (a *VisitAdapter) DeletePrimary(ctx context.Context, key string) error {
	pcode, date, err := ParseKey(key)
	if err != nil {
		return err
	}
	return waitlist.NewRepository(a.stores).Delete(ctx, pcode, date)
}

// DeleteSecondary removes every orphan treatment record for key.
func (a *VisitAdapter) DeleteSecondary(ctx context.Context, key string) error {
	pcode, date, err := ParseKey(key)
	if err != nil {
		return err
	}
	_, err = treatment.NewRepository(a.stores).DeleteByVisit(ctx, pcode, date)
	return err
}

// BackfillPrimary recreates the wait entry from the treatment record's visit time.
func (a *VisitAdapter) BackfillPrimary(ctx context.Context, key string, source reconcile.Item) error {
	item, ok := source.(TreatmentItem)
	if !ok {
		return fmt.Errorf("backfill %s: unexpected source %T", key, source)
	}
	_, err := a.sync.RestoreWaitEntry(ctx, item.PCode, item.VisitDate, item.VisitTime)
	return err
}

// BackfillSecondary opens the treatment record a check-in would have written.
func (a *VisitAdapter) BackfillSecondary(ctx context.Context, key string, source reconcile.Item) error {
	item, ok := source.(WaitItem)
	if !ok {
		return fmt.Errorf("backfill %s: unexpected source %T", key, source)
	}
	_, err := a.sync.RestoreTreatmentRecord(ctx, item.PCode, item.VisitDate)
	return err
}
