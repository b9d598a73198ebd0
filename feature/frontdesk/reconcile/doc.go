// Package reconcile finds and repairs visits that exist in only one of the
// waiting-list and treatment-log stores.
//
// Check-ins and cascading deletes are not atomic across stores, so a failed
// second write leaves an orphan behind. This package compares both sides for
// a visit date or a whole year and reports every visit that is missing on one
// side, plus visits with more than one treatment record.
//
// Repairs are operator-triggered only:
//   - purge deletes the orphan from the side where it exists;
//   - sync backfills the missing side (a treatment record from the person
//     snapshot, or a wait entry with the default room assignment).
//
// The HTTP route is read only. Repairs run from the reconcile command.
package reconcile
