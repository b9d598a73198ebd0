// Package frontdesk implements check-in and check-out across the waiting-list
// and treatment-log stores.
//
// A check-in writes a wait entry first and a treatment record second. The two
// writes go to different databases with no shared transaction:
//
//   - If the treatment write fails, the wait entry stays and the caller gets a
//     *PartialCreateError. The orphan is left for manual reconciliation.
//   - Deletes remove the primary row first and cascade to the other store on a
//     best-effort basis. A failed cascade is logged with ErrCascadeFailure and
//     the call still succeeds.
//
// Updates never cross stores.
//
// # Routes
//
//	GET    /api/waitlist/:date
//	POST   /api/waitlist
//	PUT    /api/waitlist/:date/:pcode
//	DELETE /api/waitlist/:date/:pcode
//	GET    /api/treatments/:date?fin=
//	POST   /api/treatments
//	PUT    /api/treatments/:date/:id
//	DELETE /api/treatments/:date/:id
//	GET    /api/schema/:date
package frontdesk
