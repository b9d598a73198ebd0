// Package database owns the connections to the three clinic stores.
//
// The person (reference), waitlist and treatment stores are independent
// databases, each reached through its own fixed-size pool. A StoreSet bundles
// the three handles and is passed explicitly to whoever needs them; nothing in
// the module keeps a process-wide pool.
//
// # Connect
//
// Connect opens a GORM handle over MySQL (production) or SQLite (development
// and tests) and caps the pool at the configured size. Open does this for all
// three stores at once.
//
// # Errors
//
// Store failures are wrapped in StoreError with the operation, store, table and
// key. Classify maps driver-specific errors onto ErrNotFound and
// ErrDuplicateKey so callers can use errors.Is regardless of the driver.
//
// # Statements
//
// Assignments builds INSERT and UPDATE statements where opaque legacy text
// columns are inlined as X'..' byte literals and everything else is bound.
//
// # Usage
//
//	stores, err := database.Open(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//	defer stores.Close()
//
//	n, err := stores.Exec(ctx, database.Waitlist, "DELETE FROM WAIT2026 WHERE pcode = ?", 42)
package database
