// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance for development (console, debug) and
// production (json) use, and integrates with the Fiber web framework.
//
// # Context Awareness
//
// The WithRayID helper extracts the RayID set by the rayid middleware from a Fiber
// context and attaches it to the log entry, so every line written while serving a
// check-in can be correlated.
//
// # Visit and Store Fields
//
// Visit returns the pcode and visit_date pair, and Store expands an error into
// the op, store, table and key recorded by database.StoreError, so failures in
// any of the three stores log with the same keys.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Check-in rejected", logger.Store(err)...)
package logger
