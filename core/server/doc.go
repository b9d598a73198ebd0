// Package server holds the HTTP server configuration and the mapping from
// domain errors onto HTTP responses.
//
// # Configuration
//
// The Config struct defines the HTTP port, the API key and the graceful
// shutdown timeout.
//
// # Errors
//
// Status maps store errors (not found, duplicate key) and validation errors
// onto status codes so every feature handler answers failures the same way.
//
// # Health
//
// Health pings every store and answers 503 while one is unreachable. It is
// mounted before the auth middleware.
package server
