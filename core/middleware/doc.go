// Package middleware contains HTTP middleware for the Fiber application.
//
// It provides cross-cutting concerns that sit between the request and the handler.
//
// # Components
//
//   - auth: API key validation (X-API-Key or Bearer) protecting the /api routes.
//   - rayid: assigns every incoming request a RayID, injecting it into the context
//     and the X-Ray-ID response header for tracing.
//   - requestlog: logs every request through zap with its RayID.
//
// The components are registered globally in the start command, rayid first.
package middleware
