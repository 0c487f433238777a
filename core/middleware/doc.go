// Package middleware contains HTTP middleware for the Fiber application.
//
//   - auth: API key validation for protected endpoints.
//   - rayid: a per-request id, set in locals and the X-Ray-ID response header,
//     that logger.WithRayID attaches to log lines.
package middleware
