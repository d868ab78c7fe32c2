// Package server exposes the cached dashboard service over HTTP.
//
// Routes under /api/v1 mirror the upstream trading API but are answered
// through the cache; routes under /cache expose cache diagnostics and manual
// invalidation. Every request gets a trace ID (from X-Trace-ID or freshly
// generated) that is echoed in the response and attached to log lines.
package server
