// Package audit contains durable in-product audit writes for server operations.
//
// This package owns persisted operational audit events that are used for
// security posture, incident analysis, and debugging.
//
// For distributed tracing, the server still uses package `internal/platform/otel`.
package audit
