// Package logkey holds the shared attribute names used in structured logs
// so handlers and middleware stay consistent.
package logkey

const (
	TraceID = "Trace ID"
	ERROR   = "Error"
)
