// Package services holds the application layer between the transports
// (CLI and HTTP) and the GPA core.
//
// GPAService runs one roster through file validation, parsing, schema and
// identity validation, aggregation and export. Every stage runs inside an
// OpenTelemetry span and feeds the counters in infrastructure.GPAMetrics.
// Results are returned as values; the service keeps no per-roster state and
// is safe for concurrent use.
//
// ProcessBatch fans a list of rosters out over an errgroup bounded by
// Processing.MaxConcurrency. A roster that fails is reported in its
// FileOutcome and does not stop the others.
//
// HealthService backs the health endpoint.
package services
