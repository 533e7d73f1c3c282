// Package config loads gpacalc configuration.
//
// # Configuration Sources
//
// Values are resolved in increasing order of precedence:
//
//  1. Default()
//  2. A YAML file (explicit path, or gpacalc.yaml / configs/gpacalc.yaml)
//  3. Environment variables, including those from a .env file
//
// # Environment Variables
//
// All variables use the GPA_ prefix followed by the section name:
//
//	GPA_ROSTER_STUDENT_ID_COLUMN=715521YYYYYY
//	GPA_ROSTER_PRECISION=2
//	GPA_EXPORT_OUTPUT_DIR=/srv/results
//	GPA_EXPORT_WRITE_CSV=true
//	GPA_PROCESSING_MAX_CONCURRENCY=4
//	GPA_LOGGING_LEVEL=debug
//	GPA_SERVER_PORT=8080
//	GPA_SERVER_RATE_LIMIT_RPS=20
//	GPA_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Validation
//
// Load validates the merged result with struct tags (go-playground/validator)
// and fails fast on out-of-range values such as a precision above 6.
package config
