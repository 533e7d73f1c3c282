// Package api contains HTTP contract definitions for gpacalc.
// Version v1 represents the current stable API version.
package api

import (
	"gpacalc/pkg/contracts/domain"
)

// Output formats accepted by the calculate endpoint.
const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// RosterField is the multipart form field carrying the roster upload.
const RosterField = "roster"

// CalculateRequest holds the query parameters of POST /api/v1/gpa/calculate.
// The roster itself travels as multipart field RosterField.
type CalculateRequest struct {
	Format          string `json:"format" query:"format" validate:"omitempty,oneof=json xlsx csv"`
	StudentIDColumn string `json:"id_column" query:"id_column" validate:"omitempty,max=64,printascii"`
	// Precision overrides the configured number of decimals when set.
	Precision *int `json:"precision,omitempty" query:"precision" validate:"omitempty,min=0,max=6"`
}

// CalculateResponse is the JSON body returned for format=json.
type CalculateResponse struct {
	Columns   []string                   `json:"columns"`
	Rows      []domain.StudentSummaryRow `json:"rows"`
	Warnings  []RosterWarning            `json:"warnings"`
	Precision int                        `json:"precision"`
	Students  int                        `json:"students"`
}

// RosterWarning is a non-fatal problem with one roster cell.
type RosterWarning struct {
	Kind    string `json:"kind"`
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// HealthCheckRequest represents a health check request
type HealthCheckRequest struct {
	Verbose bool `json:"verbose" query:"verbose"`
}
