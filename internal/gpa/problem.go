package gpa

import "net/http"

// Problem type URIs for rejected rosters.
const (
	ProblemTypeSchema           = "/errors/roster/missing-columns"
	ProblemTypeIdentityConflict = "/errors/roster/identity-conflict"
)

// ProblemStatus returns the HTTP status for a roster with missing columns.
func (e *SchemaError) ProblemStatus() int { return http.StatusUnprocessableEntity }

func (e *SchemaError) ProblemType() string { return ProblemTypeSchema }

func (e *SchemaError) ProblemTitle() string { return "Missing Roster Columns" }

func (e *SchemaError) ProblemDetail() string { return e.Error() }

// ProblemExtensions lists the missing and required columns.
func (e *SchemaError) ProblemExtensions() map[string]interface{} {
	return map[string]interface{}{
		"missing_columns":  e.Missing,
		"required_columns": e.Required,
	}
}

// ProblemStatus returns the HTTP status for a roster with conflicting ids.
func (e *IdentityConflictError) ProblemStatus() int { return http.StatusUnprocessableEntity }

func (e *IdentityConflictError) ProblemType() string { return ProblemTypeIdentityConflict }

func (e *IdentityConflictError) ProblemTitle() string { return "Cross-INSTCODE Duplicate" }

func (e *IdentityConflictError) ProblemDetail() string {
	return "One or more student ids appear under more than one institution"
}

// ProblemExtensions carries every conflicting id with its institutions.
func (e *IdentityConflictError) ProblemExtensions() map[string]interface{} {
	return map[string]interface{}{"conflicts": e.Conflicts}
}
