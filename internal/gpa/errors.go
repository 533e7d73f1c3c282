package gpa

import (
	"fmt"
	"strings"
)

// SchemaError reports required columns missing from the roster header.
type SchemaError struct {
	Required []string
	Missing  []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("roster is missing required columns: %s (required: %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.Required, ", "))
}

// IdentityConflict is one student id claimed by several institutions.
type IdentityConflict struct {
	StudentID      string   `json:"student_id"`
	InstitutionIDs []string `json:"institution_ids"`
}

// IdentityConflictError reports student ids that resolve to more than one institution.
type IdentityConflictError struct {
	Conflicts []IdentityConflict
}

func (e *IdentityConflictError) Error() string {
	ids := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		ids[i] = c.StudentID
	}
	return fmt.Sprintf("%d student id(s) appear in more than one institution: %s",
		len(e.Conflicts), strings.Join(ids, ", "))
}

// Lines returns one human readable line per conflict.
func (e *IdentityConflictError) Lines() []string {
	lines := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		lines[i] = fmt.Sprintf("Roll No: %s found in INSTCODE(s): %s",
			c.StudentID, strings.Join(c.InstitutionIDs, ", "))
	}
	return lines
}

// WarningKind classifies non-fatal roster problems.
type WarningKind string

const (
	WarningUnparseableValue WarningKind = "unparseable_value"
	WarningUnknownGrade     WarningKind = "unknown_grade"
	WarningMissingStudentID WarningKind = "missing_student_id"
)

// Warning is a non-fatal problem found while decoding a roster. The affected
// value is treated as unknown and excluded from weighted sums.
type Warning struct {
	Kind   WarningKind `json:"kind"`
	Row    int         `json:"row"`
	Column string      `json:"column"`
	Value  string      `json:"value"`
}

func (w Warning) String() string {
	switch w.Kind {
	case WarningUnknownGrade:
		return fmt.Sprintf("row %d: unknown grade %q in column %s", w.Row, w.Value, w.Column)
	case WarningMissingStudentID:
		return fmt.Sprintf("row %d: blank student id in column %s, row skipped", w.Row, w.Column)
	default:
		return fmt.Sprintf("row %d: unparseable value %q in column %s", w.Row, w.Value, w.Column)
	}
}

// UnparseableValueWarning builds the warning for a non-numeric semester or credit cell.
func UnparseableValueWarning(row int, column, value string) Warning {
	return Warning{Kind: WarningUnparseableValue, Row: row, Column: column, Value: value}
}

// UnknownGradeWarning builds the warning for a grade outside the scale.
func UnknownGradeWarning(row int, column, value string) Warning {
	return Warning{Kind: WarningUnknownGrade, Row: row, Column: column, Value: value}
}
