package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// SemesterCount is the number of semester columns carried by a summary row.
const SemesterCount = 10

// Input column names. The student id column is configurable and therefore not listed here.
const (
	ColumnInstitution = "INSTCODE"
	ColumnStudentName = "STUDNAME"
	ColumnBranch      = "BRANNAME"
	ColumnSemester    = "CURRSEMS"
	ColumnGrade       = "GRADE"
	ColumnCredits     = "Credits"
	ColumnCGPA        = "CGPA"
)

// NoData is the text marker for an absent average.
const NoData = "-"

// Score is a numeric value that may be unknown or absent.
// The zero value is an absent score.
type Score struct {
	Value float64
	Valid bool
}

// ScoreOf returns a valid score holding v.
func ScoreOf(v float64) Score {
	return Score{Value: v, Valid: true}
}

// String renders the shortest representation of the value, or NoData.
func (s Score) String() string {
	if !s.Valid {
		return NoData
	}
	return strconv.FormatFloat(s.Value, 'f', -1, 64)
}

// Format renders the value with a fixed number of decimal places, or NoData.
func (s Score) Format(precision int) string {
	if !s.Valid {
		return NoData
	}
	return strconv.FormatFloat(s.Value, 'f', precision, 64)
}

// MarshalJSON encodes absent scores as null.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// UnmarshalJSON accepts a number or null.
func (s *Score) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Score{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode score: %w", err)
	}
	*s = ScoreOf(v)
	return nil
}

// GradeRecord is one roster row: a single course result for a student in a semester.
type GradeRecord struct {
	Row           int    `json:"row"`
	InstitutionID string `json:"institution_id"`
	StudentID     string `json:"student_id"`
	StudentName   string `json:"student_name"`
	BranchName    string `json:"branch_name"`
	Semester      Score  `json:"semester"`
	Grade         string `json:"grade"`
	Credits       Score  `json:"credits"`
	Points        Score  `json:"points"`
}

// StudentSummaryRow is the per-student output of the aggregation.
// SGPA[0] holds semester 1.
type StudentSummaryRow struct {
	InstitutionID string               `json:"institution_id"`
	StudentID     string               `json:"student_id"`
	StudentName   string               `json:"student_name"`
	BranchName    string               `json:"branch_name"`
	SGPA          [SemesterCount]Score `json:"sgpa"`
	CGPA          Score                `json:"cgpa"`
}

// SemesterColumn returns the output header for a 1-based semester number.
func SemesterColumn(semester int) string {
	return fmt.Sprintf("SEM%d_SGPA", semester)
}

// SummaryColumns returns the output header in its fixed order.
func SummaryColumns(studentIDColumn string) []string {
	cols := []string{ColumnInstitution, studentIDColumn, ColumnStudentName, ColumnBranch}
	for sem := 1; sem <= SemesterCount; sem++ {
		cols = append(cols, SemesterColumn(sem))
	}
	return append(cols, ColumnCGPA)
}

// Cells flattens the row in SummaryColumns order. Averages use the given precision.
func (r StudentSummaryRow) Cells(precision int) []string {
	cells := make([]string, 0, 4+SemesterCount+1)
	cells = append(cells, r.InstitutionID, r.StudentID, r.StudentName, r.BranchName)
	for _, s := range r.SGPA {
		cells = append(cells, s.Format(precision))
	}
	return append(cells, r.CGPA.Format(precision))
}
