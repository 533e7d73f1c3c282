package gpa

import (
	"math"
	"strconv"
	"strings"

	"gpacalc/pkg/contracts/domain"
)

// DefaultStudentIDColumn is the student id header used by the source rosters.
const DefaultStudentIDColumn = "715521YYYYYY"

// Table is a raw roster: a header row followed by data rows of string cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Schema names the roster columns. Only the student id column varies between rosters.
type Schema struct {
	StudentIDColumn string
}

// DefaultSchema returns the schema of the source rosters.
func DefaultSchema() Schema {
	return Schema{StudentIDColumn: DefaultStudentIDColumn}
}

// RequiredColumns lists the input columns in their canonical order.
func (s Schema) RequiredColumns() []string {
	return []string{
		domain.ColumnInstitution,
		s.idColumn(),
		domain.ColumnStudentName,
		domain.ColumnBranch,
		domain.ColumnSemester,
		domain.ColumnGrade,
		domain.ColumnCredits,
	}
}

// OutputColumns lists the summary columns in their fixed order.
func (s Schema) OutputColumns() []string {
	return domain.SummaryColumns(s.idColumn())
}

// IDColumn returns the student id header, falling back to the default.
func (s Schema) IDColumn() string {
	return s.idColumn()
}

func (s Schema) idColumn() string {
	if s.StudentIDColumn == "" {
		return DefaultStudentIDColumn
	}
	return s.StudentIDColumn
}

// Roster is a decoded table. Records keep input order.
type Roster struct {
	Schema   Schema
	Columns  []string
	Records  []domain.GradeRecord
	Warnings []Warning
}

// HasColumn reports whether the header contains name.
func (r *Roster) HasColumn(name string) bool {
	for _, c := range r.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Decode converts a raw table into typed grade records.
//
// Decode never fails. When required columns are missing only the header is
// kept, so Validate reports the schema error and no rows are read. Otherwise
// unparseable numbers become invalid scores with a warning and fully blank
// rows are dropped. Row numbers count the header as row 1.
func Decode(t Table, schema Schema) *Roster {
	r := &Roster{Schema: schema, Columns: make([]string, len(t.Header))}

	index := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		h = strings.TrimSpace(h)
		r.Columns[i] = h
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	if ValidateSchema(r) != nil {
		return r
	}

	idCol := schema.idColumn()
	r.Records = make([]domain.GradeRecord, 0, len(t.Rows))

	for i, row := range t.Rows {
		if blankRow(row) {
			continue
		}
		rowNum := i + 2
		cell := func(col string) string {
			if j, ok := index[col]; ok && j < len(row) {
				return strings.TrimSpace(row[j])
			}
			return ""
		}

		rec := domain.GradeRecord{
			Row:           rowNum,
			InstitutionID: cell(domain.ColumnInstitution),
			StudentID:     cell(idCol),
			StudentName:   cell(domain.ColumnStudentName),
			BranchName:    cell(domain.ColumnBranch),
			Grade:         NormalizeGrade(cell(domain.ColumnGrade)),
		}

		if rec.StudentID == "" {
			r.Warnings = append(r.Warnings, Warning{Kind: WarningMissingStudentID, Row: rowNum, Column: idCol})
			continue
		}

		raw := cell(domain.ColumnSemester)
		rec.Semester = parseNumber(raw)
		if !rec.Semester.Valid {
			r.Warnings = append(r.Warnings, UnparseableValueWarning(rowNum, domain.ColumnSemester, raw))
		}

		raw = cell(domain.ColumnCredits)
		rec.Credits = parseNumber(raw)
		if rec.Credits.Valid && rec.Credits.Value < 0 {
			rec.Credits = domain.Score{}
		}
		if !rec.Credits.Valid {
			r.Warnings = append(r.Warnings, UnparseableValueWarning(rowNum, domain.ColumnCredits, raw))
		}

		rec.Points = Points(rec.Grade)
		if !rec.Points.Valid {
			r.Warnings = append(r.Warnings, UnknownGradeWarning(rowNum, domain.ColumnGrade, rec.Grade))
		}

		r.Records = append(r.Records, rec)
	}

	return r
}

// parseNumber parses a decimal cell, tolerating thousands separators.
// NaN and infinities are rejected.
func parseNumber(s string) domain.Score {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return domain.Score{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return domain.Score{}
	}
	return domain.ScoreOf(v)
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
