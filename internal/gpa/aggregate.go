package gpa

import (
	"math"
	"sort"
	"strconv"

	"gpacalc/pkg/contracts/domain"
)

// DefaultPrecision is the number of decimal places kept for SGPA and CGPA.
const DefaultPrecision = 2

// MaxPrecision bounds Options.Precision.
const MaxPrecision = 6

// Options configures the Aggregator.
type Options struct {
	// Precision is applied to both semester and cumulative averages.
	Precision int
}

// DefaultOptions returns the default aggregation options.
func DefaultOptions() Options {
	return Options{Precision: DefaultPrecision}
}

// Aggregator computes per-student summaries. It holds no state between calls
// and is safe for concurrent use.
type Aggregator struct {
	precision int
}

// NewAggregator creates an aggregator. Precision is clamped to [0, MaxPrecision].
func NewAggregator(opts Options) *Aggregator {
	p := opts.Precision
	if p < 0 {
		p = 0
	}
	if p > MaxPrecision {
		p = MaxPrecision
	}
	return &Aggregator{precision: p}
}

// Precision returns the effective rounding precision.
func (a *Aggregator) Precision() int {
	return a.precision
}

// accumulator sums credit-weighted points for one group.
type accumulator struct {
	weighted float64
	credits  float64
}

func (acc *accumulator) add(rec domain.GradeRecord) {
	if !rec.Credits.Valid || !rec.Points.Valid {
		return
	}
	acc.weighted += rec.Credits.Value * rec.Points.Value
	acc.credits += rec.Credits.Value
}

func (acc *accumulator) average(precision int) domain.Score {
	if acc == nil || acc.credits <= 0 {
		return domain.Score{}
	}
	return domain.ScoreOf(round(acc.weighted/acc.credits, precision))
}

// Aggregate builds one summary row per distinct student id, sorted by id.
// The roster must have passed Validate.
func (a *Aggregator) Aggregate(r *Roster) []domain.StudentSummaryRow {
	var semesters [domain.SemesterCount]map[string]*accumulator
	for i := range semesters {
		semesters[i] = make(map[string]*accumulator)
	}
	cumulative := make(map[string]*accumulator)

	// Distinct students in first-seen order. Each display field takes the
	// first non-blank value seen for the student.
	var order []string
	identity := make(map[string]*domain.GradeRecord)

	for _, rec := range r.Records {
		first, seen := identity[rec.StudentID]
		if !seen {
			first = &domain.GradeRecord{}
			identity[rec.StudentID] = first
			order = append(order, rec.StudentID)
			cumulative[rec.StudentID] = &accumulator{}
		}
		fillBlank(&first.InstitutionID, rec.InstitutionID)
		fillBlank(&first.StudentName, rec.StudentName)
		fillBlank(&first.BranchName, rec.BranchName)
		cumulative[rec.StudentID].add(rec)

		if sem, ok := semesterIndex(rec.Semester); ok {
			group := semesters[sem-1]
			acc, ok := group[rec.StudentID]
			if !ok {
				acc = &accumulator{}
				group[rec.StudentID] = acc
			}
			acc.add(rec)
		}
	}

	rows := make([]domain.StudentSummaryRow, 0, len(order))
	for _, id := range order {
		first := identity[id]
		row := domain.StudentSummaryRow{
			InstitutionID: first.InstitutionID,
			StudentID:     id,
			StudentName:   first.StudentName,
			BranchName:    first.BranchName,
			CGPA:          cumulative[id].average(a.precision),
		}
		for i := range semesters {
			row.SGPA[i] = semesters[i][id].average(a.precision)
		}
		rows = append(rows, row)
	}

	SortRows(rows)
	return rows
}

// Aggregate runs the default aggregator over r.
func Aggregate(r *Roster) []domain.StudentSummaryRow {
	return NewAggregator(DefaultOptions()).Aggregate(r)
}

func fillBlank(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// semesterIndex returns the 1-based semester when s is an integer in range.
func semesterIndex(s domain.Score) (int, bool) {
	if !s.Valid || s.Value != math.Trunc(s.Value) {
		return 0, false
	}
	if s.Value < 1 || s.Value > domain.SemesterCount {
		return 0, false
	}
	return int(s.Value), true
}

// round rounds half away from zero to the given number of decimal places.
func round(v float64, precision int) float64 {
	scale := math.Pow(10, float64(precision))
	return math.Round(v*scale) / scale
}

// SortRows orders rows by student id. When every id is an unsigned integer the
// order is numeric, otherwise it is lexicographic.
func SortRows(rows []domain.StudentSummaryRow) {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.StudentID
	}
	numeric := allNumeric(ids)
	sort.SliceStable(rows, func(i, j int) bool {
		return lessStudentID(rows[i].StudentID, rows[j].StudentID, numeric)
	})
}

func allNumeric(ids []string) bool {
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if _, err := strconv.ParseUint(id, 10, 64); err != nil {
			return false
		}
	}
	return true
}

func lessStudentID(a, b string, numeric bool) bool {
	if numeric {
		x, _ := strconv.ParseUint(a, 10, 64)
		y, _ := strconv.ParseUint(b, 10, 64)
		if x != y {
			return x < y
		}
	}
	return a < b
}
