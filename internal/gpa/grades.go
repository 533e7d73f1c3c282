package gpa

import (
	"strings"

	"gpacalc/pkg/contracts/domain"
)

// gradePoints is the fixed letter grade scale.
var gradePoints = map[string]float64{
	"O":  10,
	"A+": 9,
	"A":  8,
	"B+": 7,
	"B":  6,
	"C":  5,
	"U":  0,
	"SA": 0,
	"WD": 0,
}

// GradeLetters returns the known letters from highest to lowest.
func GradeLetters() []string {
	return []string{"O", "A+", "A", "B+", "B", "C", "U", "SA", "WD"}
}

// NormalizeGrade trims and upper-cases a grade cell.
func NormalizeGrade(grade string) string {
	return strings.ToUpper(strings.TrimSpace(grade))
}

// Points maps a grade letter to its point value. Unknown letters yield an
// invalid score.
func Points(grade string) domain.Score {
	p, ok := gradePoints[NormalizeGrade(grade)]
	if !ok {
		return domain.Score{}
	}
	return domain.ScoreOf(p)
}
