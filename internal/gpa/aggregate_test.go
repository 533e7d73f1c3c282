package gpa

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gpacalc/pkg/contracts/domain"
)

func TestAggregate_WeightedAverage(t *testing.T) {
	r := roster(
		row{"7155", "1001", "Asha", "CSE", "1", "O", "3"},
		row{"7155", "1001", "Asha", "CSE", "1", "B", "2"},
	)
	require.NoError(t, Validate(r))

	rows := Aggregate(r)

	require.Len(t, rows, 1)
	// (3*10 + 2*6) / 5
	assert.Equal(t, domain.ScoreOf(8.4), rows[0].SGPA[0])
	assert.Equal(t, domain.ScoreOf(8.4), rows[0].CGPA)
}

func TestAggregate_ZeroCreditsIsNoData(t *testing.T) {
	r := roster(
		row{"7155", "1001", "Asha", "CSE", "1", "O", "0"},
		row{"7155", "1001", "Asha", "CSE", "1", "A", "0"},
		row{"7155", "1001", "Asha", "CSE", "2", "A", "4"},
	)

	rows := Aggregate(r)

	require.Len(t, rows, 1)
	assert.False(t, rows[0].SGPA[0].Valid)
	assert.Equal(t, domain.ScoreOf(8), rows[0].SGPA[1])
	assert.Equal(t, domain.ScoreOf(8), rows[0].CGPA)
}

func TestAggregate_AllZeroCreditsCGPAIsNoData(t *testing.T) {
	rows := Aggregate(roster(row{"7155", "1001", "Asha", "CSE", "1", "O", "0"}))

	require.Len(t, rows, 1)
	assert.False(t, rows[0].CGPA.Valid)
	assert.Equal(t, domain.NoData, rows[0].CGPA.String())
}

func TestAggregate_MissingSemester(t *testing.T) {
	var rs []row
	for sem := 1; sem <= 6; sem++ {
		if sem == 5 {
			continue
		}
		rs = append(rs, row{"7155", "1001", "Asha", "CSE", fmt.Sprint(sem), "A", "3"})
	}

	rows := Aggregate(roster(rs...))

	require.Len(t, rows, 1)
	for i, s := range rows[0].SGPA {
		sem := i + 1
		switch {
		case sem == 5 || sem > 6:
			assert.False(t, s.Valid, "SEM%d should be no data", sem)
		default:
			assert.Equal(t, domain.ScoreOf(8), s, "SEM%d", sem)
		}
	}
}

func TestAggregate_CumulativeSpansAllSemesters(t *testing.T) {
	r := roster(
		row{"7155", "1001", "Asha", "CSE", "1", "O", "4"},
		row{"7155", "1001", "Asha", "CSE", "2", "C", "0"},
		row{"7155", "1001", "Asha", "CSE", "3", "B", "2"},
		row{"7155", "1001", "Asha", "CSE", "11", "A", "2"},
		row{"7155", "1001", "Asha", "CSE", "n/a", "U", "2"},
	)

	rows := Aggregate(r)

	require.Len(t, rows, 1)
	got := rows[0]
	assert.Equal(t, domain.ScoreOf(10), got.SGPA[0])
	assert.False(t, got.SGPA[1].Valid)
	assert.Equal(t, domain.ScoreOf(6), got.SGPA[2])
	// (4*10 + 0*5 + 2*6 + 2*8 + 2*0) / 10
	assert.Equal(t, domain.ScoreOf(6.8), got.CGPA)
}

func TestAggregate_UnknownValuesExcluded(t *testing.T) {
	r := roster(
		row{"7155", "1001", "Asha", "CSE", "1", "A", "3"},
		row{"7155", "1001", "Asha", "CSE", "1", "F", "3"},
		row{"7155", "1001", "Asha", "CSE", "1", "O", "abc"},
	)

	rows := Aggregate(r)

	require.Len(t, rows, 1)
	assert.Equal(t, domain.ScoreOf(8), rows[0].SGPA[0])
	assert.Equal(t, domain.ScoreOf(8), rows[0].CGPA)
	assert.Len(t, r.Warnings, 2)
}

func TestAggregate_Rounding(t *testing.T) {
	r := roster(
		row{"7155", "1001", "Asha", "CSE", "1", "O", "1"},
		row{"7155", "1001", "Asha", "CSE", "1", "A", "1"},
		row{"7155", "1001", "Asha", "CSE", "1", "A", "1"},
	)

	tests := []struct {
		precision int
		want      float64
	}{
		{0, 9},
		{1, 8.7},
		{2, 8.67},
		{3, 8.667},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("precision_%d", tt.precision), func(t *testing.T) {
			rows := NewAggregator(Options{Precision: tt.precision}).Aggregate(r)
			require.Len(t, rows, 1)
			assert.Equal(t, tt.want, rows[0].SGPA[0].Value)
			assert.Equal(t, tt.want, rows[0].CGPA.Value)
		})
	}
}

func TestNewAggregator_ClampsPrecision(t *testing.T) {
	assert.Equal(t, 0, NewAggregator(Options{Precision: -3}).Precision())
	assert.Equal(t, MaxPrecision, NewAggregator(Options{Precision: 42}).Precision())
	assert.Equal(t, DefaultPrecision, NewAggregator(DefaultOptions()).Precision())
}

func TestAggregate_CompletenessAndOrdering(t *testing.T) {
	r := roster(
		row{"7155", "300", "C", "CSE", "1", "A", "3"},
		row{"7155", "20", "B", "CSE", "1", "A", "3"},
		row{"7155", "1000", "D", "CSE", "1", "A", "3"},
		row{"7155", "20", "B", "CSE", "2", "O", "3"},
		row{"7155", "5", "A", "CSE", "1", "A", "3"},
	)

	rows := Aggregate(r)

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.StudentID
	}
	assert.Equal(t, []string{"5", "20", "300", "1000"}, ids)
}

func TestAggregate_LexicographicOrderingForMixedIDs(t *testing.T) {
	r := roster(
		row{"7155", "B10", "x", "CSE", "1", "A", "3"},
		row{"7155", "A2", "y", "CSE", "1", "A", "3"},
		row{"7155", "10", "z", "CSE", "1", "A", "3"},
		row{"7155", "9", "w", "CSE", "1", "A", "3"},
	)

	rows := Aggregate(r)

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.StudentID
	}
	assert.Equal(t, []string{"10", "9", "A2", "B10"}, ids)
}

func TestAggregate_FirstOccurrenceDisplayFields(t *testing.T) {
	r := roster(
		row{"7155", "1001", "Asha K", "CSE", "1", "A", "3"},
		row{"7155", "1001", "Asha Kumar", "CSE (AI)", "2", "A", "3"},
	)

	rows := Aggregate(r)

	require.Len(t, rows, 1)
	assert.Equal(t, "Asha K", rows[0].StudentName)
	assert.Equal(t, "CSE", rows[0].BranchName)
	assert.Equal(t, "7155", rows[0].InstitutionID)
}

func TestAggregate_DisplayFieldsSkipBlanks(t *testing.T) {
	r := roster(
		row{"", "10", "", "CSE", "1", "O", "3"},
		row{"7155", "10", "Asha", "ECE", "2.0", "B", "2"},
	)
	require.NoError(t, Validate(r))

	rows := Aggregate(r)

	require.Len(t, rows, 1)
	assert.Equal(t, "7155", rows[0].InstitutionID)
	assert.Equal(t, "Asha", rows[0].StudentName)
	assert.Equal(t, "CSE", rows[0].BranchName)
	assert.Equal(t, domain.ScoreOf(8.4), rows[0].CGPA)
}

func TestAggregate_Idempotent(t *testing.T) {
	r := roster(
		row{"7155", "1001", "Asha", "CSE", "1", "O", "3"},
		row{"7155", "1001", "Asha", "CSE", "2", "B+", "4"},
		row{"7160", "2001", "Ravi", "ECE", "1", "C", "2"},
		row{"7160", "2001", "Ravi", "ECE", "3", "bogus", "2"},
	)
	agg := NewAggregator(DefaultOptions())

	first, err := json.Marshal(agg.Aggregate(r))
	require.NoError(t, err)
	second, err := json.Marshal(agg.Aggregate(r))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAggregate_EmptyRoster(t *testing.T) {
	rows := Aggregate(roster())
	assert.Empty(t, rows)
}

func TestAggregate_MultipleStudents(t *testing.T) {
	r := roster(
		row{"7155", "1001", "Asha", "CSE", "1", "O", "3"},
		row{"7160", "2001", "Ravi", "ECE", "1", "C", "2"},
		row{"7160", "2001", "Ravi", "ECE", "1", "B", "2"},
		row{"7155", "1001", "Asha", "CSE", "2", "U", "3"},
	)

	rows := Aggregate(r)

	require.Len(t, rows, 2)
	asha, ravi := rows[0], rows[1]
	assert.Equal(t, "1001", asha.StudentID)
	assert.Equal(t, domain.ScoreOf(10), asha.SGPA[0])
	assert.Equal(t, domain.ScoreOf(0), asha.SGPA[1])
	assert.Equal(t, domain.ScoreOf(5), asha.CGPA)
	assert.Equal(t, domain.ScoreOf(5.5), ravi.SGPA[0])
	assert.False(t, ravi.SGPA[1].Valid)
	assert.Equal(t, domain.ScoreOf(5.5), ravi.CGPA)
}
