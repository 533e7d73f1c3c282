package gpa

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Success(t *testing.T) {
	r := roster(
		row{"7155", "1001", "Asha", "CSE", "1", "O", "3"},
		row{"7155", "1001", "Asha", "CSE", "2", "A", "3"},
		row{"7160", "2001", "Ravi", "ECE", "1", "B", "4"},
	)
	assert.NoError(t, Validate(r))
}

func TestValidate_SchemaError(t *testing.T) {
	tbl := Table{
		Header: []string{"INSTCODE", DefaultStudentIDColumn, "STUDNAME", "GRADE"},
		Rows:   [][]string{{"7155", "1001", "Asha", "O"}},
	}

	err := Validate(Decode(tbl, DefaultSchema()))

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"BRANNAME", "CURRSEMS", "Credits"}, schemaErr.Missing)
	assert.Contains(t, err.Error(), "BRANNAME, CURRSEMS, Credits")
}

func TestValidate_SchemaCheckedBeforeIdentity(t *testing.T) {
	tbl := Table{
		Header: []string{"INSTCODE", DefaultStudentIDColumn},
		Rows:   [][]string{{"A", "1"}, {"B", "1"}},
	}

	var schemaErr *SchemaError
	assert.ErrorAs(t, Validate(Decode(tbl, DefaultSchema())), &schemaErr)
}

func TestValidate_IdentityConflict(t *testing.T) {
	r := roster(
		row{"7155", "1001", "Asha", "CSE", "1", "O", "3"},
		row{"7160", "1001", "Asha", "CSE", "1", "A", "3"},
		row{"7155", "1001", "Asha", "CSE", "2", "A", "3"},
		row{"7160", "2001", "Ravi", "ECE", "1", "B", "4"},
	)

	err := Validate(r)

	var conflictErr *IdentityConflictError
	require.True(t, errors.As(err, &conflictErr))
	require.Len(t, conflictErr.Conflicts, 1)
	assert.Equal(t, "1001", conflictErr.Conflicts[0].StudentID)
	assert.ElementsMatch(t, []string{"7155", "7160"}, conflictErr.Conflicts[0].InstitutionIDs)
	assert.Equal(t, []string{"Roll No: 1001 found in INSTCODE(s): 7155, 7160"}, conflictErr.Lines())
}

func TestValidate_IdentityConflictsSorted(t *testing.T) {
	r := roster(
		row{"A", "30", "x", "b", "1", "O", "1"},
		row{"B", "30", "x", "b", "1", "O", "1"},
		row{"C", "30", "x", "b", "1", "O", "1"},
		row{"A", "4", "y", "b", "1", "O", "1"},
		row{"B", "4", "y", "b", "1", "O", "1"},
	)

	var conflictErr *IdentityConflictError
	require.ErrorAs(t, ValidateIdentity(r), &conflictErr)
	require.Len(t, conflictErr.Conflicts, 2)
	assert.Equal(t, "4", conflictErr.Conflicts[0].StudentID)
	assert.Equal(t, "30", conflictErr.Conflicts[1].StudentID)
	assert.Equal(t, []string{"A", "B", "C"}, conflictErr.Conflicts[1].InstitutionIDs)
}

func TestValidate_BlankInstitutionIgnored(t *testing.T) {
	r := roster(
		row{"7155", "1001", "Asha", "CSE", "1", "O", "3"},
		row{"", "1001", "Asha", "CSE", "2", "A", "3"},
	)
	assert.NoError(t, Validate(r))
}
