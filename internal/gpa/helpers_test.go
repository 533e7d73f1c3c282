package gpa

// row is a compact roster row used by tests: inst, id, name, branch, sem, grade, credits.
type row [7]string

func header() []string {
	return []string{"INSTCODE", DefaultStudentIDColumn, "STUDNAME", "BRANNAME", "CURRSEMS", "GRADE", "Credits"}
}

func table(rows ...row) Table {
	t := Table{Header: header()}
	for _, r := range rows {
		t.Rows = append(t.Rows, r[:])
	}
	return t
}

func roster(rows ...row) *Roster {
	return Decode(table(rows...), DefaultSchema())
}
