package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// RosterHeader is the default roster header row.
var RosterHeader = []string{"INSTCODE", "715521YYYYYY", "STUDNAME", "BRANNAME", "CURRSEMS", "GRADE", "Credits"}

// SampleRoster returns a small valid roster: student 715521104001 takes an
// O (3 credits) and a B (2 credits) in semester 1 and an A+ in semester 2;
// student 715521104002 takes a single A in semester 1.
func SampleRoster() [][]string {
	return [][]string{
		{"7155", "715521104001", "ASHA", "CSE", "1", "O", "3"},
		{"7155", "715521104001", "ASHA", "CSE", "1", "B", "2"},
		{"7155", "715521104001", "ASHA", "CSE", "2", "A+", "4"},
		{"7155", "715521104002", "RAVI", "CSE", "1", "A", "3"},
	}
}

// ConflictingRoster returns a roster where one student id appears under two institutions.
func ConflictingRoster() [][]string {
	return [][]string{
		{"7155", "715521104001", "ASHA", "CSE", "1", "O", "3"},
		{"7156", "715521104001", "ASHA", "CSE", "2", "A", "3"},
	}
}

// WriteRosterXLSX writes header and rows to the first sheet of a new workbook
// in dir and returns its path.
func WriteRosterXLSX(t *testing.T, dir, name string, header []string, rows [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	all := append([][]string{header}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			t.Fatalf("set row %d: %v", i+1, err)
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

// WriteRosterCSV writes header and rows as CSV in dir and returns its path.
func WriteRosterCSV(t *testing.T, dir, name string, header []string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create csv: %v", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write rows: %v", err)
	}
	return path
}
