package dataprocessing

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"gpacalc/internal/gpa"
)

// Format identifies a roster file encoding.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// utf8BOM is stripped from CSV input written by Excel.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectFormat maps a file name to its roster format.
func DetectFormat(name string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	case ".xls":
		return "", fmt.Errorf("legacy .xls workbooks are not supported, save %s as .xlsx", filepath.Base(name))
	default:
		return "", fmt.Errorf("unsupported roster file extension %q", ext)
	}
}

// ParseRosterFile reads a roster workbook or CSV file into a raw table.
// Workbooks are read from their first sheet.
func ParseRosterFile(ctx context.Context, filePath string) (gpa.Table, error) {
	format, err := DetectFormat(filePath)
	if err != nil {
		return gpa.Table{}, err
	}

	f, err := os.Open(filePath)
	if err != nil {
		return gpa.Table{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return ParseRoster(ctx, f, format)
}

// ParseRoster reads a roster from r in the given format.
func ParseRoster(ctx context.Context, r io.Reader, format Format) (gpa.Table, error) {
	var (
		rows [][]string
		err  error
	)
	switch format {
	case FormatXLSX:
		rows, err = readWorkbook(r)
	case FormatCSV:
		rows, err = readCSV(r)
	default:
		return gpa.Table{}, fmt.Errorf("unsupported roster format %q", format)
	}
	if err != nil {
		return gpa.Table{}, err
	}

	// Leading blank rows are common in hand-edited sheets.
	for len(rows) > 0 && isBlank(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return gpa.Table{}, fmt.Errorf("roster has no header row")
	}

	t := gpa.Table{Header: rows[0], Rows: padRows(rows[1:], len(rows[0]))}

	slog.DebugContext(ctx, "Roster parsed",
		slog.String("format", string(format)),
		slog.Int("columns", len(t.Header)),
		slog.Int("rows", len(t.Rows)))

	return t, nil
}

func readWorkbook(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	// Raw values keep long numeric roll numbers intact instead of applying
	// the cell's display format.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return rows, nil
}

// padRows extends short rows to width; excelize drops trailing empty cells.
func padRows(rows [][]string, width int) [][]string {
	for i, row := range rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			rows[i] = padded
		}
	}
	return rows
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
