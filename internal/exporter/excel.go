package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"gpacalc/pkg/contracts/domain"
)

// SummarySheet is the sheet name used in exported workbooks.
const SummarySheet = "SGPA_CGPA"

// ExcelExporter writes summary rows to a styled workbook: every cell centered
// and every column sized to its longest value.
// Averages are written as numbers exactly as the aggregator rounded them.
type ExcelExporter struct {
	logger *slog.Logger
}

// NewExcelExporter creates a workbook exporter.
func NewExcelExporter(logger *slog.Logger) *ExcelExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelExporter{
		logger: logger.With(slog.String("component", "excel_exporter")),
	}
}

// Export writes the workbook to filePath, creating parent directories.
func (e *ExcelExporter) Export(filePath string, rows []domain.StudentSummaryRow, studentIDColumn string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := e.build(rows, studentIDColumn)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	e.logger.Info("Workbook exported",
		slog.String("path", filePath),
		slog.Int("rows", len(rows)))
	return nil
}

// WriteTo streams the workbook to w.
func (e *ExcelExporter) WriteTo(w io.Writer, rows []domain.StudentSummaryRow, studentIDColumn string) error {
	f, err := e.build(rows, studentIDColumn)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (e *ExcelExporter) build(rows []domain.StudentSummaryRow, studentIDColumn string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := domain.SummaryColumns(studentIDColumn)
	widths := make([]float64, len(header))

	headerCells := make([]interface{}, len(header))
	for i, h := range header {
		headerCells[i] = h
		widths[i] = cellWidth(h)
	}
	if err := f.SetSheetRow(SummarySheet, "A1", &headerCells); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for r, row := range rows {
		cells, texts := rowCells(row)
		for i, text := range texts {
			if text == "" {
				continue
			}
			if w := cellWidth(text); w > widths[i] {
				widths[i] = w
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &cells); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", r+2, err)
		}
	}

	if err := e.style(f, len(header), len(rows)+1, widths); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// rowCells returns the values written to the sheet and their display text.
// Averages are numeric cells; absent averages are the no-data marker.
func rowCells(row domain.StudentSummaryRow) ([]interface{}, []string) {
	texts := []string{row.InstitutionID, row.StudentID, row.StudentName, row.BranchName}
	scores := make([]domain.Score, 0, domain.SemesterCount+1)
	scores = append(scores, row.SGPA[:]...)
	scores = append(scores, row.CGPA)
	for _, s := range scores {
		texts = append(texts, s.String())
	}

	cells := make([]interface{}, len(texts))
	for i, t := range texts {
		cells[i] = t
	}
	for i, s := range scores {
		if s.Valid {
			cells[4+i] = s.Value
		}
	}
	return cells, texts
}

func (e *ExcelExporter) style(f *excelize.File, cols, rows int, widths []float64) error {
	centered, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	last, err := excelize.CoordinatesToCellName(cols, rows)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", last, centered); err != nil {
		return fmt.Errorf("failed to apply alignment: %w", err)
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SummarySheet, col, col, w); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", col, err)
		}
	}
	return nil
}
