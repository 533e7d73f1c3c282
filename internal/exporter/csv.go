package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gpacalc/pkg/contracts/domain"
)

// utf8BOM lets Excel detect UTF-8 when opening the CSV directly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	outputDir string
}

// NewCSVWriter creates a CSV writer that resolves relative paths against outputDir
func NewCSVWriter(outputDir string) *CSVWriter {
	return &CSVWriter{outputDir: outputDir}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	slog.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteSummaries writes summary rows with the fixed output header.
func (w *CSVWriter) WriteSummaries(filePath string, rows []domain.StudentSummaryRow, studentIDColumn string, precision int) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   domain.SummaryColumns(studentIDColumn),
		Records:   SummaryRecords(rows, precision),
		BOMPrefix: true,
	})
}

// StreamSummaries writes the same CSV as WriteSummaries to out.
func StreamSummaries(out io.Writer, rows []domain.StudentSummaryRow, studentIDColumn string, precision int) error {
	if _, err := out.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(out)
	if err := writer.Write(domain.SummaryColumns(studentIDColumn)); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	if err := writer.WriteAll(SummaryRecords(rows, precision)); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	return nil
}

// SummaryRecords flattens summary rows into CSV records.
func SummaryRecords(rows []domain.StudentSummaryRow, precision int) [][]string {
	records := make([][]string, len(rows))
	for i, row := range rows {
		records[i] = row.Cells(precision)
	}
	return records
}

// resolvePath places relative paths under the output directory.
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.outputDir == "" {
		return filePath
	}
	return filepath.Join(w.outputDir, filePath)
}
