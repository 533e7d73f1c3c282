// Package exporter writes SGPA/CGPA summary tables to files.
//
// ExcelExporter produces the primary output: a single-sheet workbook with
// every cell centered and columns sized to their longest value. CSVWriter
// produces the same columns as CSV with a UTF-8 BOM so Excel opens it with
// the right encoding.
//
// Example usage:
//
//	name := exporter.OutputFileName(time.Now(), "xlsx")
//	err := exporter.NewExcelExporter(logger).Export(filepath.Join(dir, name), rows, "715521YYYYYY")
package exporter
