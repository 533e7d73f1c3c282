// Package dataprocessing reads student grade rosters from disk or upload
// streams into raw gpa.Table values.
//
// Two encodings are supported:
//
//   - Excel workbooks (.xlsx, .xlsm), read from the first sheet with excelize
//   - CSV files, optionally prefixed with a UTF-8 BOM
//
// Legacy .xls workbooks are rejected with an explanatory error.
//
// # Usage
//
//	table, err := dataprocessing.ParseRosterFile(ctx, "results.xlsx")
//	if err != nil {
//	    return err
//	}
//	roster := gpa.Decode(table, gpa.DefaultSchema())
//
// Parsing never interprets cell values; numeric conversion and validation
// belong to the gpa package.
package dataprocessing
