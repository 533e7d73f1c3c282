// Package gpa computes semester (SGPA) and cumulative (CGPA) grade point
// averages from a flat roster of grade records.
//
// The package is the computational core of gpacalc. It has no I/O of its own:
// rosters arrive as a raw Table (header plus string cells) produced by the
// dataprocessing package, and summary rows are handed back to the exporter
// and display packages.
//
// # Data Flow
//
//	Table → Decode → Roster → Validate → Aggregate → []domain.StudentSummaryRow
//
// Validate must succeed before Aggregate is called. A roster in which one
// student id is claimed by more than one institution cannot be aggregated.
//
// # Grade Points
//
//	O=10  A+=9  A=8  B+=7  B=6  C=5  U=0  SA=0  WD=0
//
// Unknown letters and unparseable credit values make a record "unknown": it is
// left out of both the weighted sum and the credit total, and a warning is
// attached to the roster.
//
// # Usage
//
//	roster := gpa.Decode(table, gpa.DefaultSchema())
//	if err := gpa.Validate(roster); err != nil {
//	    return err
//	}
//	rows := gpa.NewAggregator(gpa.DefaultOptions()).Aggregate(roster)
package gpa
