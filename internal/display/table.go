// Package display renders SGPA/CGPA results and roster errors in a terminal.
package display

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"gpacalc/internal/gpa"
	"gpacalc/pkg/contracts/domain"
)

// TableRenderer writes summary tables and messages to an output stream.
type TableRenderer struct {
	out       io.Writer
	precision int

	title   *color.Color
	success *color.Color
	warn    *color.Color
	fail    *color.Color
}

// NewTableRenderer creates a renderer. A nil writer means os.Stdout.
func NewTableRenderer(out io.Writer, precision int) *TableRenderer {
	if out == nil {
		out = os.Stdout
	}
	return &TableRenderer{
		out:       out,
		precision: precision,
		title:     color.New(color.FgCyan, color.Bold),
		success:   color.New(color.FgGreen),
		warn:      color.New(color.FgYellow),
		fail:      color.New(color.FgRed, color.Bold),
	}
}

// Render prints the summary rows with every column centered.
func (r *TableRenderer) Render(rows []domain.StudentSummaryRow, studentIDColumn string) {
	r.title.Fprintf(r.out, "\nSGPA & CGPA Summary (%d students)\n", len(rows))

	table := tablewriter.NewWriter(r.out)
	table.SetHeader(domain.SummaryColumns(studentIDColumn))
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)

	for _, row := range rows {
		table.Append(row.Cells(r.precision))
	}
	table.Render()
}

// RenderWarnings lists non-fatal roster warnings.
func (r *TableRenderer) RenderWarnings(warnings []gpa.Warning) {
	if len(warnings) == 0 {
		return
	}
	r.warn.Fprintf(r.out, "\n%d roster warning(s):\n", len(warnings))
	for _, w := range warnings {
		fmt.Fprintf(r.out, "  %s\n", w)
	}
}

// RenderError prints a terminal error. Schema and identity errors get their
// full listing; anything else is shown as a single message.
func (r *TableRenderer) RenderError(err error) {
	var schemaErr *gpa.SchemaError
	var conflictErr *gpa.IdentityConflictError

	switch {
	case errors.As(err, &conflictErr):
		r.fail.Fprintln(r.out, "\nCross-INSTCODE Duplicate Error")
		fmt.Fprintln(r.out, "The following roll numbers appear in more than one INSTCODE:")
		fmt.Fprintln(r.out)
		for _, line := range conflictErr.Lines() {
			r.fail.Fprintln(r.out, line)
		}
	case errors.As(err, &schemaErr):
		r.fail.Fprintln(r.out, "\nMissing Columns")
		fmt.Fprintf(r.out, "Roster must have columns: %s\n", strings.Join(schemaErr.Required, ", "))
		r.fail.Fprintf(r.out, "Missing: %s\n", strings.Join(schemaErr.Missing, ", "))
	default:
		r.fail.Fprintf(r.out, "\nError: %v\n", err)
	}
}

// RenderHeading prints a section title, used to separate rosters in a batch.
func (r *TableRenderer) RenderHeading(text string) {
	r.title.Fprintf(r.out, "\n== %s ==\n", text)
}

// RenderSaved confirms where output files were written.
func (r *TableRenderer) RenderSaved(paths ...string) {
	r.success.Fprintln(r.out, "\nSGPA & CGPA calculated!")
	for _, p := range paths {
		fmt.Fprintf(r.out, "Saved to: %s\n", p)
	}
}
