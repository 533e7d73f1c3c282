package exporter

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// OutputFilePrefix starts every generated summary file name.
const OutputFilePrefix = "SGPA_CGPA_Output"

// outputTimestamp is the timestamp layout used in output file names.
const outputTimestamp = "2006-01-02_15-04-05"

// OutputFileName returns the timestamped name for a summary file with the given extension.
func OutputFileName(now time.Time, ext string) string {
	return fmt.Sprintf("%s_%s.%s", OutputFilePrefix, now.Format(outputTimestamp), ext)
}

// TaggedOutputFileName is OutputFileName with a tag between prefix and
// timestamp, used when several summaries land in one directory.
func TaggedOutputFileName(tag string, now time.Time, ext string) string {
	return fmt.Sprintf("%s_%s_%s.%s", OutputFilePrefix, tag, now.Format(outputTimestamp), ext)
}

// cellWidth is the column width needed to show text plus padding.
func cellWidth(text string) float64 {
	return float64(utf8.RuneCountInString(text) + 2)
}
