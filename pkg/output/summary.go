package output

import (
	"fmt"
	"os"
	"strings"
)

// SummaryFileName is the summary written next to the analyzed log.
const SummaryFileName = "analysis-summary.txt"

// WriteSummary writes the short summary file for a report to path.
func WriteSummary(report *Report, path string) error {
	var b strings.Builder
	fmt.Fprintln(&b, "AUDIO LOG ANALYSIS SUMMARY")
	fmt.Fprintln(&b, strings.Repeat("=", reportWidth))
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Log file: %s\n", report.Metadata.LogFile)
	fmt.Fprintf(&b, "Analysis time: %s\n", report.Metadata.AnalyzedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Total errors: %d\n", report.Summary.TotalErrors)
	fmt.Fprintf(&b, "Total warnings: %d\n", report.Summary.TotalWarnings)
	fmt.Fprintf(&b, "Buffer overflows: %d\n", report.Summary.Overflows)
	fmt.Fprintf(&b, "Buffer underruns: %d\n", report.Summary.Underruns)
	fmt.Fprintln(&b)

	if summaryPass(report.Summary) {
		fmt.Fprintln(&b, "RESULT: PASS")
	} else {
		fmt.Fprintln(&b, "RESULT: FAIL")
	}

	// #nosec G306 - summary file doesn't need restrictive permissions
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	return nil
}

// summaryPass is the short-form verdict recorded only in the summary
// file. It is kept as its own computation, separate from Result.Assess:
// the file calls a run passed purely on zero errors and zero buffer
// events, and ignores warnings.
func summaryPass(s Summary) bool {
	return s.TotalErrors == 0 && s.BufferEvents == 0
}
