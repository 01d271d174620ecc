package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/audiolog/pkg/classifier"
	"github.com/ccollicutt/audiolog/pkg/parser"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <log-file>",
		Short: "Check a captured log before analysis",
		Long: `Check a captured log before analysis.

This command inspects the log file for common capture problems:
- File existence and accessibility
- Whole-file readability (including gzip decompression)
- Timestamp coverage (HH:MM:SS.mmm on content lines)
- Recognizable audio pipeline events

Findings are reported, not enforced: diagnose always exits 0 once
it runs, even when checks fail.

Example:
  audiolog diagnose capture.log
  audiolog diagnose -v capture.log  # show sample lines and counts`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnose(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(ctx context.Context, w io.Writer, logPath string, opts *DiagnoseOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	results := []DiagnosticResult{}

	result := checkLogFile(logPath)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(w, results, opts)
		return nil
	}

	stats, scanResult := scanLog(ctx, logPath)
	results = append(results, scanResult)
	if scanResult.Status != "error" {
		results = append(results, checkTimestamps(stats, opts))
		results = append(results, checkClassification(stats))
	}

	printDiagnostics(w, results, opts)
	return nil
}

func checkLogFile(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Log File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Log file not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
		}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access log file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}
	if info.Size() == 0 {
		result.Status = "warning"
		result.Message = "Log file is empty (0 bytes)"
		result.Suggests = []string{
			"Confirm the capture actually produced output",
		}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	if strings.HasSuffix(path, ".gz") {
		result.Details = []string{"Compressed input, checks run on the decompressed stream"}
	}
	return result
}

// scanStats accumulates per-line observations from a single read pass.
type scanStats struct {
	lines          int
	blank          int
	withTimestamp  int
	firstStamped   string
	firstUnstamped string
	counts         map[classifier.Category]int
}

// contentLines is the number of non-blank lines seen.
func (s *scanStats) contentLines() int {
	return s.lines - s.blank
}

func (s *scanStats) classified() int {
	total := 0
	for _, n := range s.counts {
		total += n
	}
	return total
}

// scanLog reads the whole file once, counting timestamps and event
// categories per line.
func scanLog(ctx context.Context, path string) (*scanStats, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Line Scan",
	}

	stats := &scanStats{
		counts: make(map[classifier.Category]int),
	}

	source := parser.NewFileSource(path)
	defer source.Close()

	for {
		line, err := source.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Status = "error"
			result.Message = fmt.Sprintf("Read failed after %d lines: %v", stats.lines, err)
			result.Suggests = []string{
				"If the file ends in .gz, confirm it is a complete gzip stream",
			}
			return stats, result
		}

		stats.lines++
		text := strings.TrimSpace(line.Content)
		if text == "" {
			stats.blank++
			continue
		}

		if _, ok := parser.ExtractTimestamp(text); ok {
			stats.withTimestamp++
			if stats.firstStamped == "" {
				stats.firstStamped = text
			}
		} else if stats.firstUnstamped == "" {
			stats.firstUnstamped = text
		}

		for _, cat := range classifier.Categories(text) {
			stats.counts[cat]++
		}
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Read %d lines (%d blank)", stats.lines, stats.blank)
	return stats, result
}

func checkTimestamps(stats *scanStats, opts *DiagnoseOptions) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Timestamps",
	}

	content := stats.contentLines()
	if content == 0 {
		result.Status = "warning"
		result.Message = "No content lines to check"
		return result
	}

	if stats.withTimestamp == 0 {
		result.Status = "warning"
		result.Message = "No HH:MM:SS.mmm timestamps found"
		result.Suggests = []string{
			"Timeline entries will show N/A instead of times",
			"Confirm the capture includes millisecond timestamps",
		}
		if stats.firstUnstamped != "" {
			result.Details = []string{
				"Sample line without a timestamp:",
				truncateLine(stats.firstUnstamped, 80),
			}
		}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found on %d/%d content lines", stats.withTimestamp, content)
	if opts.Verbose && stats.firstStamped != "" {
		result.Details = []string{
			"Sample stamped line:",
			truncateLine(stats.firstStamped, 80),
		}
	}
	return result
}

func checkClassification(stats *scanStats) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Classification",
	}

	if stats.classified() == 0 {
		result.Status = "warning"
		result.Message = "No recognizable audio pipeline events found"
		result.Suggests = []string{
			"Check this is a log from an audio stability run",
			"A clean run with no events still passes analysis",
		}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Matched %d category hits", stats.classified())
	result.Details = []string{
		fmt.Sprintf("Errors: %d", stats.counts[classifier.CategoryError]),
		fmt.Sprintf("Warnings: %d", stats.counts[classifier.CategoryWarning]),
		fmt.Sprintf("Buffer events: %d", stats.counts[classifier.CategoryBufferEvent]),
		fmt.Sprintf("Health samples: %d", stats.counts[classifier.CategoryBufferHealth]),
		fmt.Sprintf("Memory readings: %d", stats.counts[classifier.CategoryMemory]),
	}
	return result
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Fprintln(w, "=== AudioLog Capture Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		// Status icon
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	// Summary
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Fprintln(w, "\nFix the errors above before running analysis.")
	} else if warnCount > 0 {
		fmt.Fprintln(w, "\nThe log is usable but has warnings.")
	} else {
		fmt.Fprintln(w, "\nLog looks ready for analysis.")
	}
}

// truncateLine shortens sample lines for display. Device logs can carry
// multibyte text, so the cut counts runes rather than bytes.
func truncateLine(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
