package output

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ccollicutt/audiolog/pkg/classifier"
)

// reportWidth is the banner and divider width.
const reportWidth = 70

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	status := "PASS"
	if !report.Verdict.Pass {
		status = "FAIL"
	}
	fmt.Fprintf(w, "RESULT: %s (%d errors, %d warnings, %d buffer events)\n",
		status,
		report.Summary.TotalErrors,
		report.Summary.TotalWarnings,
		report.Summary.BufferEvents)
	return nil
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	banner := strings.Repeat("=", reportWidth)

	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, "AUDIO LOG ANALYSIS REPORT")
	fmt.Fprintln(w, banner)
	fmt.Fprintf(w, "Log file: %s\n", report.Metadata.LogFile)
	fmt.Fprintf(w, "Analysis time: %s\n", report.Metadata.AnalyzedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(w)

	f.printSummary(report, w)
	f.printCriticalIssues(report, w)
	f.printBufferAnalysis(report, w)
	f.printMemoryAnalysis(report, w)
	f.printErrorBreakdown(report, w)
	f.printTimeline(report, w)
	f.printPassFail(report, w)

	return nil
}

func (f *TextFormatter) printSummary(report *Report, w io.Writer) {
	s := report.Summary

	fmt.Fprintln(w, "SUMMARY STATISTICS")
	fmt.Fprintln(w, strings.Repeat("-", reportWidth))
	fmt.Fprintf(w, "Total errors:     %d\n", s.TotalErrors)
	fmt.Fprintf(w, "Total warnings:   %d\n", s.TotalWarnings)
	fmt.Fprintf(w, "Buffer events:    %d\n", s.BufferEvents)
	fmt.Fprintf(w, "  - Overflows:    %d\n", s.Overflows)
	fmt.Fprintf(w, "  - Underruns:    %d\n", s.Underruns)
	fmt.Fprintf(w, "Buffer stats:     %d samples\n", s.HealthSamples)
	fmt.Fprintf(w, "Memory readings:  %d samples\n", s.MemoryReadings)
	fmt.Fprintln(w)
}

func (f *TextFormatter) printCriticalIssues(report *Report, w io.Writer) {
	result := report.Result
	var critical []string

	if n := result.ErrorCount(classifier.ErrorTypeMediaCodec); n > 0 {
		critical = append(critical, fmt.Sprintf("MediaCodec errors detected: %d", n))
	}
	if n := report.Summary.Overflows; n > 0 {
		critical = append(critical, fmt.Sprintf("Buffer overflows detected: %d", n))
	}
	if n := report.Summary.Underruns; n > 0 {
		critical = append(critical, fmt.Sprintf("Buffer underruns detected: %d", n))
	}
	if n := result.ErrorCount(classifier.ErrorTypeAudioRecord); n > 0 {
		critical = append(critical, fmt.Sprintf("AudioRecord failures detected: %d", n))
	}

	fmt.Fprintln(w, "CRITICAL ISSUES")
	fmt.Fprintln(w, strings.Repeat("-", reportWidth))
	if len(critical) > 0 {
		for _, issue := range critical {
			fmt.Fprintf(w, "  ✗ %s\n", issue)
		}
	} else {
		fmt.Fprintln(w, "  ✓ No critical issues found")
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) printBufferAnalysis(report *Report, w io.Writer) {
	fmt.Fprintln(w, "BUFFER HEALTH ANALYSIS")
	fmt.Fprintln(w, strings.Repeat("-", reportWidth))

	samples := report.Result.HealthSamples
	if len(samples) == 0 {
		fmt.Fprintln(w, "  No buffer health statistics found in logs")
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "Total buffer health samples: %d\n", len(samples))
	fmt.Fprintln(w)

	first := samples
	if len(first) > 5 {
		first = first[:5]
	}
	fmt.Fprintln(w, "First 5 samples:")
	for _, s := range first {
		fmt.Fprintf(w, "  [%s] %s\n", orNA(s.Timestamp), truncate(s.Message, 80))
	}
	fmt.Fprintln(w)

	last := samples
	if len(last) > 5 {
		last = last[len(last)-5:]
	}
	fmt.Fprintln(w, "Last 5 samples:")
	for _, s := range last {
		fmt.Fprintf(w, "  [%s] %s\n", orNA(s.Timestamp), truncate(s.Message, 80))
	}

	if trend, ok := report.Result.HealthTrend(); ok {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Health trend (%d samples):\n", trend.Samples)
		fmt.Fprintf(w, "  Min/Mean/Max: %.1f%% / %.1f%% / %.1f%%\n", trend.Min, trend.Mean, trend.Max)
		fmt.Fprintf(w, "  Slope: %+.2f%% per sample (%s)\n", trend.Slope, healthLabel(trend.Slope))
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) printMemoryAnalysis(report *Report, w io.Writer) {
	fmt.Fprintln(w, "MEMORY ANALYSIS")
	fmt.Fprintln(w, strings.Repeat("-", reportWidth))

	trend, ok := report.Result.MemoryTrend()
	if !ok {
		fmt.Fprintln(w, "  No memory figures found in logs")
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "Memory readings with figures: %d\n", trend.Readings)
	fmt.Fprintf(w, "  First/Peak/Last: %.1f MB / %.1f MB / %.1f MB\n", trend.First, trend.Peak, trend.Last)
	if trend.Readings > 1 {
		fmt.Fprintf(w, "  Growth: %+.1f MB (%+.2f MB per reading)\n", trend.Growth, trend.Slope)
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) printErrorBreakdown(report *Report, w io.Writer) {
	fmt.Fprintln(w, "ERROR BREAKDOWN BY TYPE")
	fmt.Fprintln(w, strings.Repeat("-", reportWidth))

	breakdown := report.Result.ErrorBreakdown()
	if len(breakdown) == 0 {
		fmt.Fprintln(w, "  ✓ No errors found")
		fmt.Fprintln(w)
		return
	}

	for _, tc := range breakdown {
		fmt.Fprintf(w, "  %s: %d\n", tc.Type, tc.Count)
		fmt.Fprintf(w, "    Example (line %d): %s\n", tc.Example.Line, truncate(tc.Example.Message, 70))
	}
	fmt.Fprintln(w)
}

// timelineEvent is one merged entry for the event timeline.
type timelineEvent struct {
	timestamp string
	line      int
	kind      string
	subtype   string
	message   string
}

func (f *TextFormatter) printTimeline(report *Report, w io.Writer) {
	fmt.Fprintln(w, "EVENT TIMELINE")
	fmt.Fprintln(w, strings.Repeat("-", reportWidth))

	var events []timelineEvent

	errors := report.Result.Errors
	if len(errors) > 10 {
		errors = errors[:10]
	}
	for _, e := range errors {
		events = append(events, timelineEvent{e.Timestamp, e.Line, "ERROR", string(e.Type), e.Message})
	}

	buffers := report.Result.BufferEvents
	if len(buffers) > 10 {
		buffers = buffers[:10]
	}
	for _, e := range buffers {
		events = append(events, timelineEvent{e.Timestamp, e.Line, "BUFFER", string(e.Type), e.Message})
	}

	// Stable keeps errors ahead of buffer events on equal line numbers.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].line < events[j].line
	})

	if len(events) == 0 {
		fmt.Fprintln(w, "  ✓ No significant events to report")
		fmt.Fprintln(w)
		return
	}

	shown := events
	if len(shown) > 15 {
		shown = shown[:15]
	}
	for _, e := range shown {
		fmt.Fprintf(w, "  [%s] %s(%s): %s\n", orNA(e.timestamp), e.kind, e.subtype, truncate(e.message, 60))
	}
	if len(events) > 15 {
		fmt.Fprintf(w, "  ... and %d more events\n", len(events)-15)
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) printPassFail(report *Report, w io.Writer) {
	banner := strings.Repeat("=", reportWidth)

	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, "PASS/FAIL ASSESSMENT")
	fmt.Fprintln(w, banner)

	if !report.Verdict.Pass {
		fmt.Fprintln(w, "RESULT: FAIL")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Failure reasons:")
		for _, reason := range report.Verdict.Reasons {
			fmt.Fprintf(w, "  ✗ %s\n", reason)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Action required: Investigate and fix issues before proceeding to next test")
		return
	}

	fmt.Fprintln(w, "RESULT: PASS")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "All checks passed:")
	fmt.Fprintln(w, "  ✓ No errors detected")
	fmt.Fprintln(w, "  ✓ No buffer overflows")
	fmt.Fprintln(w, "  ✓ No buffer underruns")
	fmt.Fprintln(w, "  ✓ No MediaCodec errors")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Action: Proceed to the next stability test stage")
}

// healthLabel names the direction of a buffer health slope. Within half
// a percentage point per sample the trend is called stable.
func healthLabel(slope float64) string {
	switch {
	case slope > 0.5:
		return "improving"
	case slope < -0.5:
		return "degrading"
	default:
		return "stable"
	}
}

// orNA substitutes the placeholder for lines without a timestamp.
func orNA(timestamp string) string {
	if timestamp == "" {
		return "N/A"
	}
	return timestamp
}

// truncate limits s to max characters. Device logs can carry multibyte
// text, so the cut counts runes rather than bytes.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
