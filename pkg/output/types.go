// Package output provides formatting and output generation for analysis results.
package output

import (
	"time"

	"github.com/ccollicutt/audiolog/pkg/analyzer"
)

// Report is the complete analysis output.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary

	// Verdict is the pass/fail assessment.
	Verdict analyzer.Verdict

	// Result carries the full categorized event lists.
	Result *analyzer.Result

	// Metadata provides context about the analysis.
	Metadata Metadata
}

// Summary provides aggregate statistics.
type Summary struct {
	// TotalErrors is the number of error lines.
	TotalErrors int

	// TotalWarnings is the number of warning lines.
	TotalWarnings int

	// BufferEvents is the number of overflow and underrun lines combined.
	BufferEvents int

	// Overflows is the number of buffer overflow lines.
	Overflows int

	// Underruns is the number of buffer underrun lines.
	Underruns int

	// HealthSamples is the number of buffer health lines.
	HealthSamples int

	// MemoryReadings is the number of memory usage lines.
	MemoryReadings int

	// LinesRead is the total number of lines scanned.
	LinesRead int
}

// Metadata provides context about the analysis run.
type Metadata struct {
	// LogFile is the path of the analyzed log.
	LogFile string

	// AnalyzedAt is when the analysis was performed.
	AnalyzedAt time.Time
}

// NewReport creates a Report from an analysis result.
func NewReport(result *analyzer.Result) *Report {
	return &Report{
		Summary: Summary{
			TotalErrors:    len(result.Errors),
			TotalWarnings:  len(result.Warnings),
			BufferEvents:   len(result.BufferEvents),
			Overflows:      result.Overflows(),
			Underruns:      result.Underruns(),
			HealthSamples:  len(result.HealthSamples),
			MemoryReadings: len(result.MemoryReadings),
			LinesRead:      result.LinesRead,
		},
		Verdict: result.Assess(),
		Result:  result,
		Metadata: Metadata{
			LogFile:    result.LogFile,
			AnalyzedAt: time.Now(),
		},
	}
}
