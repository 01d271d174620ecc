// Package analyzer extracts stability events from audio pipeline logs.
package analyzer

import (
	"sort"

	"github.com/ccollicutt/audiolog/pkg/classifier"
)

// ErrorEvent is a log line categorized as an error.
type ErrorEvent struct {
	// Line is the 1-based line number in the log file.
	Line int

	// Timestamp is the HH:MM:SS.mmm stamp, empty when the line has none.
	Timestamp string

	// Message is the trimmed line text.
	Message string

	// Type classifies the error source.
	Type classifier.ErrorType
}

// BufferEvent is an overflow or underrun occurrence.
type BufferEvent struct {
	Line      int
	Timestamp string
	Message   string

	// Type is overflow or underrun.
	Type classifier.BufferEventType
}

// Warning is a log line categorized as a warning.
type Warning struct {
	Line      int
	Timestamp string
	Message   string
}

// HealthSample is a buffer health status line.
type HealthSample struct {
	Line      int
	Timestamp string
	Message   string
}

// MemoryReading is a memory usage line carrying a KB or MB figure.
type MemoryReading struct {
	Line      int
	Timestamp string
	Message   string
}

// Result holds everything extracted from a single log file.
// All event slices preserve file order.
type Result struct {
	// LogFile is the path of the analyzed log.
	LogFile string

	// LinesRead is the total number of lines scanned, blanks included.
	LinesRead int

	Errors         []ErrorEvent
	BufferEvents   []BufferEvent
	Warnings       []Warning
	HealthSamples  []HealthSample
	MemoryReadings []MemoryReading
}

// Overflows returns the number of buffer overflow events.
func (r *Result) Overflows() int {
	count := 0
	for _, e := range r.BufferEvents {
		if e.Type == classifier.BufferOverflow {
			count++
		}
	}
	return count
}

// Underruns returns the number of buffer underrun events.
func (r *Result) Underruns() int {
	count := 0
	for _, e := range r.BufferEvents {
		if e.Type == classifier.BufferUnderrun {
			count++
		}
	}
	return count
}

// ErrorCount returns the number of errors of the given type.
func (r *Result) ErrorCount(t classifier.ErrorType) int {
	count := 0
	for _, e := range r.Errors {
		if e.Type == t {
			count++
		}
	}
	return count
}

// TypeCount pairs an error type with its occurrence count and the
// first error of that type seen in the file.
type TypeCount struct {
	Type    classifier.ErrorType
	Count   int
	Example ErrorEvent
}

// ErrorBreakdown returns per-type error counts, most frequent first.
// Types with equal counts keep the order they were first encountered.
func (r *Result) ErrorBreakdown() []TypeCount {
	index := make(map[classifier.ErrorType]int)
	var breakdown []TypeCount

	for _, e := range r.Errors {
		i, seen := index[e.Type]
		if !seen {
			index[e.Type] = len(breakdown)
			breakdown = append(breakdown, TypeCount{Type: e.Type, Example: e})
			i = len(breakdown) - 1
		}
		breakdown[i].Count++
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Count > breakdown[j].Count
	})

	return breakdown
}
