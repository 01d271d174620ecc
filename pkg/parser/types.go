// Package parser provides log file reading and timestamp extraction.
package parser

// LogLine is a single raw line read from the log file.
type LogLine struct {
	// Content is the raw line text, before any trimming.
	Content string

	// LineNum is the 1-based line number in the source file.
	// Blank lines advance the counter like any other line.
	LineNum int
}
