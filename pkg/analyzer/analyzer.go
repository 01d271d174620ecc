package analyzer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ccollicutt/audiolog/pkg/classifier"
	"github.com/ccollicutt/audiolog/pkg/parser"
)

// Analyzer scans a log source and categorizes every line.
type Analyzer struct {
	logFile string
}

// New creates an analyzer for the given log file path. The path is only
// recorded in the result; reading happens through the source passed to
// Analyze.
func New(logFile string) *Analyzer {
	return &Analyzer{logFile: logFile}
}

// Analyze reads the source to the end and returns the categorized
// events. The source is consumed in a single pass.
func (a *Analyzer) Analyze(ctx context.Context, source parser.Source) (*Result, error) {
	result := &Result{LogFile: a.logFile}

	for {
		line, err := source.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading log source: %w", err)
		}

		result.LinesRead++
		processLine(result, line)
	}

	return result, nil
}

// processLine appends the line to every bucket its categories name.
// A single line can land in several buckets at once.
func processLine(result *Result, line *parser.LogLine) {
	text := strings.TrimSpace(line.Content)
	if text == "" {
		return
	}

	timestamp, _ := parser.ExtractTimestamp(text)

	for _, category := range classifier.Categories(text) {
		switch category {
		case classifier.CategoryError:
			result.Errors = append(result.Errors, ErrorEvent{
				Line:      line.LineNum,
				Timestamp: timestamp,
				Message:   text,
				Type:      classifier.ClassifyError(text),
			})
		case classifier.CategoryBufferEvent:
			result.BufferEvents = append(result.BufferEvents, BufferEvent{
				Line:      line.LineNum,
				Timestamp: timestamp,
				Message:   text,
				Type:      classifier.ClassifyBufferEvent(text),
			})
		case classifier.CategoryWarning:
			result.Warnings = append(result.Warnings, Warning{
				Line:      line.LineNum,
				Timestamp: timestamp,
				Message:   text,
			})
		case classifier.CategoryBufferHealth:
			result.HealthSamples = append(result.HealthSamples, HealthSample{
				Line:      line.LineNum,
				Timestamp: timestamp,
				Message:   text,
			})
		case classifier.CategoryMemory:
			result.MemoryReadings = append(result.MemoryReadings, MemoryReading{
				Line:      line.LineNum,
				Timestamp: timestamp,
				Message:   text,
			})
		}
	}
}
