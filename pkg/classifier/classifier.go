// Package classifier categorizes audio stability log lines.
//
// All checks are case-insensitive substring matches against the raw line.
// Category membership tests are independent: one line may belong to several
// categories at once. Subtype classification (error type, buffer event type)
// walks an ordered rule table and the first matching rule wins.
package classifier

import "strings"

// Category identifies the kind of event a log line reports.
type Category string

const (
	// CategoryError marks lines reporting an error or failure.
	CategoryError Category = "error"

	// CategoryWarning marks lines carrying a warning.
	CategoryWarning Category = "warning"

	// CategoryBufferEvent marks buffer overflow/underrun lines.
	CategoryBufferEvent Category = "buffer_event"

	// CategoryBufferHealth marks periodic buffer health samples.
	CategoryBufferHealth Category = "buffer_health"

	// CategoryMemory marks memory usage readings (KB/MB figures).
	CategoryMemory Category = "memory"
)

// ErrorType names the subsystem an error line points at.
type ErrorType string

const (
	ErrorTypeMediaCodec  ErrorType = "MediaCodec"
	ErrorTypeAudioRecord ErrorType = "AudioRecord"
	ErrorTypeBuffer      ErrorType = "Buffer"
	ErrorTypeEncoder     ErrorType = "Encoder"
	ErrorTypeUnknown     ErrorType = "Unknown"
)

// BufferEventType distinguishes the two buffer event directions.
type BufferEventType string

const (
	BufferOverflow BufferEventType = "overflow"
	BufferUnderrun BufferEventType = "underrun"
)

// errorRules is the subtype classification chain for error lines.
// Order matters: the first keyword found decides the type, so a line
// mentioning both MediaCodec and a buffer is a MediaCodec error.
var errorRules = []struct {
	keyword string
	typ     ErrorType
}{
	{"mediacodec", ErrorTypeMediaCodec},
	{"audiorecord", ErrorTypeAudioRecord},
	{"buffer", ErrorTypeBuffer},
	{"encoder", ErrorTypeEncoder},
}

// Categories returns every category the line belongs to.
// The result keeps a fixed order (error, buffer event, warning, buffer
// health, memory) so callers appending events stay deterministic.
func Categories(line string) []Category {
	lower := strings.ToLower(line)

	var cats []Category
	if isError(lower) {
		cats = append(cats, CategoryError)
	}
	if isBufferEvent(lower) {
		cats = append(cats, CategoryBufferEvent)
	}
	if isWarning(lower) {
		cats = append(cats, CategoryWarning)
	}
	if isBufferHealth(lower) {
		cats = append(cats, CategoryBufferHealth)
	}
	if isMemoryReading(lower) {
		cats = append(cats, CategoryMemory)
	}
	return cats
}

// ClassifyError determines the error subtype for a line already known to be
// an error. Lines matching none of the subsystem keywords are Unknown.
func ClassifyError(line string) ErrorType {
	lower := strings.ToLower(line)
	for _, rule := range errorRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.typ
		}
	}
	return ErrorTypeUnknown
}

// ClassifyBufferEvent determines the buffer event direction. Overflow takes
// priority when a line mentions both.
func ClassifyBufferEvent(line string) BufferEventType {
	if strings.Contains(strings.ToLower(line), "overflow") {
		return BufferOverflow
	}
	return BufferUnderrun
}

func isError(lower string) bool {
	return strings.Contains(lower, "error") || strings.Contains(lower, "fail")
}

func isBufferEvent(lower string) bool {
	return strings.Contains(lower, "overflow") || strings.Contains(lower, "underrun")
}

func isWarning(lower string) bool {
	// "warn" also covers "warning"; kept explicit to mirror the matching rules.
	return strings.Contains(lower, "warning") || strings.Contains(lower, "warn")
}

func isBufferHealth(lower string) bool {
	return strings.Contains(lower, "buffer health")
}

func isMemoryReading(lower string) bool {
	if !strings.Contains(lower, "memory") {
		return false
	}
	return strings.Contains(lower, "kb") || strings.Contains(lower, "mb")
}
