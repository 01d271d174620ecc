package parser

import "regexp"

// timestampPattern matches the device log clock format HH:MM:SS.mmm.
var timestampPattern = regexp.MustCompile(`\d{2}:\d{2}:\d{2}\.\d{3}`)

// ExtractTimestamp returns the first HH:MM:SS.mmm timestamp found in the
// line. The second return value is false when the line carries none; lines
// without timestamps are still analyzed, they just report no clock value.
func ExtractTimestamp(line string) (string, bool) {
	ts := timestampPattern.FindString(line)
	if ts == "" {
		return "", false
	}
	return ts, true
}
