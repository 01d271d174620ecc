// AudioLog - Audio Pipeline Stability Log Analyzer
//
// AudioLog is a batch analysis tool for device logs captured during
// audio-pipeline stability tests. It classifies log lines, reports
// buffer and codec issues, and renders a pass/fail assessment.
package main

import (
	"os"

	"github.com/ccollicutt/audiolog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
