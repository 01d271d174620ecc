package test

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/audiolog/internal/cli"
	"github.com/ccollicutt/audiolog/pkg/analyzer"
	"github.com/ccollicutt/audiolog/pkg/output"
	"github.com/ccollicutt/audiolog/pkg/parser"
)

// stabilityLog is a full capture from a degrading stability run: buffer
// health falls while memory grows, with a burst of errors in the middle.
const stabilityLog = `12:00:00.000 AudioService: stability run 42 starting
12:00:00.050 AudioRecord: capture session opened at 48000 Hz
12:00:01.000 Buffer health: 96% capacity
12:00:01.010 MemMonitor: memory usage 184.0 MB
12:00:02.000 Buffer health: 94% capacity
12:00:02.010 MemMonitor: memory usage 188.5 MB
12:00:03.000 Buffer health: 90% capacity
12:00:04.210 WARNING: render thread scheduling latency 42 ms
12:00:05.500 AudioFlinger: buffer overflow in capture queue
12:00:06.120 ERROR: MediaCodec dequeueOutputBuffer timed out
12:00:06.121 ERROR: AudioRecord read failed, buffer underrun detected
12:00:07.000 Buffer health: 72% capacity
12:00:07.010 MemMonitor: memory usage 197.2 MB
12:00:08.000 WARNING: capture pipeline running behind
12:00:09.000 Buffer health: 61% capacity
12:00:09.010 MemMonitor: memory usage 201.7 MB
12:00:10.000 AudioService: stability run 42 finished
`

// cleanLog is a capture from an uneventful run.
const cleanLog = `12:00:00.000 AudioService: stability run 7 starting
12:00:01.000 Buffer health: 95% capacity
12:00:01.010 MemMonitor: memory usage 120.0 MB
12:00:02.000 Buffer health: 96% capacity
12:00:03.000 AudioService: stability run 7 finished
`

func writeLog(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write log: %v", err)
	}
	return path
}

func analyzeLog(t *testing.T, path string) *analyzer.Result {
	t.Helper()
	source := parser.NewFileSource(path)
	defer source.Close()

	result, err := analyzer.New(path).Analyze(context.Background(), source)
	if err != nil {
		t.Fatalf("Analysis failed: %v", err)
	}
	return result
}

// TestE2E_StabilityRun runs the full pipeline over a degrading capture
// and checks every category lands where it should.
func TestE2E_StabilityRun(t *testing.T) {
	logFile := writeLog(t, "stability-run-42.log", stabilityLog)
	result := analyzeLog(t, logFile)

	if result.LinesRead != 17 {
		t.Errorf("LinesRead = %d, want 17", result.LinesRead)
	}
	if len(result.Errors) != 2 {
		t.Errorf("Errors = %d, want 2", len(result.Errors))
	}
	if len(result.Warnings) != 2 {
		t.Errorf("Warnings = %d, want 2", len(result.Warnings))
	}
	if result.Overflows() != 1 || result.Underruns() != 1 {
		t.Errorf("Overflows/Underruns = %d/%d, want 1/1", result.Overflows(), result.Underruns())
	}
	if len(result.HealthSamples) != 5 {
		t.Errorf("HealthSamples = %d, want 5", len(result.HealthSamples))
	}
	if len(result.MemoryReadings) != 4 {
		t.Errorf("MemoryReadings = %d, want 4", len(result.MemoryReadings))
	}

	verdict := result.Assess()
	if verdict.Pass {
		t.Error("Expected run to fail")
	}
	wantReasons := []string{
		"Errors detected: 2",
		"Buffer overflows: 1",
		"Buffer underruns: 1",
		"MediaCodec errors: 1",
	}
	if len(verdict.Reasons) != len(wantReasons) {
		t.Fatalf("Reasons = %v, want %v", verdict.Reasons, wantReasons)
	}
	for i, want := range wantReasons {
		if verdict.Reasons[i] != want {
			t.Errorf("Reasons[%d] = %q, want %q", i, verdict.Reasons[i], want)
		}
	}

	t.Logf("Processed %d lines, %d errors, %d buffer events",
		result.LinesRead, len(result.Errors), len(result.BufferEvents))
}

// TestE2E_Trends checks the trend figures derived from the same capture.
func TestE2E_Trends(t *testing.T) {
	logFile := writeLog(t, "stability-run-42.log", stabilityLog)
	result := analyzeLog(t, logFile)

	health, ok := result.HealthTrend()
	if !ok {
		t.Fatal("Expected a health trend")
	}
	if health.Samples != 5 {
		t.Errorf("health.Samples = %d, want 5", health.Samples)
	}
	if health.Min != 61 || health.Max != 96 {
		t.Errorf("health Min/Max = %v/%v, want 61/96", health.Min, health.Max)
	}
	if math.Abs(health.Slope-(-9.2)) > 1e-9 {
		t.Errorf("health.Slope = %v, want -9.2", health.Slope)
	}

	memory, ok := result.MemoryTrend()
	if !ok {
		t.Fatal("Expected a memory trend")
	}
	if memory.Readings != 4 {
		t.Errorf("memory.Readings = %d, want 4", memory.Readings)
	}
	if memory.First != 184.0 || memory.Peak != 201.7 || memory.Last != 201.7 {
		t.Errorf("memory First/Peak/Last = %v/%v/%v", memory.First, memory.Peak, memory.Last)
	}
	if math.Abs(memory.Growth-17.7) > 1e-9 {
		t.Errorf("memory.Growth = %v, want 17.7", memory.Growth)
	}
	// Least squares over (0..3, readings): 30.9/5.
	if math.Abs(memory.Slope-6.18) > 1e-9 {
		t.Errorf("memory.Slope = %v, want 6.18", memory.Slope)
	}
}

// TestE2E_TextReport formats the failing capture and checks every
// report section appears with the right findings.
func TestE2E_TextReport(t *testing.T) {
	logFile := writeLog(t, "stability-run-42.log", stabilityLog)
	result := analyzeLog(t, logFile)
	report := output.NewReport(result)

	var buf bytes.Buffer
	formatter := output.NewTextFormatter(output.FormatOptions{})
	if err := formatter.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	out := buf.String()
	checks := []string{
		"AUDIO LOG ANALYSIS REPORT",
		"SUMMARY STATISTICS",
		"Total errors:     2",
		"CRITICAL ISSUES",
		"✗ MediaCodec errors detected: 1",
		"✗ AudioRecord failures detected: 1",
		"BUFFER HEALTH ANALYSIS",
		"Total buffer health samples: 5",
		"Min/Mean/Max: 61.0% / 82.6% / 96.0%",
		"Slope: -9.20% per sample (degrading)",
		"MEMORY ANALYSIS",
		"First/Peak/Last: 184.0 MB / 201.7 MB / 201.7 MB",
		"Growth: +17.7 MB (+6.18 MB per reading)",
		"ERROR BREAKDOWN BY TYPE",
		"MediaCodec: 1",
		"EVENT TIMELINE",
		// Timeline messages are the raw line, so the stamp shows twice.
		"[12:00:05.500] BUFFER(overflow): 12:00:05.500 AudioFlinger: buffer overflow in capture queue",
		"PASS/FAIL ASSESSMENT",
		"RESULT: FAIL",
	}
	for _, check := range checks {
		if !strings.Contains(out, check) {
			t.Errorf("Output missing %q", check)
		}
	}
}

// TestE2E_FormatAgreement renders one report in all three formats and
// checks the machine formats decode back to the same findings.
func TestE2E_FormatAgreement(t *testing.T) {
	logFile := writeLog(t, "stability-run-42.log", stabilityLog)
	result := analyzeLog(t, logFile)
	report := output.NewReport(result)
	ctx := context.Background()

	var jsonBuf bytes.Buffer
	if err := output.NewJSONFormatter(output.FormatOptions{}).Format(ctx, report, &jsonBuf); err != nil {
		t.Fatalf("JSON format failed: %v", err)
	}
	var fromJSON output.Report
	if err := json.Unmarshal(jsonBuf.Bytes(), &fromJSON); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}

	var yamlBuf bytes.Buffer
	if err := output.NewYAMLFormatter(output.FormatOptions{}).Format(ctx, report, &yamlBuf); err != nil {
		t.Fatalf("YAML format failed: %v", err)
	}
	var fromYAML output.Report
	if err := yaml.Unmarshal(yamlBuf.Bytes(), &fromYAML); err != nil {
		t.Fatalf("Invalid YAML output: %v", err)
	}

	for name, got := range map[string]output.Report{"json": fromJSON, "yaml": fromYAML} {
		if got.Summary.TotalErrors != 2 {
			t.Errorf("%s TotalErrors = %d, want 2", name, got.Summary.TotalErrors)
		}
		if got.Verdict.Pass {
			t.Errorf("%s verdict should fail", name)
		}
		if got.Result == nil || len(got.Result.Errors) != 2 {
			t.Errorf("%s full result missing or wrong", name)
		}
	}
}

// TestE2E_CleanRun checks a quiet capture passes with trend data intact.
func TestE2E_CleanRun(t *testing.T) {
	logFile := writeLog(t, "stability-run-7.log", cleanLog)
	result := analyzeLog(t, logFile)
	report := output.NewReport(result)

	if !report.Verdict.Pass {
		t.Fatalf("Expected pass, reasons: %v", report.Verdict.Reasons)
	}

	var buf bytes.Buffer
	if err := output.NewTextFormatter(output.FormatOptions{}).Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	out := buf.String()
	checks := []string{
		"✓ No critical issues found",
		"Slope: +1.00% per sample (improving)",
		"RESULT: PASS",
		"Action: Proceed to the next stability test stage",
	}
	for _, check := range checks {
		if !strings.Contains(out, check) {
			t.Errorf("Output missing %q", check)
		}
	}
}

// TestE2E_AnalyzeCommand runs the real CLI end to end, report plus
// summary file.
func TestE2E_AnalyzeCommand(t *testing.T) {
	logFile := writeLog(t, "stability-run-42.log", stabilityLog)

	cmd := cli.NewRootCommand()
	cmd.SetArgs([]string{"analyze", logFile})

	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "RESULT: FAIL") {
		t.Error("Expected failing verdict in output")
	}

	summaryPath := filepath.Join(filepath.Dir(logFile), output.SummaryFileName)
	if !strings.Contains(out, "Summary saved to: "+summaryPath) {
		t.Error("Expected summary confirmation line")
	}

	data, err := os.ReadFile(summaryPath)
	if err != nil {
		t.Fatalf("Summary file not written: %v", err)
	}
	if !strings.Contains(string(data), "RESULT: FAIL") {
		t.Errorf("Summary file verdict wrong:\n%s", data)
	}
}

// TestE2E_AnalyzeCommand_Gzip runs the CLI over a compressed capture.
func TestE2E_AnalyzeCommand_Gzip(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "stability-run-42.log.gz")

	f, err := os.Create(logFile)
	if err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(stabilityLog)); err != nil {
		t.Fatalf("Failed to write gzip: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("Failed to close gzip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Failed to close file: %v", err)
	}

	cmd := cli.NewRootCommand()
	cmd.SetArgs([]string{"analyze", logFile})

	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	if !strings.Contains(buf.String(), "Total errors:     2") {
		t.Error("Compressed capture should analyze like the plain one")
	}
}

// TestE2E_AnalyzeCommand_JSON checks the machine format path through
// the CLI decodes cleanly despite the trailing confirmation line.
func TestE2E_AnalyzeCommand_JSON(t *testing.T) {
	logFile := writeLog(t, "stability-run-42.log", stabilityLog)

	cmd := cli.NewRootCommand()
	cmd.SetArgs([]string{"analyze", "--output", "json", logFile})

	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	var report output.Report
	if err := json.NewDecoder(&buf).Decode(&report); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if report.Summary.BufferEvents != 2 {
		t.Errorf("BufferEvents = %d, want 2", report.Summary.BufferEvents)
	}
}

// TestE2E_DiagnoseCommand pre-flights a capture through the CLI.
func TestE2E_DiagnoseCommand(t *testing.T) {
	logFile := writeLog(t, "stability-run-42.log", stabilityLog)

	cmd := cli.NewRootCommand()
	cmd.SetArgs([]string{"diagnose", logFile})

	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("diagnose failed: %v", err)
	}

	out := buf.String()
	for _, check := range []string{"[PASS] Log File", "[PASS] Line Scan", "[PASS] Timestamps", "[PASS] Classification", "Log looks ready for analysis."} {
		if !strings.Contains(out, check) {
			t.Errorf("Output missing %q:\n%s", check, out)
		}
	}
}
