package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/audiolog/internal/logging"
	"github.com/ccollicutt/audiolog/pkg/analyzer"
	"github.com/ccollicutt/audiolog/pkg/output"
	"github.com/ccollicutt/audiolog/pkg/parser"
)

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	Output   string
	Quiet    bool
	LogLevel string
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <log-file>",
		Short: "Analyze an audio pipeline stability log",
		Long: `Analyze a device log captured during an audio-pipeline stability test.

Classifies every line into errors, warnings, buffer overflow/underrun
events, buffer health samples, and memory readings, prints a report
ending in a pass/fail assessment, and saves a short summary file next
to the input log.

Gzip-compressed logs (*.gz) are read transparently.

Exit codes:
  0 - Analysis completed (the verdict is in the report, not the exit code)
  1 - Usage error or log file not found`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	// Flags
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json|yaml)")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug|info|warn|error)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	if len(args) != 1 {
		// Usage goes to stdout so wrappers capturing the report see it
		fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
		return fmt.Errorf("expected a log file path")
	}
	logPath := args[0]

	logging.Init(opts.Output != "text", logging.ParseLevel(opts.LogLevel))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := os.Stat(logPath); err != nil {
		return fmt.Errorf("log file not found: %s", logPath)
	}

	slog.Debug("starting analysis", "file", logPath)

	source := parser.NewFileSource(logPath)
	defer source.Close()

	result, err := analyzer.New(logPath).Analyze(ctx, source)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	// Release the log file before reporting starts. Close is safe to
	// call again from the defer.
	if err := source.Close(); err != nil {
		slog.Warn("could not close log file", "error", err)
	}

	slog.Debug("analysis complete",
		"lines", result.LinesRead,
		"errors", len(result.Errors),
		"buffer_events", len(result.BufferEvents))

	report := output.NewReport(result)

	formatter, err := createFormatter(opts)
	if err != nil {
		return err
	}

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// The verdict is already printed; a missing summary file is not fatal.
	summaryPath := filepath.Join(filepath.Dir(logPath), output.SummaryFileName)
	if err := output.WriteSummary(report, summaryPath); err != nil {
		slog.Warn("could not save summary", "error", err)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nSummary saved to: %s\n", summaryPath)

	return nil
}

func createFormatter(opts *AnalyzeOptions) (output.Formatter, error) {
	formatOpts := output.FormatOptions{
		Quiet: opts.Quiet,
	}

	switch opts.Output {
	case "text":
		return output.NewTextFormatter(formatOpts), nil
	case "json":
		return output.NewJSONFormatter(formatOpts), nil
	case "yaml":
		return output.NewYAMLFormatter(formatOpts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text, json, or yaml)", opts.Output)
	}
}
