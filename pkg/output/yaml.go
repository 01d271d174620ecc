package output

import (
	"context"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats reports as YAML.
type YAMLFormatter struct {
	opts FormatOptions
}

// NewYAMLFormatter creates a new YAML formatter with the given options.
func NewYAMLFormatter(opts FormatOptions) *YAMLFormatter {
	return &YAMLFormatter{opts: opts}
}

// Name returns the format name.
func (f *YAMLFormatter) Name() string {
	return "yaml"
}

// Format renders the report as YAML.
func (f *YAMLFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	var payload interface{} = report
	if f.opts.Quiet {
		payload = quietReport{report.Summary, report.Verdict}
	}

	encoder := yaml.NewEncoder(w)
	if err := encoder.Encode(payload); err != nil {
		_ = encoder.Close()
		return err
	}
	return encoder.Close()
}
