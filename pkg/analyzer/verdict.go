package analyzer

import (
	"fmt"

	"github.com/ccollicutt/audiolog/pkg/classifier"
)

// Verdict is the pass/fail outcome of an analysis.
type Verdict struct {
	// Pass is true when no failure condition was found.
	Pass bool

	// Reasons lists the failure conditions, empty on pass.
	Reasons []string
}

// Assess applies the stability criteria to the result. Any error,
// overflow, or underrun fails the run. MediaCodec errors are listed as
// their own reason even though they are already counted under errors.
func (r *Result) Assess() Verdict {
	var reasons []string

	if n := len(r.Errors); n > 0 {
		reasons = append(reasons, fmt.Sprintf("Errors detected: %d", n))
	}
	if n := r.Overflows(); n > 0 {
		reasons = append(reasons, fmt.Sprintf("Buffer overflows: %d", n))
	}
	if n := r.Underruns(); n > 0 {
		reasons = append(reasons, fmt.Sprintf("Buffer underruns: %d", n))
	}
	if n := r.ErrorCount(classifier.ErrorTypeMediaCodec); n > 0 {
		reasons = append(reasons, fmt.Sprintf("MediaCodec errors: %d", n))
	}

	return Verdict{
		Pass:    len(reasons) == 0,
		Reasons: reasons,
	}
}
