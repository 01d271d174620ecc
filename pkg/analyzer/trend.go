package analyzer

import (
	"regexp"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// HealthTrend summarizes buffer health percentages across a run.
type HealthTrend struct {
	// Samples is the number of health lines a percentage was read from.
	Samples int

	Min  float64
	Mean float64
	Max  float64

	// Slope is the per-sample least-squares slope in percentage points.
	// Negative means buffer health degrades over the run.
	Slope float64
}

// MemoryTrend summarizes memory readings across a run, in MB.
type MemoryTrend struct {
	// Readings is the number of memory lines a figure was read from.
	Readings int

	First float64
	Last  float64
	Peak  float64

	// Growth is Last minus First. Zero when only one reading parsed.
	Growth float64

	// Slope is the per-reading least-squares slope in MB. Zero when
	// only one reading parsed.
	Slope float64
}

var (
	percentPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
	memoryPattern  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(kb|mb)`)
)

// HealthTrend fits buffer health percentages across the run. The second
// return is false when fewer than two samples carry a percentage.
func (r *Result) HealthTrend() (HealthTrend, bool) {
	var values []float64
	for _, s := range r.HealthSamples {
		m := percentPattern.FindStringSubmatch(s.Message)
		if m == nil {
			continue
		}
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			values = append(values, v)
		}
	}

	if len(values) < 2 {
		return HealthTrend{}, false
	}

	return HealthTrend{
		Samples: len(values),
		Min:     floats.Min(values),
		Mean:    stat.Mean(values, nil),
		Max:     floats.Max(values),
		Slope:   slope(values),
	}, true
}

// MemoryTrend fits memory readings across the run, normalized to MB.
// The second return is false when no reading carries a parseable figure.
func (r *Result) MemoryTrend() (MemoryTrend, bool) {
	var values []float64
	for _, s := range r.MemoryReadings {
		m := memoryPattern.FindStringSubmatch(s.Message)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if strings.EqualFold(m[2], "kb") {
			v /= 1024
		}
		values = append(values, v)
	}

	if len(values) == 0 {
		return MemoryTrend{}, false
	}

	trend := MemoryTrend{
		Readings: len(values),
		First:    values[0],
		Last:     values[len(values)-1],
		Peak:     floats.Max(values),
	}
	if len(values) > 1 {
		trend.Growth = trend.Last - trend.First
		trend.Slope = slope(values)
	}

	return trend, true
}

// slope fits y = alpha + beta*x over sample indices 0..n-1 and returns
// beta. Callers guarantee at least two values.
func slope(values []float64) float64 {
	xs := make([]float64, len(values))
	floats.Span(xs, 0, float64(len(values)-1))

	_, beta := stat.LinearRegression(xs, values, nil, false)
	return beta
}
