// Package stats computes descriptive statistics over latency samples.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a sample of latencies in milliseconds.
// StdDev is the sample (n-1) standard deviation and is nil below two samples.
type Summary struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	StdDev *float64
}

// Summarize returns ok=false for an empty sample.
func Summarize(samples []float64) (Summary, bool) {
	n := len(samples)
	if n == 0 {
		return Summary{}, false
	}
	s := Summary{
		Count:  n,
		Min:    floats.Min(samples),
		Max:    floats.Max(samples),
		Mean:   stat.Mean(samples, nil),
		Median: Median(samples),
	}
	if n > 1 {
		sd := stat.StdDev(samples, nil)
		s.StdDev = &sd
	}
	return s, true
}

// Median averages the two middle values of an even-sized sample.
// stat.Quantile(0.5, stat.Empirical, ...) would return the lower one.
func Median(samples []float64) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, samples)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
