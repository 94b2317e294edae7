// Package stats provides the descriptive statistics reported alongside
// similarity distributions.
package stats

import (
	"math"
	"sort"

	"github.com/turtacn/CaseLens/pkg/types/report"
)

// Describe summarizes values into a Distribution.  An empty input yields the
// zero Distribution.
func Describe(values []float64) report.Distribution {
	n := len(values)
	if n == 0 {
		return report.Distribution{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)

	variance := 0.0
	for _, v := range sorted {
		d := v - mean
		variance += d * d
	}
	variance /= float64(n)

	q1 := Percentile(sorted, 25)
	q3 := Percentile(sorted, 75)

	return report.Distribution{
		Count:  n,
		Min:    sorted[0],
		Max:    sorted[n-1],
		Mean:   mean,
		Median: Percentile(sorted, 50),
		StdDev: math.Sqrt(variance),
		Q1:     q1,
		Q3:     q3,
		IQR:    q3 - q1,
	}
}

// Percentile returns the p-th percentile of sorted (ascending) values using
// linear interpolation between closest ranks.  p is in [0,100].
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Mean returns the arithmetic mean, 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
