package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	d := Describe([]float64{0.4, 0.2, 0.8, 0.6})

	assert.Equal(t, 4, d.Count)
	assert.InDelta(t, 0.2, d.Min, 1e-9)
	assert.InDelta(t, 0.8, d.Max, 1e-9)
	assert.InDelta(t, 0.5, d.Mean, 1e-9)
	// Even count: median averages the middle pair.
	assert.InDelta(t, 0.5, d.Median, 1e-9)
	assert.InDelta(t, 0.35, d.Q1, 1e-9)
	assert.InDelta(t, 0.65, d.Q3, 1e-9)
	assert.InDelta(t, 0.3, d.IQR, 1e-9)
	assert.InDelta(t, 0.2236, d.StdDev, 1e-3)
}

func TestDescribeEmpty(t *testing.T) {
	assert.Zero(t, Describe(nil))
}

func TestDescribeSingle(t *testing.T) {
	d := Describe([]float64{0.7})
	assert.Equal(t, 1, d.Count)
	assert.InDelta(t, 0.7, d.Median, 1e-9)
	assert.Zero(t, d.StdDev)
	assert.Zero(t, d.IQR)
}

func TestPercentileInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.0, Percentile(sorted, 0), 1e-9)
	assert.InDelta(t, 4.0, Percentile(sorted, 100), 1e-9)
	assert.InDelta(t, 2.5, Percentile(sorted, 50), 1e-9)
}

func TestMean(t *testing.T) {
	assert.Zero(t, Mean(nil))
	assert.InDelta(t, 2.0, Mean([]float64{1, 2, 3}), 1e-9)
}
