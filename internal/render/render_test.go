package render

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CaseLens/pkg/types/report"
)

func sampleReport() *report.AggregateReport {
	return &report.AggregateReport{
		ID:         "rep-1",
		Timestamp:  time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		TotalCases: 4,
		AggregateScores: map[string]float64{
			report.MetricStructure:  0.8123,
			report.MetricQuality:    0.7456,
			report.MetricUniqueness: 0.9,
		},
		DetailedAnalysis: report.DetailedAnalysis{
			Uniqueness: &report.UniquenessAnalysis{
				TotalCases:          4,
				ExactDuplicateCount: 1,
				NearDuplicateCount:  2,
				DiversityScore:      0.5,
				QualityLevel:        report.LevelMedium,
			},
		},
		OverallScore: 0.7891,
	}
}

func TestJSONRoundTrips(t *testing.T) {
	out, err := JSON(sampleReport())
	require.NoError(t, err)

	var decoded report.AggregateReport
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "rep-1", decoded.ID)
	assert.InDelta(t, 0.7891, decoded.OverallScore, 1e-9)
}

func TestTextLayout(t *testing.T) {
	text := Text(sampleReport())

	assert.Contains(t, text, "测试用例自动化评测报告")
	assert.Contains(t, text, "总用例数: 4")
	assert.Contains(t, text, "avg_structure_score: 0.8123")
	assert.Contains(t, text, "avg_quality_score: 0.7456")
	assert.Contains(t, text, "综合分数: 0.7891")
	assert.Contains(t, text, "去重性: medium")
	assert.Contains(t, text, "  - 完全重复: 1")
	// Structure score is listed before quality, fixed display order.
	assert.Less(t,
		strings.Index(text, "avg_structure_score"),
		strings.Index(text, "avg_quality_score"))
}

func TestTextOmitsAbsentMetrics(t *testing.T) {
	rep := sampleReport()
	rep.DetailedAnalysis = report.DetailedAnalysis{}
	delete(rep.AggregateScores, report.MetricUniqueness)

	text := Text(rep)
	assert.NotContains(t, text, "uniqueness_score")
	assert.NotContains(t, text, "覆盖率")
	assert.NotContains(t, text, "相似度")
	assert.NotContains(t, text, "【详细分析】")
}

func TestComparisonText(t *testing.T) {
	a := sampleReport()
	b := sampleReport()
	b.OverallScore = 0.85

	cmp := &report.ComparisonReport{
		VersionA:           a,
		VersionB:           b,
		Improvements:       map[string]float64{report.MetricQuality: 0.05},
		Regressions:        map[string]float64{report.MetricStructure: 0.02},
		OverallImprovement: 0.0772,
	}

	text := ComparisonText(cmp)
	assert.Contains(t, text, "版本一综合分数: 0.7891")
	assert.Contains(t, text, "版本二综合分数: 0.8500")
	assert.Contains(t, text, "总体改进幅度: +7.72%")
	assert.Contains(t, text, "avg_quality_score: +0.0500")
	assert.Contains(t, text, "avg_structure_score: -0.0200")
}
