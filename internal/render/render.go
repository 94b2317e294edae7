// Package render formats aggregate evaluation reports for the CLI and for
// archival: an indented JSON form and a human-readable text form.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/turtacn/CaseLens/pkg/errors"
	"github.com/turtacn/CaseLens/pkg/types/report"
)

// metricOrder fixes the display order of aggregate scores.
var metricOrder = []string{
	report.MetricStructure,
	report.MetricCoverage,
	report.MetricQuality,
	report.MetricSimilarity,
	report.MetricUniqueness,
}

// JSON renders the report as indented UTF-8 JSON.
func JSON(rep *report.AggregateReport) ([]byte, error) {
	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "marshal report")
	}
	return out, nil
}

// ComparisonJSON renders a version comparison as indented UTF-8 JSON.
func ComparisonJSON(cmp *report.ComparisonReport) ([]byte, error) {
	out, err := json.MarshalIndent(cmp, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "marshal comparison report")
	}
	return out, nil
}

// Text renders the report in the human-readable console layout.
func Text(rep *report.AggregateReport) string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)
	thin := strings.Repeat("-", 40)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "测试用例自动化评测报告")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "评测时间: %s\n", rep.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "总用例数: %d\n", rep.TotalCases)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "【聚合分数】")
	fmt.Fprintln(&b, thin)
	for _, metric := range metricOrder {
		if score, ok := rep.AggregateScores[metric]; ok {
			fmt.Fprintf(&b, "%s: %.4f\n", metric, score)
		}
	}
	fmt.Fprintf(&b, "综合分数: %.4f\n", rep.OverallScore)
	fmt.Fprintln(&b)

	detail := rep.DetailedAnalysis
	if detail.Uniqueness != nil || detail.Coverage != nil || detail.Similarity != nil {
		fmt.Fprintln(&b, "【详细分析】")
		fmt.Fprintln(&b, thin)

		if u := detail.Uniqueness; u != nil {
			fmt.Fprintf(&b, "去重性: %s\n", u.QualityLevel)
			fmt.Fprintf(&b, "  - 完全重复: %d\n", u.ExactDuplicateCount)
			fmt.Fprintf(&b, "  - 高度相似: %d\n", u.NearDuplicateCount)
			fmt.Fprintf(&b, "  - 多样性分数: %.4f\n", u.DiversityScore)
		}
		if c := detail.Coverage; c != nil {
			fmt.Fprintf(&b, "覆盖率: %.4f\n", c.OverallCoverage)
			fmt.Fprintf(&b, "  - 需求覆盖: %.4f\n", c.RequirementCoverage.CoverageRate)
			fmt.Fprintf(&b, "  - 功能覆盖: %.4f\n", c.FeatureCoverage.FeatureCoverageRate)
		}
		if s := detail.Similarity; s != nil {
			fmt.Fprintf(&b, "相似度: %.4f\n", s.CoverageRate)
			fmt.Fprintf(&b, "  - 平均最大相似度: %.4f\n", s.MeanMaxSimilarity)
		}
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, rule)
	return b.String()
}

// ComparisonText renders a version comparison in the console layout.
func ComparisonText(cmp *report.ComparisonReport) string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)
	thin := strings.Repeat("-", 40)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "测试用例版本对比报告")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "版本一综合分数: %.4f\n", cmp.VersionA.OverallScore)
	fmt.Fprintf(&b, "版本二综合分数: %.4f\n", cmp.VersionB.OverallScore)
	fmt.Fprintf(&b, "总体改进幅度: %+.2f%%\n", cmp.OverallImprovement*100)
	fmt.Fprintln(&b)

	if len(cmp.Improvements) > 0 {
		fmt.Fprintln(&b, "【提升项】")
		fmt.Fprintln(&b, thin)
		for _, metric := range metricOrder {
			if delta, ok := cmp.Improvements[metric]; ok {
				fmt.Fprintf(&b, "%s: +%.4f\n", metric, delta)
			}
		}
		fmt.Fprintln(&b)
	}
	if len(cmp.Regressions) > 0 {
		fmt.Fprintln(&b, "【退步项】")
		fmt.Fprintln(&b, thin)
		for _, metric := range metricOrder {
			if delta, ok := cmp.Regressions[metric]; ok {
				fmt.Fprintf(&b, "%s: -%.4f\n", metric, delta)
			}
		}
		fmt.Fprintln(&b)
	}

	fmt.Fprintln(&b, rule)
	return b.String()
}
