package scoring

import (
	"regexp"

	"github.com/turtacn/CaseLens/internal/domain/keyword"
	"github.com/turtacn/CaseLens/internal/domain/requirement"
	"github.com/turtacn/CaseLens/pkg/types/report"
)

// DefaultOverlapThreshold is the minimum combined overlap score at which a
// case counts as covering a requirement.
const DefaultOverlapThreshold = 0.4

// FeaturePattern pairs a functional category with the pattern that detects
// it in case text.
type FeaturePattern struct {
	Name    string
	Pattern *regexp.Regexp
}

// DefaultFeaturePatterns returns the built-in functional categories.
func DefaultFeaturePatterns() []FeaturePattern {
	return []FeaturePattern{
		{"正常流程", regexp.MustCompile(`(?i)正常|成功|正确|normal|success`)},
		{"异常流程", regexp.MustCompile(`(?i)异常|失败|错误|不正确|无效|exception|fail|error|invalid`)},
		{"边界值", regexp.MustCompile(`(?i)边界|极限|最大|最小|为空|空值|boundary|limit|empty`)},
		{"权限控制", regexp.MustCompile(`(?i)权限|访问控制|认证|授权|permission|auth|access control`)},
		{"数据验证", regexp.MustCompile(`(?i)验证|校验|检查|合法|非法|validat|verify|check`)},
		{"性能", regexp.MustCompile(`(?i)性能|速度|响应|超时|延迟|performance|timeout|latency`)},
		{"并发", regexp.MustCompile(`(?i)并发|同时|并行|竞态|concurren|parallel|race`)},
	}
}

// CoverageAnalyzer measures how well a case batch covers the PRD: keyword
// overlap against extracted requirements, weighted 0.6, plus functional
// category coverage, weighted 0.4.
type CoverageAnalyzer struct {
	extractor     *requirement.Extractor
	caseTokenizer *keyword.Tokenizer
	features      []FeaturePattern
	threshold     float64
}

// CoverageOption configures a CoverageAnalyzer.
type CoverageOption func(*CoverageAnalyzer)

// WithOverlapThreshold overrides the requirement overlap threshold.
func WithOverlapThreshold(t float64) CoverageOption {
	return func(c *CoverageAnalyzer) {
		if t > 0 {
			c.threshold = t
		}
	}
}

// WithExtractor overrides the requirement extractor.
func WithExtractor(e *requirement.Extractor) CoverageOption {
	return func(c *CoverageAnalyzer) {
		if e != nil {
			c.extractor = e
		}
	}
}

// WithFeaturePatterns overrides the functional categories.
func WithFeaturePatterns(fp []FeaturePattern) CoverageOption {
	return func(c *CoverageAnalyzer) {
		if len(fp) > 0 {
			c.features = fp
		}
	}
}

// NewCoverageAnalyzer constructs an analyzer with the built-in tables.
func NewCoverageAnalyzer(opts ...CoverageOption) *CoverageAnalyzer {
	c := &CoverageAnalyzer{
		extractor:     requirement.NewDefaultExtractor(),
		caseTokenizer: keyword.NewCaseTokenizer(),
		features:      DefaultFeaturePatterns(),
		threshold:     DefaultOverlapThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Evaluate runs the full coverage analysis of cases against prdText.
func (c *CoverageAnalyzer) Evaluate(prdText string, cases []string) report.CoverageAnalysis {
	reqs := c.extractor.Extract(prdText)
	reqCov := c.requirementCoverage(reqs, cases)
	featCov := c.featureCoverage(cases)

	return report.CoverageAnalysis{
		RequirementCoverage:   reqCov,
		FeatureCoverage:       featCov,
		OverallCoverage:       reqCov.CoverageRate*0.6 + featCov.FeatureCoverageRate*0.4,
		RequirementsExtracted: len(reqs),
	}
}

// requirementCoverage marks a requirement covered when any case's keyword set
// reaches the overlap threshold against it.  Zero requirements cover
// vacuously.
func (c *CoverageAnalyzer) requirementCoverage(reqs []requirement.Requirement, cases []string) report.RequirementCoverage {
	out := report.RequirementCoverage{
		CoverageRate:  1.0,
		Details:       map[string]report.RequirementDetail{},
		ThresholdUsed: c.threshold,
	}
	if len(reqs) == 0 {
		return out
	}

	caseKeywords := make([]keyword.Set, len(cases))
	for i, cs := range cases {
		caseKeywords[i] = c.caseTokenizer.Keywords(cs)
	}

	for _, req := range reqs {
		detail := report.RequirementDetail{Keywords: req.Keywords.Sorted()}

		if req.Keywords.Len() > 0 {
			for i, ck := range caseKeywords {
				if ck.Len() == 0 {
					continue
				}
				ov := keyword.Score(req.Keywords, ck)
				if ov.Score < c.threshold {
					continue
				}
				detail.Covered = true
				detail.MatchingCases = append(detail.MatchingCases, report.CaseMatch{
					CaseIndex:       i,
					Score:           ov.Score,
					Jaccard:         ov.Jaccard,
					ReqRatio:        ov.ReqRatio,
					CaseRatio:       ov.CaseRatio,
					MatchedKeywords: ov.Matched,
				})
			}
		}

		if detail.Covered {
			out.CoveredRequirements = append(out.CoveredRequirements, req.Text)
		} else {
			out.UncoveredRequirements = append(out.UncoveredRequirements, req.Text)
		}
		out.Details[req.Text] = detail
	}

	out.CoveredCount = len(out.CoveredRequirements)
	out.UncoveredCount = len(out.UncoveredRequirements)
	out.TotalRequirements = len(reqs)
	out.CoverageRate = float64(out.CoveredCount) / float64(len(reqs))
	return out
}

// featureCoverage counts, per functional category, how many cases match its
// pattern; a category is covered by at least one match.
func (c *CoverageAnalyzer) featureCoverage(cases []string) report.FeatureCoverage {
	out := report.FeatureCoverage{
		Features:      make(map[string]report.FeatureCount, len(c.features)),
		TotalFeatures: len(c.features),
	}
	for _, f := range c.features {
		count := 0
		for _, cs := range cases {
			if f.Pattern.MatchString(cs) {
				count++
			}
		}
		out.Features[f.Name] = report.FeatureCount{Count: count, Covered: count > 0}
		if count > 0 {
			out.CoveredFeatures++
		}
	}
	if out.TotalFeatures > 0 {
		out.FeatureCoverageRate = float64(out.CoveredFeatures) / float64(out.TotalFeatures)
	}
	return out
}
