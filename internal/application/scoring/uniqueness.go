package scoring

import (
	"context"
	"regexp"
	"strings"

	"github.com/turtacn/CaseLens/internal/domain/keyword"
	"github.com/turtacn/CaseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseLens/pkg/types/report"
)

// DefaultNearDuplicateThreshold is the cosine (or fallback Jaccard)
// similarity at which two distinct cases count as near duplicates.
const DefaultNearDuplicateThreshold = 0.85

// ScenarioPattern pairs a scenario category with its detection pattern.
type ScenarioPattern struct {
	Name    string
	Pattern *regexp.Regexp
}

// DefaultScenarioPatterns returns the built-in scenario categories.
func DefaultScenarioPatterns() []ScenarioPattern {
	return []ScenarioPattern{
		{"正常场景", regexp.MustCompile(`(?i)正常|成功|正确|有效|normal|success|valid`)},
		{"异常场景", regexp.MustCompile(`(?i)异常|失败|错误|无效|非法|exception|fail|error|invalid`)},
		{"边界场景", regexp.MustCompile(`(?i)边界|极限|最大|最小|为空|空值|长度|boundary|limit|empty|length`)},
		{"性能场景", regexp.MustCompile(`(?i)性能|速度|响应|超时|延迟|并发|performance|timeout|latency|concurren`)},
		{"安全场景", regexp.MustCompile(`(?i)安全|权限|认证|授权|加密|隐私|security|permission|auth|encrypt|privacy`)},
	}
}

// UniquenessAnalyzer detects exact and near-duplicate cases and scores the
// batch's diversity.  The encoder is optional: without one, near-duplicate
// detection degrades to a coarse keyword-Jaccard comparison.
type UniquenessAnalyzer struct {
	encoder   Encoder
	scenarios []ScenarioPattern
	threshold float64
	logger    logging.Logger
}

// UniquenessOption configures a UniquenessAnalyzer.
type UniquenessOption func(*UniquenessAnalyzer)

// WithNearDuplicateThreshold overrides the near-duplicate threshold.
func WithNearDuplicateThreshold(t float64) UniquenessOption {
	return func(u *UniquenessAnalyzer) {
		if t > 0 {
			u.threshold = t
		}
	}
}

// WithScenarioPatterns overrides the scenario categories.
func WithScenarioPatterns(sp []ScenarioPattern) UniquenessOption {
	return func(u *UniquenessAnalyzer) {
		if len(sp) > 0 {
			u.scenarios = sp
		}
	}
}

// NewUniquenessAnalyzer constructs an analyzer.  encoder may be nil.
func NewUniquenessAnalyzer(encoder Encoder, logger logging.Logger, opts ...UniquenessOption) *UniquenessAnalyzer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	u := &UniquenessAnalyzer{
		encoder:   encoder,
		scenarios: DefaultScenarioPatterns(),
		threshold: DefaultNearDuplicateThreshold,
		logger:    logger.Named("uniqueness"),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Evaluate runs the full uniqueness analysis over cases.
func (u *UniquenessAnalyzer) Evaluate(ctx context.Context, cases []string) report.UniquenessAnalysis {
	exact := exactDuplicates(cases)
	near := u.nearDuplicates(ctx, cases, exact)

	n := len(cases)
	possible := float64(n*(n-1)) / 2
	duplicates := len(exact) + len(near)

	diversity, dedupRate := 1.0, 1.0
	if possible > 0 {
		rate := float64(duplicates) / possible
		diversity = clamp01(1.0 - rate)
		dedupRate = clamp01(1.0 - rate)
	}

	return report.UniquenessAnalysis{
		TotalCases:          n,
		ExactDuplicates:     exact,
		ExactDuplicateCount: len(exact),
		NearDuplicates:      near,
		NearDuplicateCount:  len(near),
		TotalDuplicatePairs: duplicates,
		DeduplicationRate:   dedupRate,
		DiversityScore:      diversity,
		ScenarioDiversity:   u.scenarioDiversity(cases),
		QualityLevel:        report.QualityLevel((diversity + dedupRate) / 2),
	}
}

// exactDuplicates compares every unordered pair's trimmed text.
func exactDuplicates(cases []string) []report.DuplicatePair {
	var pairs []report.DuplicatePair
	for i := 0; i < len(cases); i++ {
		for j := i + 1; j < len(cases); j++ {
			if strings.TrimSpace(cases[i]) == strings.TrimSpace(cases[j]) {
				pairs = append(pairs, report.DuplicatePair{IndexA: i, IndexB: j, Similarity: 1.0})
			}
		}
	}
	return pairs
}

// nearDuplicates finds distinct-text pairs above the similarity threshold,
// skipping pairs already counted as exact.  With an encoder it embeds the
// whole batch in one call; encoder failure degrades to an empty result.
func (u *UniquenessAnalyzer) nearDuplicates(ctx context.Context, cases []string, exact []report.DuplicatePair) []report.DuplicatePair {
	if len(cases) < 2 {
		return nil
	}

	exactSet := make(map[[2]int]struct{}, len(exact))
	for _, p := range exact {
		exactSet[[2]int{p.IndexA, p.IndexB}] = struct{}{}
	}

	if u.encoder == nil {
		return u.nearDuplicatesByKeywords(cases, exactSet)
	}

	vectors, err := u.encoder.Encode(ctx, cases)
	if err != nil || len(vectors) != len(cases) {
		u.logger.Warn("embedding unavailable, skipping near-duplicate detection",
			logging.Err(err), logging.Int("cases", len(cases)))
		return nil
	}

	var pairs []report.DuplicatePair
	for i := 0; i < len(cases); i++ {
		for j := i + 1; j < len(cases); j++ {
			if _, dup := exactSet[[2]int{i, j}]; dup {
				continue
			}
			if sim := Cosine(vectors[i], vectors[j]); sim >= u.threshold {
				pairs = append(pairs, report.DuplicatePair{IndexA: i, IndexB: j, Similarity: sim})
			}
		}
	}
	return pairs
}

// nearDuplicatesByKeywords is the degraded-mode path: Jaccard over the coarse
// keyword sets.
func (u *UniquenessAnalyzer) nearDuplicatesByKeywords(cases []string, exactSet map[[2]int]struct{}) []report.DuplicatePair {
	sets := make([]keyword.Set, len(cases))
	for i, c := range cases {
		sets[i] = keyword.Coarse(c)
	}

	var pairs []report.DuplicatePair
	for i := 0; i < len(cases); i++ {
		for j := i + 1; j < len(cases); j++ {
			if _, dup := exactSet[[2]int{i, j}]; dup {
				continue
			}
			if sets[i].Len() == 0 || sets[j].Len() == 0 {
				continue
			}
			if sim := keyword.Jaccard(sets[i], sets[j]); sim >= u.threshold {
				pairs = append(pairs, report.DuplicatePair{IndexA: i, IndexB: j, Similarity: sim})
			}
		}
	}
	return pairs
}

// scenarioDiversity counts the distinct scenario categories the batch hits.
func (u *UniquenessAnalyzer) scenarioDiversity(cases []string) report.ScenarioDiversity {
	out := report.ScenarioDiversity{
		Scenarios:      make(map[string]int, len(u.scenarios)),
		TotalScenarios: len(u.scenarios),
	}
	for _, s := range u.scenarios {
		count := 0
		for _, c := range cases {
			if s.Pattern.MatchString(c) {
				count++
			}
		}
		out.Scenarios[s.Name] = count
		if count > 0 {
			out.CoveredScenarios++
		}
	}
	if out.TotalScenarios > 0 {
		out.DiversityScore = float64(out.CoveredScenarios) / float64(out.TotalScenarios)
	}
	return out
}
