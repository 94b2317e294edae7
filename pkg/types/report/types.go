// Package report defines the canonical structured results produced by the
// evaluation engine: per-metric breakdowns, the aggregate batch report, and
// the version-to-version comparison report.  Everything here is plain data
// so the types serialize cleanly to JSON and no provider-specific type ever
// leaks into a report.
package report

import "time"

// Metric keys used in AggregateScores and in comparison maps.
const (
	MetricStructure  = "avg_structure_score"
	MetricQuality    = "avg_quality_score"
	MetricUniqueness = "uniqueness_score"
	MetricCoverage   = "coverage_score"
	MetricSimilarity = "similarity_score"
)

// Quality level labels shared by the quality and uniqueness metrics.
const (
	LevelExcellent        = "excellent"
	LevelGood             = "good"
	LevelMedium           = "medium"
	LevelNeedsImprovement = "needs-improvement"
)

// ─────────────────────────────────────────────────────────────────────────────
// Per-case results
// ─────────────────────────────────────────────────────────────────────────────

// CaseStructure holds the four sections extracted from a test case.  Sections
// that were not found remain empty strings.
type CaseStructure struct {
	Title          string `json:"title"`
	Precondition   string `json:"precondition"`
	Steps          string `json:"steps"`
	ExpectedResult string `json:"expected_result"`
}

// StructureResult is the structure metric's breakdown for a single case.
type StructureResult struct {
	Structure CaseStructure      `json:"structure"`
	Presence  map[string]bool    `json:"presence"`
	Quality   map[string]float64 `json:"quality"`
	Score     float64            `json:"completeness_score"`
}

// QualityResult is the content-quality metric's breakdown for a single case.
type QualityResult struct {
	Clarity       float64 `json:"clarity_score"`
	Completeness  float64 `json:"completeness_score"`
	Executability float64 `json:"executability_score"`
	Independence  float64 `json:"independence_score"`
	Specificity   float64 `json:"specificity_score"`
	Score         float64 `json:"overall_quality"`
	Level         string  `json:"quality_level"`
}

// CaseEvaluation bundles all per-case results, index-stable within the batch.
type CaseEvaluation struct {
	CaseIndex      int             `json:"case_index"`
	CaseText       string          `json:"case_text"`
	Structure      CaseStructure   `json:"structure"`
	StructureScore float64         `json:"structure_score"`
	QualityScore   float64         `json:"quality_score"`
	StructureDetail StructureResult `json:"structure_details"`
	QualityDetail   QualityResult   `json:"quality_details"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Coverage analysis
// ─────────────────────────────────────────────────────────────────────────────

// CaseMatch records one case that covers a requirement, with the component
// overlap ratios that produced the decision.
type CaseMatch struct {
	CaseIndex       int      `json:"case_index"`
	Score           float64  `json:"score"`
	Jaccard         float64  `json:"jaccard"`
	ReqRatio        float64  `json:"req_ratio"`
	CaseRatio       float64  `json:"case_ratio"`
	MatchedKeywords []string `json:"matched_keywords"`
}

// RequirementDetail is the per-requirement coverage breakdown.
type RequirementDetail struct {
	Covered       bool        `json:"covered"`
	MatchingCases []CaseMatch `json:"matching_cases"`
	Keywords      []string    `json:"req_keywords,omitempty"`
}

// RequirementCoverage summarises how many extracted requirements are covered
// by at least one case above the overlap threshold.
type RequirementCoverage struct {
	CoverageRate          float64                      `json:"coverage_rate"`
	CoveredCount          int                          `json:"covered_count"`
	UncoveredCount        int                          `json:"uncovered_count"`
	TotalRequirements     int                          `json:"total_requirements"`
	CoveredRequirements   []string                     `json:"covered_requirements"`
	UncoveredRequirements []string                     `json:"uncovered_requirements"`
	Details               map[string]RequirementDetail `json:"coverage_details"`
	ThresholdUsed         float64                      `json:"threshold_used"`
}

// FeatureCount records how many cases matched one functional category.
type FeatureCount struct {
	Count   int  `json:"count"`
	Covered bool `json:"covered"`
}

// FeatureCoverage summarises functional-category coverage.
type FeatureCoverage struct {
	Features            map[string]FeatureCount `json:"feature_coverage"`
	CoveredFeatures     int                     `json:"covered_features"`
	TotalFeatures       int                     `json:"total_features"`
	FeatureCoverageRate float64                 `json:"feature_coverage_rate"`
}

// CoverageAnalysis is the full coverage metric breakdown.
type CoverageAnalysis struct {
	RequirementCoverage   RequirementCoverage `json:"requirement_coverage"`
	FeatureCoverage       FeatureCoverage     `json:"feature_coverage"`
	OverallCoverage       float64             `json:"overall_coverage"`
	RequirementsExtracted int                 `json:"requirements_extracted"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Uniqueness analysis
// ─────────────────────────────────────────────────────────────────────────────

// DuplicatePair identifies one unordered pair of duplicate cases.
// Similarity is 1.0 for exact duplicates.
type DuplicatePair struct {
	IndexA     int     `json:"index_a"`
	IndexB     int     `json:"index_b"`
	Similarity float64 `json:"similarity"`
}

// ScenarioDiversity reports how many distinct scenario categories the batch
// touches.  It is reported alongside, not blended into, the diversity score.
type ScenarioDiversity struct {
	Scenarios        map[string]int `json:"scenarios"`
	CoveredScenarios int            `json:"covered_scenarios"`
	TotalScenarios   int            `json:"total_scenarios"`
	DiversityScore   float64        `json:"diversity_score"`
}

// UniquenessAnalysis is the full uniqueness metric breakdown.
type UniquenessAnalysis struct {
	TotalCases          int               `json:"total_cases"`
	ExactDuplicates     []DuplicatePair   `json:"exact_duplicates"`
	ExactDuplicateCount int               `json:"exact_duplicate_count"`
	NearDuplicates      []DuplicatePair   `json:"near_duplicates"`
	NearDuplicateCount  int               `json:"near_duplicate_count"`
	TotalDuplicatePairs int               `json:"total_duplicate_pairs"`
	DeduplicationRate   float64           `json:"deduplication_rate"`
	DiversityScore      float64           `json:"diversity_score"`
	ScenarioDiversity   ScenarioDiversity `json:"scenario_diversity"`
	QualityLevel        string            `json:"quality_level"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Similarity analysis
// ─────────────────────────────────────────────────────────────────────────────

// Distribution carries descriptive statistics for a list of scores.
type Distribution struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
	IQR    float64 `json:"iqr"`
}

// SimilarityAnalysis is the cross-batch similarity breakdown: each generated
// case's best match against the reference batch.
type SimilarityAnalysis struct {
	TotalGenerated      int          `json:"total_generated"`
	TotalReference      int          `json:"total_reference"`
	HighSimilarityCount int          `json:"high_similarity_count"`
	LowSimilarityCount  int          `json:"low_similarity_count"`
	CoverageRate        float64      `json:"coverage_rate"`
	MeanMaxSimilarity   float64      `json:"mean_max_similarity"`
	MeanAvgSimilarity   float64      `json:"mean_avg_similarity"`
	Distribution        Distribution `json:"similarity_distribution"`
	MaxSimilarities     []float64    `json:"max_similarities"`
	AvgSimilarities     []float64    `json:"avg_similarities"`
}

// Cluster is one greedy single-linkage cluster of case indices.
type Cluster struct {
	ClusterID   int   `json:"cluster_id"`
	Size        int   `json:"size"`
	CaseIndices []int `json:"case_indices"`
}

// ClusterAnalysis is the clustering breakdown over a generated batch.
type ClusterAnalysis struct {
	TotalClusters  int       `json:"total_clusters"`
	Clusters       []Cluster `json:"cluster_info"`
	AvgClusterSize float64   `json:"avg_cluster_size"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Aggregate and comparison reports
// ─────────────────────────────────────────────────────────────────────────────

// DetailedAnalysis groups the batch-level breakdowns.  Nil members mean the
// metric was unavailable for the run (no PRD, no reference, no encoder) and
// was excluded from aggregation, never scored as zero.
type DetailedAnalysis struct {
	Uniqueness *UniquenessAnalysis `json:"uniqueness,omitempty"`
	Coverage   *CoverageAnalysis   `json:"coverage,omitempty"`
	Similarity *SimilarityAnalysis `json:"similarity,omitempty"`
}

// AggregateReport is the canonical result of one batch evaluation.
type AggregateReport struct {
	ID               string             `json:"id,omitempty"`
	Timestamp        time.Time          `json:"timestamp"`
	TotalCases       int                `json:"total_cases"`
	Evaluations      []CaseEvaluation   `json:"individual_evaluations"`
	AggregateScores  map[string]float64 `json:"aggregate_scores"`
	DetailedAnalysis DetailedAnalysis   `json:"detailed_analysis"`
	OverallScore     float64            `json:"overall_score"`
}

// ComparisonReport is the result of comparing two batch evaluations.
// Improvements holds positive score deltas (B minus A); Regressions holds the
// magnitudes of negative deltas.  OverallImprovement is (B-A)/A, and is 0
// when A's overall score is 0.
type ComparisonReport struct {
	VersionA           *AggregateReport   `json:"version1"`
	VersionB           *AggregateReport   `json:"version2"`
	Improvements       map[string]float64 `json:"improvements"`
	Regressions        map[string]float64 `json:"regressions"`
	OverallImprovement float64            `json:"overall_improvement"`
}

// QualityLevel buckets a weighted quality score into the four-tier label used
// across metrics.
func QualityLevel(score float64) string {
	switch {
	case score >= 0.85:
		return LevelExcellent
	case score >= 0.7:
		return LevelGood
	case score >= 0.5:
		return LevelMedium
	default:
		return LevelNeedsImprovement
	}
}
