// Package evaluation orchestrates the per-dimension metrics over a case
// batch and aggregates them into one weighted report, plus the
// version-to-version comparison on top.
package evaluation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/CaseLens/internal/application/scoring"
	"github.com/turtacn/CaseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseLens/pkg/errors"
	"github.com/turtacn/CaseLens/pkg/types/report"
)

// MetricWeights hold the aggregation weight of each metric.  Aggregation
// normalizes by the sum of the weights whose metrics actually ran, so absent
// metrics are excluded rather than scored zero.
type MetricWeights struct {
	Structure  float64 `mapstructure:"structure" json:"structure"`
	Coverage   float64 `mapstructure:"coverage" json:"coverage"`
	Quality    float64 `mapstructure:"quality" json:"quality"`
	Similarity float64 `mapstructure:"similarity" json:"similarity"`
	Uniqueness float64 `mapstructure:"uniqueness" json:"uniqueness"`
}

// DefaultMetricWeights returns the built-in aggregation weights.
func DefaultMetricWeights() MetricWeights {
	return MetricWeights{
		Structure:  0.2,
		Coverage:   0.25,
		Quality:    0.25,
		Similarity: 0.2,
		Uniqueness: 0.1,
	}
}

// Input is one batch evaluation request.  Reference and PRDText are
// optional; their metrics are skipped when absent.
type Input struct {
	Cases     []string `json:"cases"`
	Reference []string `json:"reference_cases,omitempty"`
	PRDText   string   `json:"prd_text,omitempty"`
}

// Evaluator runs all metrics over a batch.  It is stateless across calls:
// every evaluation works on a fresh immutable snapshot of its inputs.
type Evaluator struct {
	structure  *scoring.StructureScorer
	quality    *scoring.QualityScorer
	coverage   *scoring.CoverageAnalyzer
	uniqueness *scoring.UniquenessAnalyzer
	similarity *scoring.SimilarityAnalyzer
	hasEncoder bool
	weights    MetricWeights
	thresholds Thresholds
	logger     logging.Logger
}

// Thresholds carries the tunable matching thresholds of the batch-level
// analyzers.  Zero fields keep the scoring defaults.
type Thresholds struct {
	Overlap       float64
	NearDuplicate float64
	Similarity    float64
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithMetricWeights overrides the aggregation weights.
func WithMetricWeights(w MetricWeights) Option {
	return func(e *Evaluator) {
		if w != (MetricWeights{}) {
			e.weights = w
		}
	}
}

// WithThresholds overrides the analyzers' matching thresholds.  It has no
// effect on an analyzer that is itself overridden.
func WithThresholds(t Thresholds) Option {
	return func(e *Evaluator) {
		e.thresholds = t
	}
}

// WithCoverageAnalyzer overrides the coverage analyzer.
func WithCoverageAnalyzer(c *scoring.CoverageAnalyzer) Option {
	return func(e *Evaluator) {
		if c != nil {
			e.coverage = c
		}
	}
}

// WithStructureScorer overrides the structure scorer.
func WithStructureScorer(s *scoring.StructureScorer) Option {
	return func(e *Evaluator) {
		if s != nil {
			e.structure = s
		}
	}
}

// NewEvaluator constructs an Evaluator.  encoder may be nil: similarity
// scoring is then unavailable and uniqueness uses its degraded path.
func NewEvaluator(encoder scoring.Encoder, logger logging.Logger, opts ...Option) *Evaluator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.Named("evaluator")

	e := &Evaluator{
		quality:    scoring.NewQualityScorer(scoring.QualityWeights{}),
		hasEncoder: encoder != nil,
		weights:    DefaultMetricWeights(),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.structure == nil {
		e.structure = scoring.NewStructureScorer(nil, scoring.SectionWeights{})
	}
	if e.coverage == nil {
		var copts []scoring.CoverageOption
		if e.thresholds.Overlap > 0 {
			copts = append(copts, scoring.WithOverlapThreshold(e.thresholds.Overlap))
		}
		e.coverage = scoring.NewCoverageAnalyzer(copts...)
	}
	if e.uniqueness == nil {
		var uopts []scoring.UniquenessOption
		if e.thresholds.NearDuplicate > 0 {
			uopts = append(uopts, scoring.WithNearDuplicateThreshold(e.thresholds.NearDuplicate))
		}
		e.uniqueness = scoring.NewUniquenessAnalyzer(encoder, logger, uopts...)
	}
	if e.similarity == nil {
		var sopts []scoring.SimilarityOption
		if e.thresholds.Similarity > 0 {
			sopts = append(sopts, scoring.WithCoverageThreshold(e.thresholds.Similarity))
		}
		e.similarity = scoring.NewSimilarityAnalyzer(encoder, logger, sopts...)
	}
	return e
}

// EvaluateBatch scores every case, runs the batch-level analyses, and
// aggregates the available metrics into one report.
func (e *Evaluator) EvaluateBatch(ctx context.Context, in Input) (*report.AggregateReport, error) {
	if len(in.Cases) == 0 {
		return nil, errors.New(errors.CodeEmptyBatch, "no cases to evaluate")
	}

	started := time.Now()
	out := &report.AggregateReport{
		ID:              uuid.NewString(),
		Timestamp:       started,
		TotalCases:      len(in.Cases),
		Evaluations:     make([]report.CaseEvaluation, len(in.Cases)),
		AggregateScores: map[string]float64{},
	}

	// Per-case metrics are independent pure computations over the immutable
	// batch snapshot; the sums below are the reduction step.
	structureSum, qualitySum := 0.0, 0.0
	for i, text := range in.Cases {
		ev := e.evaluateCase(i, text, in.Cases)
		out.Evaluations[i] = ev
		structureSum += ev.StructureScore
		qualitySum += ev.QualityScore
	}
	n := float64(len(in.Cases))
	out.AggregateScores[report.MetricStructure] = structureSum / n
	out.AggregateScores[report.MetricQuality] = qualitySum / n

	uniq := e.uniqueness.Evaluate(ctx, in.Cases)
	out.DetailedAnalysis.Uniqueness = &uniq
	out.AggregateScores[report.MetricUniqueness] = uniq.DiversityScore

	if in.PRDText != "" {
		cov := e.coverage.Evaluate(in.PRDText, in.Cases)
		out.DetailedAnalysis.Coverage = &cov
		out.AggregateScores[report.MetricCoverage] = cov.OverallCoverage
	}

	if len(in.Reference) > 0 && e.hasEncoder {
		sim, err := e.similarity.EvaluateAgainstReference(ctx, in.Cases, in.Reference)
		if err != nil {
			// Metric unavailable, excluded from aggregation.
			e.logger.Warn("similarity evaluation unavailable", logging.Err(err))
		} else {
			out.DetailedAnalysis.Similarity = sim
			out.AggregateScores[report.MetricSimilarity] = sim.CoverageRate
		}
	}

	out.OverallScore = e.overallScore(out.AggregateScores)

	e.logger.Info("batch evaluated",
		logging.String("report_id", out.ID),
		logging.Int("cases", len(in.Cases)),
		logging.Float64("overall_score", out.OverallScore),
		logging.Duration("elapsed", time.Since(started)))
	return out, nil
}

// evaluateCase runs the per-case metrics; siblings for the independence
// sub-score are the batch minus the case itself.
func (e *Evaluator) evaluateCase(index int, text string, batch []string) report.CaseEvaluation {
	siblings := make([]string, 0, len(batch)-1)
	for i, other := range batch {
		if i != index {
			siblings = append(siblings, other)
		}
	}

	structure := e.structure.Evaluate(text)
	quality := e.quality.Evaluate(text, structure.Structure, siblings)

	return report.CaseEvaluation{
		CaseIndex:       index,
		CaseText:        text,
		Structure:       structure.Structure,
		StructureScore:  structure.Score,
		QualityScore:    quality.Score,
		StructureDetail: structure,
		QualityDetail:   quality,
	}
}

// overallScore is the weighted mean over the metrics present in scores,
// normalized by the weights of those metrics only.
func (e *Evaluator) overallScore(scores map[string]float64) float64 {
	weightOf := map[string]float64{
		report.MetricStructure:  e.weights.Structure,
		report.MetricQuality:    e.weights.Quality,
		report.MetricUniqueness: e.weights.Uniqueness,
		report.MetricCoverage:   e.weights.Coverage,
		report.MetricSimilarity: e.weights.Similarity,
	}

	total, weight := 0.0, 0.0
	for key, w := range weightOf {
		score, ok := scores[key]
		if !ok {
			continue
		}
		total += score * w
		weight += w
	}
	if weight == 0 {
		return 0
	}
	return total / weight
}
