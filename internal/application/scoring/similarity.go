package scoring

import (
	"context"

	"github.com/turtacn/CaseLens/internal/domain/stats"
	"github.com/turtacn/CaseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseLens/pkg/errors"
	"github.com/turtacn/CaseLens/pkg/types/report"
)

// Thresholds of the cross-batch similarity metric.
const (
	DefaultSimilarityCoverageThreshold = 0.7
	DefaultLowSimilarityThreshold      = 0.5
	DefaultClusterThreshold            = 0.7
)

// SimilarityAnalyzer scores a generated batch against a reference batch via
// the embedding encoder, and clusters a batch by semantic similarity.
type SimilarityAnalyzer struct {
	encoder           Encoder
	logger            logging.Logger
	coverageThreshold float64
	lowThreshold      float64
}

// SimilarityOption configures a SimilarityAnalyzer.
type SimilarityOption func(*SimilarityAnalyzer)

// WithCoverageThreshold overrides the high-similarity coverage threshold.
func WithCoverageThreshold(t float64) SimilarityOption {
	return func(s *SimilarityAnalyzer) {
		if t > 0 {
			s.coverageThreshold = t
		}
	}
}

// NewSimilarityAnalyzer constructs an analyzer over encoder.
func NewSimilarityAnalyzer(encoder Encoder, logger logging.Logger, opts ...SimilarityOption) *SimilarityAnalyzer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &SimilarityAnalyzer{
		encoder:           encoder,
		logger:            logger.Named("similarity"),
		coverageThreshold: DefaultSimilarityCoverageThreshold,
		lowThreshold:      DefaultLowSimilarityThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EvaluateAgainstReference encodes both batches (one provider call each),
// builds the cosine matrix, and reports each generated case's best reference
// match.  Provider failure returns an error; callers exclude the metric
// rather than score it zero.
func (s *SimilarityAnalyzer) EvaluateAgainstReference(ctx context.Context, generated, reference []string) (*report.SimilarityAnalysis, error) {
	if s.encoder == nil {
		return nil, errors.New(errors.CodeEmbeddingUnavailable, "no encoder configured")
	}
	if len(generated) == 0 || len(reference) == 0 {
		return nil, errors.New(errors.CodeInvalidInput, "both batches must be non-empty")
	}

	genVecs, err := s.encoder.Encode(ctx, generated)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeEmbeddingUnavailable, "encode generated batch")
	}
	refVecs, err := s.encoder.Encode(ctx, reference)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeEmbeddingUnavailable, "encode reference batch")
	}

	matrix := CosineMatrix(genVecs, refVecs)

	maxSims := make([]float64, len(generated))
	avgSims := make([]float64, len(generated))
	high, low := 0, 0
	for i, row := range matrix {
		best, sum := 0.0, 0.0
		for _, sim := range row {
			if sim > best {
				best = sim
			}
			sum += sim
		}
		maxSims[i] = best
		avgSims[i] = sum / float64(len(row))
		if best >= s.coverageThreshold {
			high++
		}
		if best < s.lowThreshold {
			low++
		}
	}

	s.logger.Debug("scored batch against reference",
		logging.Int("generated", len(generated)),
		logging.Int("reference", len(reference)),
		logging.Int("high_similarity", high))

	return &report.SimilarityAnalysis{
		TotalGenerated:      len(generated),
		TotalReference:      len(reference),
		HighSimilarityCount: high,
		LowSimilarityCount:  low,
		CoverageRate:        float64(high) / float64(len(generated)),
		MeanMaxSimilarity:   stats.Mean(maxSims),
		MeanAvgSimilarity:   stats.Mean(avgSims),
		Distribution:        stats.Describe(maxSims),
		MaxSimilarities:     maxSims,
		AvgSimilarities:     avgSims,
	}, nil
}

// Cluster groups cases by greedy single linkage: walk the batch in order,
// open a cluster at each unvisited case, absorb every later unvisited case
// whose similarity to the cluster seed reaches threshold.  A case similar to
// a later cluster member but not the seed stays outside that cluster; this
// recall limit is part of the reported algorithm, not transitive closure.
func (s *SimilarityAnalyzer) Cluster(ctx context.Context, cases []string, threshold float64) (*report.ClusterAnalysis, error) {
	if s.encoder == nil {
		return nil, errors.New(errors.CodeEmbeddingUnavailable, "no encoder configured")
	}
	if threshold <= 0 {
		threshold = DefaultClusterThreshold
	}
	if len(cases) == 0 {
		return &report.ClusterAnalysis{}, nil
	}

	vectors, err := s.encoder.Encode(ctx, cases)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeEmbeddingUnavailable, "encode batch")
	}

	visited := make([]bool, len(cases))
	var clusters []report.Cluster
	for i := range cases {
		if visited[i] {
			continue
		}
		visited[i] = true
		members := []int{i}
		for j := i + 1; j < len(cases); j++ {
			if visited[j] {
				continue
			}
			if Cosine(vectors[i], vectors[j]) >= threshold {
				visited[j] = true
				members = append(members, j)
			}
		}
		clusters = append(clusters, report.Cluster{
			ClusterID:   len(clusters),
			Size:        len(members),
			CaseIndices: members,
		})
	}

	total := 0
	for _, c := range clusters {
		total += c.Size
	}
	return &report.ClusterAnalysis{
		TotalClusters:  len(clusters),
		Clusters:       clusters,
		AvgClusterSize: float64(total) / float64(len(clusters)),
	}, nil
}
