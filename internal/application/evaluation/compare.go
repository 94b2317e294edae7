package evaluation

import (
	"context"

	"github.com/turtacn/CaseLens/pkg/types/report"
)

// CompareInput is one version-to-version comparison request.  Both versions
// are evaluated against the same optional reference batch and PRD.
type CompareInput struct {
	VersionA  []string `json:"version1_cases"`
	VersionB  []string `json:"version2_cases"`
	Reference []string `json:"reference_cases,omitempty"`
	PRDText   string   `json:"prd_text,omitempty"`
}

// CompareVersions evaluates both batches independently and diffs every
// metric present in both aggregate-score maps.  Positive deltas (B minus A)
// land in Improvements, negative ones in Regressions as magnitudes.
func (e *Evaluator) CompareVersions(ctx context.Context, in CompareInput) (*report.ComparisonReport, error) {
	evalA, err := e.EvaluateBatch(ctx, Input{Cases: in.VersionA, Reference: in.Reference, PRDText: in.PRDText})
	if err != nil {
		return nil, err
	}
	evalB, err := e.EvaluateBatch(ctx, Input{Cases: in.VersionB, Reference: in.Reference, PRDText: in.PRDText})
	if err != nil {
		return nil, err
	}

	out := &report.ComparisonReport{
		VersionA:     evalA,
		VersionB:     evalB,
		Improvements: map[string]float64{},
		Regressions:  map[string]float64{},
	}

	for metric, scoreA := range evalA.AggregateScores {
		scoreB, ok := evalB.AggregateScores[metric]
		if !ok {
			continue
		}
		switch delta := scoreB - scoreA; {
		case delta > 0:
			out.Improvements[metric] = delta
		case delta < 0:
			out.Regressions[metric] = -delta
		}
	}

	if evalA.OverallScore > 0 {
		out.OverallImprovement = (evalB.OverallScore - evalA.OverallScore) / evalA.OverallScore
	}
	return out, nil
}
