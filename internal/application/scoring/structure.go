package scoring

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/turtacn/CaseLens/internal/domain/testcase"
	"github.com/turtacn/CaseLens/pkg/types/report"
)

// SectionWeights hold the per-section weights of the structure metric.  They
// are expected to sum to 1.
type SectionWeights struct {
	Title        float64 `mapstructure:"title" json:"title"`
	Precondition float64 `mapstructure:"precondition" json:"precondition"`
	Steps        float64 `mapstructure:"steps" json:"steps"`
	Expected     float64 `mapstructure:"expected_result" json:"expected_result"`
}

// DefaultSectionWeights returns the built-in section weighting.
func DefaultSectionWeights() SectionWeights {
	return SectionWeights{Title: 0.1, Precondition: 0.2, Steps: 0.4, Expected: 0.3}
}

// stepItemPattern counts numbered or bulleted sub-items inside a steps block.
var stepItemPattern = regexp.MustCompile(`(?m)(^\s*\d+\.|步骤\d+|^-\s+)`)

// StructureScorer scores the structural completeness of a case: presence and
// a length/shape quality rubric per section, 50/50, combined across sections
// with SectionWeights.
type StructureScorer struct {
	parser  *testcase.Parser
	weights SectionWeights
}

// NewStructureScorer constructs a scorer over the given parser.  A nil parser
// means the default one; zero weights mean DefaultSectionWeights.
func NewStructureScorer(parser *testcase.Parser, weights SectionWeights) *StructureScorer {
	if parser == nil {
		parser = testcase.NewDefaultParser()
	}
	if weights == (SectionWeights{}) {
		weights = DefaultSectionWeights()
	}
	return &StructureScorer{parser: parser, weights: weights}
}

// Evaluate parses text and returns the full structure breakdown.
func (s *StructureScorer) Evaluate(text string) report.StructureResult {
	structure := s.parser.Parse(text)
	presence := map[string]bool{
		testcase.SectionTitle:        structure.Title != "",
		testcase.SectionPrecondition: structure.Precondition != "",
		testcase.SectionSteps:        structure.Steps != "",
		testcase.SectionExpected:     structure.ExpectedResult != "",
	}
	quality := map[string]float64{
		testcase.SectionTitle:        titleQuality(structure.Title),
		testcase.SectionPrecondition: lengthQuality(structure.Precondition),
		testcase.SectionSteps:        stepsQuality(structure.Steps),
		testcase.SectionExpected:     lengthQuality(structure.ExpectedResult),
	}

	perSection := func(section string, weight float64) float64 {
		p := 0.0
		if presence[section] {
			p = 1.0
		}
		return (p*0.5 + quality[section]*0.5) * weight
	}

	score := perSection(testcase.SectionTitle, s.weights.Title) +
		perSection(testcase.SectionPrecondition, s.weights.Precondition) +
		perSection(testcase.SectionSteps, s.weights.Steps) +
		perSection(testcase.SectionExpected, s.weights.Expected)

	return report.StructureResult{
		Structure: structure,
		Presence:  presence,
		Quality:   quality,
		Score:     score,
	}
}

// titleQuality prefers concise titles: 10-50 runes is ideal, near misses get
// partial credit.
func titleQuality(title string) float64 {
	n := runeLen(title)
	switch {
	case n == 0:
		return 0
	case n >= 10 && n <= 50:
		return 1.0
	case (n >= 5 && n < 10) || (n > 50 && n <= 100):
		return 0.7
	default:
		return 0.4
	}
}

// lengthQuality is the rubric shared by precondition and expected result.
func lengthQuality(content string) float64 {
	n := runeLen(content)
	switch {
	case n == 0:
		return 0
	case n >= 20:
		return 1.0
	case n >= 10:
		return 0.6
	default:
		return 0.3
	}
}

// stepsQuality wants a long block with at least two enumerated sub-items.
func stepsQuality(steps string) float64 {
	n := runeLen(steps)
	if n == 0 {
		return 0
	}
	items := len(stepItemPattern.FindAllString(steps, -1))
	switch {
	case n >= 50 && items >= 2:
		return 1.0
	case n >= 30 && items >= 1:
		return 0.7
	default:
		return 0.4
	}
}

func runeLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}
