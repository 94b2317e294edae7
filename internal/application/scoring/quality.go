package scoring

import (
	"regexp"
	"strings"

	"github.com/turtacn/CaseLens/internal/domain/keyword"
	"github.com/turtacn/CaseLens/pkg/types/report"
)

// QualityWeights hold the sub-score weights of the content-quality metric.
type QualityWeights struct {
	Clarity       float64 `mapstructure:"clarity" json:"clarity"`
	Completeness  float64 `mapstructure:"completeness" json:"completeness"`
	Executability float64 `mapstructure:"executability" json:"executability"`
	Independence  float64 `mapstructure:"independence" json:"independence"`
	Specificity   float64 `mapstructure:"specificity" json:"specificity"`
}

// DefaultQualityWeights returns the built-in sub-score weighting.
func DefaultQualityWeights() QualityWeights {
	return QualityWeights{
		Clarity:       0.2,
		Completeness:  0.25,
		Executability: 0.2,
		Independence:  0.15,
		Specificity:   0.2,
	}
}

// Heuristic vocabularies, bilingual.  Counted once per distinct word found.
var (
	vagueWords = []string{
		"可能", "也许", "似乎", "大概", "大约", "左右", "等等", "之类",
		"maybe", "perhaps", "possibly", "roughly", "approximately", "somehow",
	}
	actionVerbs = []string{
		"点击", "输入", "选择", "勾选", "取消", "打开", "关闭", "提交", "确认", "删除",
		"click", "enter", "input", "select", "open", "close", "submit", "confirm", "delete",
	}
	resultWords = []string{
		"显示", "出现", "成功", "失败", "错误", "提示", "返回", "跳转",
		"display", "appear", "success", "fail", "error", "prompt", "redirect",
	}
	uiElements = []string{
		"按钮", "输入框", "下拉框", "复选框", "单选框", "文本框", "链接", "菜单",
		"button", "textbox", "dropdown", "checkbox", "radio", "link", "menu",
	}
)

var (
	stepMarkPattern    = regexp.MustCompile(`(?m)\d+\.|步骤\d+|^-`)
	expectWordPattern  = regexp.MustCompile(`(?i)预期|期望|应该|应当|会|expected|should|shall`)
	inputWordPattern   = regexp.MustCompile(`(?i)输入|填写|输入框|文本框|input|enter|field`)
	literalPattern     = regexp.MustCompile(`[0-9]+|"[^"]*"|'[^']*'`)
	numberingPattern   = regexp.MustCompile(`\d+\.|步骤\d+`)
	verifyWordPattern  = regexp.MustCompile(`(?i)验证|检查|确认|查看|verify|check|confirm|view`)
)

// QualityScorer scores clarity, completeness, executability, independence and
// specificity of one case, weighted into a single quality score.
type QualityScorer struct {
	weights QualityWeights
}

// NewQualityScorer constructs a scorer; zero weights mean the defaults.
func NewQualityScorer(weights QualityWeights) *QualityScorer {
	if weights == (QualityWeights{}) {
		weights = DefaultQualityWeights()
	}
	return &QualityScorer{weights: weights}
}

// Evaluate scores one case.  structure is its parsed form; siblings are the
// other cases of the batch, read-only, used by the independence sub-score.
func (q *QualityScorer) Evaluate(text string, structure report.CaseStructure, siblings []string) report.QualityResult {
	clarity := checkClarity(text)
	completeness := checkCompleteness(structure)
	executability := checkExecutability(text)
	independence := checkIndependence(text, siblings)
	specificity := checkSpecificity(text)

	score := clarity*q.weights.Clarity +
		completeness*q.weights.Completeness +
		executability*q.weights.Executability +
		independence*q.weights.Independence +
		specificity*q.weights.Specificity

	return report.QualityResult{
		Clarity:       clarity,
		Completeness:  completeness,
		Executability: executability,
		Independence:  independence,
		Specificity:   specificity,
		Score:         score,
		Level:         report.QualityLevel(score),
	}
}

// checkClarity starts at 0.5, penalizes hedging words and rewards concrete
// action verbs and result words, each contribution capped.
func checkClarity(text string) float64 {
	if text == "" {
		return 0
	}
	lower := strings.ToLower(text)

	penalty := min(float64(countPresent(lower, vagueWords))*0.1, 0.3)
	actions := min(float64(countPresent(lower, actionVerbs))*0.05, 0.3)
	results := min(float64(countPresent(lower, resultWords))*0.05, 0.2)

	return clamp01(0.5 - penalty + actions + results)
}

// checkCompleteness is an additive rubric over the parsed sections; the tier
// bonuses sum to 1 when every section is at its ideal shape.
func checkCompleteness(structure report.CaseStructure) float64 {
	score := 0.0

	switch n := runeLen(structure.Title); {
	case n >= 10 && n <= 100:
		score += 0.15
	case n > 0:
		score += 0.08
	}

	switch n := runeLen(structure.Precondition); {
	case n >= 20:
		score += 0.2
	case n > 0:
		score += 0.1
	}

	stepLen := runeLen(structure.Steps)
	items := len(stepItemPattern.FindAllString(structure.Steps, -1))
	switch {
	case stepLen >= 50 && items >= 2:
		score += 0.35
	case stepLen >= 30:
		score += 0.2
	case stepLen > 0:
		score += 0.1
	}

	switch n := runeLen(structure.ExpectedResult); {
	case n >= 20:
		score += 0.3
	case n > 0:
		score += 0.15
	}

	return clamp01(score)
}

// checkExecutability starts at 0.5 and rewards enumerated steps, expectation
// language and concrete input-field language.
func checkExecutability(text string) float64 {
	score := 0.5
	if stepMarkPattern.MatchString(text) {
		score += 0.2
	}
	if expectWordPattern.MatchString(text) {
		score += 0.2
	}
	if inputWordPattern.MatchString(text) {
		score += 0.1
	}
	return clamp01(score)
}

// checkIndependence is 1 minus the mean word-level Jaccard similarity against
// every sibling; a case without siblings is fully independent.
func checkIndependence(text string, siblings []string) float64 {
	if len(siblings) == 0 {
		return 1.0
	}
	words := keyword.Words(text)

	sum := 0.0
	for _, other := range siblings {
		sum += keyword.Jaccard(words, keyword.Words(other))
	}
	return clamp01(1.0 - sum/float64(len(siblings)))
}

// checkSpecificity rewards UI-element vocabulary, concrete literals, explicit
// numbering and verification vocabulary, capped per category.
func checkSpecificity(text string) float64 {
	lower := strings.ToLower(text)

	score := min(float64(countPresent(lower, uiElements))*0.1, 0.3)
	if literalPattern.MatchString(text) {
		score += 0.3
	}
	if numberingPattern.MatchString(text) {
		score += 0.2
	}
	if verifyWordPattern.MatchString(text) {
		score += 0.2
	}
	return clamp01(score)
}

// countPresent counts how many vocabulary words occur in lower at least once.
func countPresent(lower string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(lower, w) {
			n++
		}
	}
	return n
}

