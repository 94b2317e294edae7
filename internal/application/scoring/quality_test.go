package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/CaseLens/internal/domain/testcase"
	"github.com/turtacn/CaseLens/pkg/types/report"
)

func TestQualityEvaluateWeightsSubScores(t *testing.T) {
	structure := testcase.NewDefaultParser().Parse(completeCase)
	r := NewQualityScorer(QualityWeights{}).Evaluate(completeCase, structure, nil)

	want := r.Clarity*0.2 + r.Completeness*0.25 + r.Executability*0.2 +
		r.Independence*0.15 + r.Specificity*0.2
	assert.InDelta(t, want, r.Score, 1e-9)
	assert.Equal(t, report.QualityLevel(r.Score), r.Level)
	// No siblings means fully independent.
	assert.InDelta(t, 1.0, r.Independence, 1e-9)
}

func TestClarityRewardsAndPenalties(t *testing.T) {
	assert.Zero(t, checkClarity(""))

	// Four hedging words cap the penalty at 0.3.
	vague := "可能也许似乎大概是某种状况"
	assert.InDelta(t, 0.2, checkClarity(vague), 1e-9)

	// Action verbs and result words raise above baseline.
	concrete := "点击按钮，输入文本，提交表单，显示成功提示"
	assert.Greater(t, checkClarity(concrete), 0.5)
}

func TestExecutabilityTiers(t *testing.T) {
	bare := checkExecutability("一段没有任何结构的描述")
	assert.InDelta(t, 0.5, bare, 1e-9)

	full := checkExecutability("1. 输入账号\n2. 点击登录\n预期跳转到首页")
	assert.InDelta(t, 1.0, full, 1e-9)
}

func TestIndependenceAgainstSiblings(t *testing.T) {
	assert.InDelta(t, 1.0, checkIndependence("anything", nil), 1e-9)

	// Identical sibling text collapses independence to zero.
	text := "verify login works"
	assert.InDelta(t, 0.0, checkIndependence(text, []string{text}), 1e-9)

	// Disjoint sibling keeps it at one.
	assert.InDelta(t, 1.0, checkIndependence("alpha beta", []string{"gamma delta"}), 1e-9)
}

func TestSpecificityBonuses(t *testing.T) {
	assert.Zero(t, checkSpecificity("没有任何具体内容"))

	specific := `1. 在输入框中输入 "admin" 和 123456
2. 点击按钮并验证菜单显示`
	// UI elements (输入框, 按钮, 菜单, input) cap at 0.3; literals, numbering
	// and verification words add their full bonuses.
	assert.InDelta(t, 1.0, checkSpecificity(specific), 1e-9)
}

func TestCompletenessAdditiveTiers(t *testing.T) {
	full := testcase.NewDefaultParser().Parse(completeCase)
	assert.InDelta(t, 1.0, checkCompleteness(full), 1e-9)

	assert.Zero(t, checkCompleteness(report.CaseStructure{}))

	partial := report.CaseStructure{Title: "短", ExpectedResult: "登录成功"}
	// Present-but-thin sections earn the reduced tier only.
	assert.InDelta(t, 0.08+0.15, checkCompleteness(partial), 1e-9)
}
