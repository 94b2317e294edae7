package keyword

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordsMixedScript(t *testing.T) {
	tok := NewCaseTokenizer()

	got := tok.Keywords("点击登录按钮, enter Username and PASSWORD")

	// Action verbs and glue are dropped; ASCII is lowercased and folded to
	// the canonical zh token.
	assert.True(t, got.Contains("登录"))
	assert.True(t, got.Contains("账号"))
	assert.True(t, got.Contains("密码"))
	assert.False(t, got.Contains("点击"))
	assert.False(t, got.Contains("按钮"))
	assert.False(t, got.Contains("enter"))
	assert.False(t, got.Contains("username"))
}

func TestKeywordsRequirementSide(t *testing.T) {
	tok := NewRequirementTokenizer()

	got := tok.Keywords("The user must log in with a valid account")

	assert.Equal(t, []string{"valid", "登录", "账号"}, got.Sorted())
}

func TestShortHanRunsStayWhole(t *testing.T) {
	tok := NewTokenizer(Config{})

	got := tok.Keywords("登录 验证码")
	assert.True(t, got.Contains("登录"))
	assert.True(t, got.Contains("验证码"))
	assert.Equal(t, 2, got.Len())
}

func TestLongHanRunShatters(t *testing.T) {
	tok := NewTokenizer(Config{})

	got := tok.Keywords("用户登录系统")
	// 2-grams of a 6-rune run.
	for _, g := range []string{"用户", "户登", "登录", "录系", "系统"} {
		assert.True(t, got.Contains(g), g)
	}
	// 3-grams follow.
	assert.True(t, got.Contains("用户登"))
	// The run itself is not a token.
	assert.False(t, got.Contains("用户登录系统"))
}

func TestShatterCapIsDeterministic(t *testing.T) {
	runes := []rune("一二三四五六七八九十壹贰叁肆伍陆柒捌玖拾")
	require.Greater(t, len(runes), 15)

	first := shatter(runes, DefaultMaxGramsPerRun)
	assert.Len(t, first, DefaultMaxGramsPerRun)
	// 2-grams come first, in reading order.
	assert.Equal(t, "一二", first[0])
	assert.Equal(t, "二三", first[1])
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, shatter(runes, DefaultMaxGramsPerRun))
	}
}

func TestSingleRuneTokensDropped(t *testing.T) {
	tok := NewTokenizer(Config{})
	got := tok.Keywords("a 中 b7")
	assert.Equal(t, []string{"b7"}, got.Sorted())
}

func TestKeywordsEmptyInput(t *testing.T) {
	tok := NewCaseTokenizer()
	assert.Zero(t, tok.Keywords("").Len())
	assert.Zero(t, tok.Keywords("  ,。！  ").Len())
}

func TestWords(t *testing.T) {
	got := Words("click the Login button, 输入密码 again")
	assert.True(t, got.Contains("Login"))
	assert.True(t, got.Contains("输入密码"))
	assert.False(t, got.Contains(","))
}

func TestCoarse(t *testing.T) {
	got := Coarse("验证 登录，然后 的 ok done")
	assert.True(t, got.Contains("验证"))
	assert.True(t, got.Contains("登录"))
	assert.True(t, got.Contains("然后"))
	assert.False(t, got.Contains("的"))
	assert.True(t, got.Contains("ok"))
}

func TestSynonymAppliedAfterStopwords(t *testing.T) {
	// A synonym target must survive even when the source spelling differs.
	tok := NewTokenizer(Config{
		Stopwords: []string{"登录"},
		Synonyms:  map[string]string{"login": "登录"},
	})
	got := tok.Keywords("login 登录")
	// The raw zh token is stopworded before folding; the ASCII alias is not.
	assert.True(t, got.Contains("登录"))
	assert.Equal(t, 1, got.Len())
}

func TestNormalizationNFC(t *testing.T) {
	tok := NewTokenizer(Config{})
	// NFC makes the composed and combining-accent spellings tokenize alike.
	composed := tok.Keywords("cafés")
	decomposed := tok.Keywords("cafés")
	assert.Equal(t, composed.Sorted(), decomposed.Sorted())
}

func TestCaseStopwordsSupersetOfRequirement(t *testing.T) {
	cs := make(map[string]struct{})
	for _, w := range CaseStopwords() {
		cs[w] = struct{}{}
	}
	for _, w := range RequirementStopwords() {
		_, ok := cs[w]
		assert.True(t, ok, w)
	}
	assert.True(t, strings.Contains(strings.Join(CaseStopwords(), " "), "点击"))
}
