package testcase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const wellFormedCase = `标题：用户登录
前置条件：已注册账号，网络正常连接
步骤：
1. 打开登录页面
2. 输入账号和密码
预期结果：登录成功并跳转到首页`

func TestParseWellFormedCase(t *testing.T) {
	s := NewDefaultParser().Parse(wellFormedCase)

	assert.Equal(t, "标题：用户登录", s.Title)
	assert.Equal(t, "前置条件：已注册账号，网络正常连接", s.Precondition)
	assert.Equal(t, "步骤：\n1. 打开登录页面\n2. 输入账号和密码", s.Steps)
	assert.Equal(t, "预期结果：登录成功并跳转到首页", s.ExpectedResult)
}

func TestParseMarkdownHeadings(t *testing.T) {
	text := "# Login\n## Steps\n- enter username\n- enter password\n## Expected\n- redirected to home"

	s := NewDefaultParser().Parse(text)

	assert.Empty(t, s.Title) // "# Login" carries no section keyword
	assert.Equal(t, "## Steps\n- enter username\n- enter password", s.Steps)
	assert.Equal(t, "## Expected\n- redirected to home", s.ExpectedResult)
}

func TestParseMergesContiguousRun(t *testing.T) {
	text := "步骤1：打开页面\n步骤2：输入账号"

	s := NewDefaultParser().Parse(text)

	assert.Equal(t, "步骤1：打开页面\n步骤2：输入账号", s.Steps)
}

func TestParseLastMatchWins(t *testing.T) {
	text := "步骤：第一步\n预期结果：成功\n步骤：第二步"

	s := NewDefaultParser().Parse(text)

	assert.Equal(t, "步骤：第二步", s.Steps)
	assert.Equal(t, "预期结果：成功", s.ExpectedResult)
}

func TestParseSkipsBlankAndLeadingLines(t *testing.T) {
	text := "随便写点引言\n\n\n前置条件：已登录\n\n步骤：点开菜单\n"

	s := NewDefaultParser().Parse(text)

	assert.Equal(t, "前置条件：已登录", s.Precondition)
	assert.Equal(t, "步骤：点开菜单", s.Steps)
	assert.Empty(t, s.Title)
}

func TestParseEmptyText(t *testing.T) {
	s := NewDefaultParser().Parse("")
	assert.Empty(t, s.Title)
	assert.Empty(t, s.Precondition)
	assert.Empty(t, s.Steps)
	assert.Empty(t, s.ExpectedResult)
}

func TestParseIdempotent(t *testing.T) {
	p := NewDefaultParser()

	first := p.Parse(wellFormedCase)
	rejoined := strings.Join([]string{
		first.Title, first.Precondition, first.Steps, first.ExpectedResult,
	}, "\n")
	second := p.Parse(rejoined)

	assert.Equal(t, first, second)
}

func TestNewBatch(t *testing.T) {
	batch := NewBatch([]string{" a ", "b"})
	assert.Len(t, batch, 2)
	assert.Equal(t, 1, batch[1].Index)
	assert.Equal(t, "a", batch[0].Trimmed())
}
