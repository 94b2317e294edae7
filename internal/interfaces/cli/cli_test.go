package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CaseLens/pkg/types/report"
)

const caseBatch = `标题：登录成功
前置条件：用户已注册
步骤：1. 输入账号密码 2. 点击登录
预期结果：跳转到首页

标题：登录失败
前置条件：用户已注册
步骤：1. 输入错误密码 2. 点击登录
预期结果：提示密码错误`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEvaluateTextOutput(t *testing.T) {
	dir := t.TempDir()
	cases := writeFile(t, dir, "cases.txt", caseBatch)

	out, err := runCommand(t, "evaluate", "--cases", cases)
	require.NoError(t, err)
	assert.Contains(t, out, "测试用例自动化评测报告")
	assert.Contains(t, out, "总用例数: 2")
	assert.Contains(t, out, "avg_structure_score")
}

func TestEvaluateJSONOutputToFile(t *testing.T) {
	dir := t.TempDir()
	cases := writeFile(t, dir, "cases.txt", caseBatch)
	outPath := filepath.Join(dir, "report.json")

	_, err := runCommand(t, "evaluate", "--cases", cases, "--format", "json", "--output", outPath)
	require.NoError(t, err)

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var rep report.AggregateReport
	require.NoError(t, json.Unmarshal(raw, &rep))
	assert.Equal(t, 2, rep.TotalCases)
	assert.NotEmpty(t, rep.ID)
	assert.Contains(t, rep.AggregateScores, report.MetricStructure)
}

func TestEvaluateWithPRDAddsCoverage(t *testing.T) {
	dir := t.TempDir()
	cases := writeFile(t, dir, "cases.txt", caseBatch)
	prd := writeFile(t, dir, "prd.md", "## 需求列表\n- 用户必须能够登录\n- 登录失败时必须提示错误\n")

	outPath := filepath.Join(dir, "report.json")
	_, err := runCommand(t, "evaluate", "--cases", cases, "--prd", prd, "--format", "json", "--output", outPath)
	require.NoError(t, err)

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var rep report.AggregateReport
	require.NoError(t, json.Unmarshal(raw, &rep))
	assert.Contains(t, rep.AggregateScores, report.MetricCoverage)
	require.NotNil(t, rep.DetailedAnalysis.Coverage)
}

func TestEvaluateMissingCasesFile(t *testing.T) {
	_, err := runCommand(t, "evaluate", "--cases", "/nonexistent/cases.txt")
	assert.Error(t, err)
}

func TestEvaluateRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	cases := writeFile(t, dir, "cases.txt", caseBatch)

	_, err := runCommand(t, "evaluate", "--cases", cases, "--format", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestCompareTextOutput(t *testing.T) {
	dir := t.TempDir()
	v1 := writeFile(t, dir, "v1.txt", "标题：登录\n步骤：1. 登录")
	v2 := writeFile(t, dir, "v2.txt", caseBatch)

	out, err := runCommand(t, "compare", "--version1", v1, "--version2", v2)
	require.NoError(t, err)
	assert.Contains(t, out, "测试用例版本对比报告")
	assert.Contains(t, out, "版本一综合分数")
}

func TestCompareRequiresBothVersions(t *testing.T) {
	dir := t.TempDir()
	v1 := writeFile(t, dir, "v1.txt", caseBatch)

	_, err := runCommand(t, "compare", "--version1", v1)
	assert.Error(t, err)
}

func TestMarkdownCasesSplitOnHeadings(t *testing.T) {
	dir := t.TempDir()
	md := writeFile(t, dir, "cases.md", "# 用例一\n步骤：1. 打开\n\n# 用例二\n步骤：1. 关闭\n")

	outPath := filepath.Join(dir, "report.json")
	_, err := runCommand(t, "evaluate", "--cases", md, "--format", "json", "--output", outPath)
	require.NoError(t, err)

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var rep report.AggregateReport
	require.NoError(t, json.Unmarshal(raw, &rep))
	assert.Equal(t, 2, rep.TotalCases)
}
