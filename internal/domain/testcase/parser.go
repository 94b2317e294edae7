package testcase

import (
	"strings"

	"github.com/turtacn/CaseLens/pkg/types/report"
)

// Canonical section names, in document order.
const (
	SectionTitle        = "title"
	SectionPrecondition = "precondition"
	SectionSteps        = "steps"
	SectionExpected     = "expected_result"
)

// Sections lists the canonical section names in order.
var Sections = []string{SectionTitle, SectionPrecondition, SectionSteps, SectionExpected}

// SectionKeywords maps each section to the substrings that mark a line as
// that section's start.  Matching is case-insensitive; keywords should be
// supplied lowercase.
type SectionKeywords struct {
	Title        []string
	Precondition []string
	Steps        []string
	Expected     []string
}

// DefaultSectionKeywords returns the built-in bilingual keyword lists.
func DefaultSectionKeywords() SectionKeywords {
	return SectionKeywords{
		Title:        []string{"标题", "用例名称", "测试用例", "case name", "title"},
		Precondition: []string{"前置条件", "前提条件", "precondition", "前置", "prerequisite"},
		Steps:        []string{"操作步骤", "步骤", "操作", "steps", "操作流程", "流程"},
		Expected:     []string{"预期结果", "期望结果", "预期", "expected result", "预期输出", "结果", "expected", "expect"},
	}
}

// Parser splits a free-text case into its four canonical sections.  It is
// immutable after construction and safe for concurrent use.
type Parser struct {
	keywords map[string][]string
}

// NewParser constructs a Parser with the given keyword lists.
func NewParser(kw SectionKeywords) *Parser {
	return &Parser{keywords: map[string][]string{
		SectionTitle:        kw.Title,
		SectionPrecondition: kw.Precondition,
		SectionSteps:        kw.Steps,
		SectionExpected:     kw.Expected,
	}}
}

// NewDefaultParser constructs a Parser with DefaultSectionKeywords.
func NewDefaultParser() *Parser {
	return NewParser(DefaultSectionKeywords())
}

// Parse scans text line by line and returns the extracted structure.  A line
// containing any section keyword starts that section; content, including the
// trigger line, accumulates until the next section start.  Contiguous lines
// that re-trigger the current section merge into it; a later recurrence of a
// section after another one has started overwrites the earlier span
// (last-match-wins).  Blank lines and lines before the first section start
// are dropped.  Sections never found stay empty.  Parsing is pure and
// idempotent.
func (p *Parser) Parse(text string) report.CaseStructure {
	sections := map[string]string{}
	current := ""
	var content []string

	flush := func() {
		if current != "" {
			sections[current] = strings.TrimSpace(strings.Join(content, "\n"))
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		section := p.detect(line)
		switch {
		case section == "":
			if current != "" {
				content = append(content, line)
			}
		case section == current:
			content = append(content, line)
		default:
			flush()
			current = section
			content = []string{line}
		}
	}
	flush()

	return report.CaseStructure{
		Title:          sections[SectionTitle],
		Precondition:   sections[SectionPrecondition],
		Steps:          sections[SectionSteps],
		ExpectedResult: sections[SectionExpected],
	}
}

// detect returns the section a line starts, or "" if it starts none.
// Sections are probed in canonical order, first keyword hit wins.
func (p *Parser) detect(line string) string {
	lower := strings.ToLower(line)
	for _, section := range Sections {
		for _, kw := range p.keywords[section] {
			if strings.Contains(lower, kw) {
				return section
			}
		}
	}
	return ""
}
