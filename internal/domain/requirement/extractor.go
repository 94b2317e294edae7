// Package requirement extracts discrete requirement statements from a PRD
// document via section detection and heuristic sentence patterns.
package requirement

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/turtacn/CaseLens/internal/domain/keyword"
)

// Requirement is one normalized obligation statement extracted from the PRD,
// together with its derived keyword set.
type Requirement struct {
	Text     string
	Keywords keyword.Set
}

// MinTextLength is the shortest normalized text accepted as a requirement,
// in runes.
const MinTextLength = 2

// Config carries the extraction tables.  Zero-value fields fall back to the
// built-in defaults.
type Config struct {
	// SectionTitles name the headings whose bodies hold requirement lists.
	// Matched case-insensitively against the full heading title.
	SectionTitles []string

	// Tokenizer derives each requirement's keyword set.  Nil means the
	// default requirement-side tokenizer.
	Tokenizer *keyword.Tokenizer
}

// DefaultSectionTitles returns the built-in bilingual list of requirement
// section headings.
func DefaultSectionTitles() []string {
	return []string{
		"业务规则", "功能规则", "功能需求", "需求列表", "需求点", "规则", "业务约束", "验收标准",
		"business rules", "functional requirements", "requirements", "acceptance criteria",
	}
}

var (
	headingPattern = regexp.MustCompile(`^(#{1,6})\s*(.+?)\s*$`)

	bulletPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^[-*•]\s+(.+)$`),
		regexp.MustCompile(`^\d+[.、)]\s*(.+)$`),
		regexp.MustCompile(`^[（(]?\d+[）)]\s*(.+)$`),
	}

	sentencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`[应需必]该[^。！？]*[。！？]`),
		regexp.MustCompile(`[应需必]要[^。！？]*[。！？]`),
		regexp.MustCompile(`用户[^。！？]*[。！？]`),
		regexp.MustCompile(`系统[^。！？]*[。！？]`),
		regexp.MustCompile(`(?i)[^.!?\n]*\b(?:must|should|shall)\b[^.!?\n]*[.!?]`),
		regexp.MustCompile(`(?i)[^.!?\n]*\b(?:user|system)s?\b[^.!?\n]*[.!?]`),
	}

	trailingPunct = regexp.MustCompile(`[。．.\s]+$`)
)

// Extractor parses a PRD into requirements.  Immutable after construction,
// safe for concurrent use.
type Extractor struct {
	sectionTitles map[string]struct{}
	tokenizer     *keyword.Tokenizer
}

// NewExtractor constructs an Extractor from cfg.
func NewExtractor(cfg Config) *Extractor {
	titles := cfg.SectionTitles
	if len(titles) == 0 {
		titles = DefaultSectionTitles()
	}
	e := &Extractor{
		sectionTitles: make(map[string]struct{}, len(titles)),
		tokenizer:     cfg.Tokenizer,
	}
	for _, t := range titles {
		e.sectionTitles[strings.ToLower(t)] = struct{}{}
	}
	if e.tokenizer == nil {
		e.tokenizer = keyword.NewRequirementTokenizer()
	}
	return e
}

// NewDefaultExtractor constructs an Extractor with the built-in tables.
func NewDefaultExtractor() *Extractor {
	return NewExtractor(Config{})
}

// Extract returns the requirements of prdText in order of appearance,
// deduplicated by normalized text.
//
// Candidates come from three sources feeding one pool: bullet and numbered
// items under a recognized requirement section heading, sentence-pattern
// matches anywhere in the document, and, only when the pool would otherwise
// be empty, bullet items from the whole document.
func (e *Extractor) Extract(prdText string) []Requirement {
	var candidates []string

	candidates = append(candidates, extractBullets(e.sectionBody(prdText))...)
	candidates = append(candidates, extractSentences(prdText)...)
	if len(candidates) == 0 {
		candidates = extractBullets(prdText)
	}

	seen := make(map[string]struct{}, len(candidates))
	out := make([]Requirement, 0, len(candidates))
	for _, c := range candidates {
		text := normalizeLine(c)
		if utf8.RuneCountInString(text) < MinTextLength {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		out = append(out, Requirement{Text: text, Keywords: e.tokenizer.Keywords(text)})
	}
	return out
}

// sectionBody returns the body of the first recognized requirement section:
// the lines after its heading up to the next heading of equal or shallower
// level, or "" when no recognized heading exists.
func (e *Extractor) sectionBody(prdText string) string {
	lines := strings.Split(prdText, "\n")
	start, level := -1, 0

	for i, raw := range lines {
		m := headingPattern.FindStringSubmatch(strings.TrimSpace(raw))
		if m == nil {
			continue
		}
		if _, ok := e.sectionTitles[strings.ToLower(m[2])]; ok {
			start, level = i+1, len(m[1])
			break
		}
	}
	if start < 0 {
		return ""
	}

	var body []string
	for _, raw := range lines[start:] {
		if m := headingPattern.FindStringSubmatch(strings.TrimSpace(raw)); m != nil && len(m[1]) <= level {
			break
		}
		body = append(body, raw)
	}
	return strings.Join(body, "\n")
}

func extractBullets(text string) []string {
	if text == "" {
		return nil
	}
	var items []string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		for _, pat := range bulletPatterns {
			if m := pat.FindStringSubmatch(line); m != nil {
				if item := normalizeLine(m[1]); item != "" {
					items = append(items, item)
				}
				break
			}
		}
	}
	return items
}

func extractSentences(text string) []string {
	var out []string
	for _, pat := range sentencePatterns {
		out = append(out, pat.FindAllString(text, -1)...)
	}
	return out
}

func normalizeLine(s string) string {
	return trailingPunct.ReplaceAllString(strings.TrimSpace(s), "")
}
