// Package ingest turns raw batch input into individual test case texts.
// Plain text batches are blank-line delimited; markdown documents are split
// on level-1 headings so that sub-sections stay inside their case.
package ingest

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var blockSeparator = regexp.MustCompile(`\r?\n[ \t]*\r?\n`)

// SplitBlocks splits plain text on blank lines. Blocks are trimmed and empty
// blocks are dropped.
func SplitBlocks(input string) []string {
	parts := blockSeparator.Split(input, -1)
	blocks := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			blocks = append(blocks, trimmed)
		}
	}
	return blocks
}

// SplitMarkdown splits a markdown document into one case per level-1 heading.
// The heading line and everything up to the next level-1 heading belong to
// the case, verbatim. Documents without level-1 headings fall back to
// blank-line splitting.
func SplitMarkdown(source []byte) []string {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	var starts []int
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Level != 1 || heading.Lines().Len() == 0 {
			return ast.WalkContinue, nil
		}
		starts = append(starts, lineStart(source, heading.Lines().At(0).Start))
		return ast.WalkSkipChildren, nil
	})

	if len(starts) == 0 {
		return SplitBlocks(string(source))
	}

	cases := make([]string, 0, len(starts))
	for i, start := range starts {
		end := len(source)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		if trimmed := strings.TrimSpace(string(source[start:end])); trimmed != "" {
			cases = append(cases, trimmed)
		}
	}
	return cases
}

// Split picks the splitter by input kind. markdown should be true for .md
// documents.
func Split(input string, markdown bool) []string {
	if markdown {
		return SplitMarkdown([]byte(input))
	}
	return SplitBlocks(input)
}

// lineStart walks back from offset to the beginning of its line. Heading
// segments start after the "#" marker, the case text must include it.
func lineStart(source []byte, offset int) int {
	for offset > 0 && source[offset-1] != '\n' {
		offset--
	}
	return offset
}
