// Package testcase holds the test-case entity and the section parser that
// splits free-text cases into title, precondition, steps and expected result.
package testcase

import "strings"

// TestCase is one free-text functional test case under evaluation.  Text is
// immutable once ingested; derived structure is recomputed per evaluation
// pass, never stored on the entity.
type TestCase struct {
	Index int
	Text  string
}

// NewBatch wraps raw case texts into an index-stable batch.
func NewBatch(texts []string) []TestCase {
	batch := make([]TestCase, len(texts))
	for i, t := range texts {
		batch[i] = TestCase{Index: i, Text: t}
	}
	return batch
}

// Trimmed returns the case text with surrounding whitespace removed, the
// form used for exact-duplicate comparison.
func (c TestCase) Trimmed() string {
	return strings.TrimSpace(c.Text)
}
