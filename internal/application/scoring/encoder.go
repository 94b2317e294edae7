// Package scoring implements the per-dimension metrics: structural
// completeness, content quality, requirement coverage, batch uniqueness and
// cross-batch semantic similarity.
package scoring

import (
	"context"
	"math"
)

// Encoder is the narrow port to the external embedding provider.  Encode
// returns one fixed-length vector per input text, in input order.  Consumers
// must degrade gracefully when it fails or is absent; no metric may abort a
// batch evaluation because embeddings are unavailable.
type Encoder interface {
	Encode(ctx context.Context, texts []string) ([][]float32, error)
}

// CosineMatrix computes the pairwise cosine similarity between two vector
// batches, row per a, column per b.  Zero vectors yield similarity 0.
func CosineMatrix(a, b [][]float32) [][]float64 {
	m := make([][]float64, len(a))
	for i, va := range a {
		row := make([]float64, len(b))
		for j, vb := range b {
			row[j] = Cosine(va, vb)
		}
		m[i] = row
	}
	return m
}

// Cosine returns the cosine similarity of two vectors, 0 when either has
// zero norm or the lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
