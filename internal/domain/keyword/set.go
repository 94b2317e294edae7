// Package keyword implements the normalized-token model used by all
// overlap-based matching in CaseLens: mixed-script tokenization, stop-word
// filtering, synonym folding, and the set-overlap scores built on top.
package keyword

import "sort"

// Set is a set of normalized string tokens derived from a text.
type Set map[string]struct{}

// NewSet builds a Set from the given tokens.
func NewSet(tokens ...string) Set {
	s := make(Set, len(tokens))
	for _, t := range tokens {
		s[t] = struct{}{}
	}
	return s
}

// Add inserts a token into the set.
func (s Set) Add(token string) { s[token] = struct{}{} }

// Contains reports whether token is in the set.
func (s Set) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// Len returns the number of tokens in the set.
func (s Set) Len() int { return len(s) }

// Intersect returns the tokens present in both sets.
func (s Set) Intersect(other Set) Set {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(Set)
	for t := range small {
		if _, ok := large[t]; ok {
			out[t] = struct{}{}
		}
	}
	return out
}

// Sorted returns the tokens in lexicographic order, for stable reporting.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Jaccard computes |A∩B| / |A∪B|.  Two empty sets score 0, so the score is
// 1 exactly when the sets are equal and non-empty.
func Jaccard(a, b Set) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := len(a.Intersect(b))
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// Overlap carries the component ratios of a requirement/case comparison.
// Score is the max of the three ratios: symmetric Jaccard plus the two
// asymmetric forms, which tolerate the length mismatch between a short
// requirement phrase and a long verbose case (or vice versa).
type Overlap struct {
	Score     float64
	Jaccard   float64
	ReqRatio  float64
	CaseRatio float64
	Matched   []string
}

// Score computes the overlap between a requirement keyword set and a case
// keyword set.  An empty intersection yields the zero Overlap.
func Score(req, cse Set) Overlap {
	inter := req.Intersect(cse)
	if len(inter) == 0 {
		return Overlap{}
	}
	n := float64(len(inter))
	union := float64(len(req) + len(cse) - len(inter))

	o := Overlap{
		Jaccard: n / union,
		Matched: inter.Sorted(),
	}
	if len(req) > 0 {
		o.ReqRatio = n / float64(len(req))
	}
	if len(cse) > 0 {
		o.CaseRatio = n / float64(len(cse))
	}
	o.Score = o.Jaccard
	if o.ReqRatio > o.Score {
		o.Score = o.ReqRatio
	}
	if o.CaseRatio > o.Score {
		o.Score = o.CaseRatio
	}
	return o
}
