package keyword

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// segmentPattern splits text into contiguous ideographic runs and contiguous
// ASCII alphanumeric/symbol runs; everything else (punctuation, whitespace)
// is a separator.
var segmentPattern = regexp.MustCompile(`\p{Han}+|[A-Za-z0-9_@#+\-]+`)

// DefaultMaxGramsPerRun bounds how many 2/3-gram substrings a single long
// ideographic run may contribute to a keyword set.  The cap trades recall for
// a bounded denominator in overlap scores.
const DefaultMaxGramsPerRun = 15

// Config carries the substitution tables for a Tokenizer.  All fields are
// copied at construction time; the Tokenizer never mutates or exposes them.
type Config struct {
	// Stopwords are dropped after segmentation.  Lookup is case-insensitive
	// for ASCII tokens (store them lowercase) and exact for ideographic ones.
	Stopwords []string

	// Synonyms folds alternate spellings and near-synonyms to one canonical
	// token, applied after stop-word filtering.
	Synonyms map[string]string

	// MaxGramsPerRun caps the substrings taken from one long ideographic run.
	// Zero means DefaultMaxGramsPerRun.
	MaxGramsPerRun int
}

// Tokenizer turns free text into a normalized keyword Set.  It is immutable
// after construction and safe for concurrent use.
type Tokenizer struct {
	stopwords map[string]struct{}
	synonyms  map[string]string
	maxGrams  int
}

// NewTokenizer constructs a Tokenizer from cfg.
func NewTokenizer(cfg Config) *Tokenizer {
	t := &Tokenizer{
		stopwords: make(map[string]struct{}, len(cfg.Stopwords)),
		synonyms:  make(map[string]string, len(cfg.Synonyms)),
		maxGrams:  cfg.MaxGramsPerRun,
	}
	for _, w := range cfg.Stopwords {
		t.stopwords[w] = struct{}{}
	}
	for from, to := range cfg.Synonyms {
		t.synonyms[from] = to
	}
	if t.maxGrams <= 0 {
		t.maxGrams = DefaultMaxGramsPerRun
	}
	return t
}

// NewRequirementTokenizer returns a Tokenizer with the default
// requirement-side tables.
func NewRequirementTokenizer() *Tokenizer {
	return NewTokenizer(Config{
		Stopwords: RequirementStopwords(),
		Synonyms:  DefaultSynonyms(),
	})
}

// NewCaseTokenizer returns a Tokenizer with the default case-side tables,
// which additionally drop common action verbs.
func NewCaseTokenizer() *Tokenizer {
	return NewTokenizer(Config{
		Stopwords: CaseStopwords(),
		Synonyms:  DefaultSynonyms(),
	})
}

// Keywords produces the keyword Set for text.  It never fails; empty input
// yields an empty set.
func (t *Tokenizer) Keywords(text string) Set {
	out := make(Set)
	for _, tok := range t.tokens(text) {
		if utf8.RuneCountInString(tok) <= 1 {
			continue
		}
		if _, stop := t.stopwords[tok]; stop {
			continue
		}
		if canon, ok := t.synonyms[tok]; ok {
			tok = canon
		}
		out[tok] = struct{}{}
	}
	return out
}

// tokens performs segmentation only: ASCII runs are lowercased whole tokens,
// ideographic runs of ≤3 runes stay whole, longer runs shatter into sliding
// 2- and 3-grams capped at maxGrams per run (first encountered win).
func (t *Tokenizer) tokens(text string) []string {
	text = norm.NFC.String(text)

	var tokens []string
	for _, span := range segmentPattern.FindAllString(text, -1) {
		if isASCII(span) {
			tokens = append(tokens, toLowerASCII(span))
			continue
		}
		runes := []rune(span)
		if len(runes) <= 3 {
			tokens = append(tokens, span)
			continue
		}
		tokens = append(tokens, shatter(runes, t.maxGrams)...)
	}
	return tokens
}

// shatter extracts the overlapping 2-grams then 3-grams of runes, deduplicated
// in encounter order, keeping at most limit of them.
func shatter(runes []rune, limit int) []string {
	seen := make(map[string]struct{}, limit)
	out := make([]string, 0, limit)
	for _, k := range []int{2, 3} {
		for i := 0; i+k <= len(runes); i++ {
			g := string(runes[i : i+k])
			if _, dup := seen[g]; dup {
				continue
			}
			seen[g] = struct{}{}
			out = append(out, g)
			if len(out) >= limit {
				return out
			}
		}
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// ─────────────────────────────────────────────────────────────────────────────
// Auxiliary tokenizations
// ─────────────────────────────────────────────────────────────────────────────

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Words returns the word-level set of text: maximal letter/digit runs, no
// stop-word filtering or folding.  Used for the independence sub-score's
// pairwise Jaccard.
func Words(text string) Set {
	out := make(Set)
	for _, w := range wordPattern.FindAllString(text, -1) {
		out[w] = struct{}{}
	}
	return out
}

var coarsePunct = regexp.MustCompile("[。！？，、；：“”‘’（）【】,.;:!?\"'()\\[\\]\n\t]")

// Coarse returns the degraded-mode keyword set used by the uniqueness
// fallback when no embedding encoder is available: punctuation stripped,
// whitespace split, short tokens and a deliberately smaller stop-word list
// removed.  It is deliberately coarser than Keywords.
func Coarse(text string) Set {
	out := make(Set)
	for _, w := range strings.Fields(coarsePunct.ReplaceAllString(text, " ")) {
		if utf8.RuneCountInString(w) <= 1 {
			continue
		}
		if _, stop := coarseStopwords[w]; stop {
			continue
		}
		out[w] = struct{}{}
	}
	return out
}
