package trigger

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Class is the specificity class of a trigger keyword. A qualified symbol
// like std::fs is stronger evidence than a concrete identifier like HashMap,
// which in turn outweighs a generic category word like "collection" or "集合".
type Class int

const (
	ClassGeneric Class = iota
	ClassIdentifier
	ClassQualified
)

func (c Class) String() string {
	switch c {
	case ClassQualified:
		return "qualified"
	case ClassIdentifier:
		return "identifier"
	default:
		return "generic"
	}
}

// MarshalText renders the class name in JSON output.
func (c Class) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Class base weights. Length adds at most lengthCap on top, so a long
// generic phrase can never outweigh a short qualified symbol.
const (
	weightQualified  = 100
	weightIdentifier = 60
	weightGeneric    = 30
	lengthCap        = 20
)

// Normalize returns the canonical matchable form of a keyword or query:
// Unicode case folding plus trimming. CJK runes have no case and pass
// through folding unchanged, which is exactly the contract here — case-fold
// Latin spans, leave CJK spans untouched. A fresh Caser per call: Caser is
// stateful and must not be shared between goroutines.
func Normalize(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// HasCJK reports whether s contains at least one CJK rune. Keywords with a
// CJK span are matched by substring containment instead of token boundaries,
// since CJK text has no whitespace-delimited words.
func HasCJK(s string) bool {
	for _, r := range s {
		if isCJK(r) {
			return true
		}
	}
	return false
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hangul, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r)
}

// Classify assigns the specificity class of a raw keyword as declared.
func Classify(raw string) Class {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "::") || strings.HasSuffix(raw, "!") {
		return ClassQualified
	}
	if isIdentifier(raw) {
		return ClassIdentifier
	}
	return ClassGeneric
}

// isIdentifier reports whether raw looks like a concrete code symbol: a
// single ASCII identifier (generics allowed) carrying an uppercase letter,
// digit or underscore. Plain lowercase words ("collection", "iterator")
// stay generic even though they are valid identifiers.
func isIdentifier(raw string) bool {
	if raw == "" {
		return false
	}
	marked := false
	for _, r := range raw {
		switch {
		case r >= 'A' && r <= 'Z':
			marked = true
		case r == '_' || r >= '0' && r <= '9':
			marked = true
		case r >= 'a' && r <= 'z':
		case r == '<' || r == '>' || r == '&' || r == '\'':
			// generic parameters and lifetimes, e.g. Vec<T>, &'a str
		default:
			return false
		}
	}
	return marked
}

// WeightOf computes a keyword's specificity weight from its class and
// length. Equal weights are legal; ties are broken downstream by declaration
// order, never dropped.
func WeightOf(raw string) int {
	base := weightGeneric
	switch Classify(raw) {
	case ClassQualified:
		base = weightQualified
	case ClassIdentifier:
		base = weightIdentifier
	}
	n := 0
	for range strings.TrimSpace(raw) {
		n++
	}
	if n > lengthCap {
		n = lengthCap
	}
	return base + n
}

// Tokenize splits normalized text into matchable tokens. A token is a
// maximal run of letters, digits and the symbol characters Rust paths carry
// (:, _, !, <, >, &, #), so std::fs, Vec<T> and println! each survive as a
// single token. Everything else separates tokens, including CJK runes: a
// script transition like HashMap怎么用 is a word boundary, and the CJK span
// is handled by substring containment rather than tokens.
func Tokenize(s string) []string {
	var out []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			out = append(out, b.String())
			b.Reset()
		}
	}
	for _, r := range s {
		if isCJK(r) {
			flush()
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) ||
			r == ':' || r == '_' || r == '!' || r == '<' || r == '>' || r == '&' || r == '#' {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return out
}
