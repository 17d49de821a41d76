package resolve

import (
	"sort"
	"strings"

	"github.com/kamusis/skilldex/internal/trigger"
)

// MatchedKeyword is one trigger keyword that fired for a module.
type MatchedKeyword struct {
	Keyword string        `json:"keyword"` // as declared by the module
	Class   trigger.Class `json:"class"`
	Weight  int           `json:"weight"`
}

// MatchResult accumulates the evidence for one module against one query.
type MatchResult struct {
	ModuleID string
	Score    int // sum of matched keyword weights
	Matched  []MatchedKeyword
}

// Exact reports whether at least one qualified-class keyword matched.
func (r MatchResult) Exact() bool {
	for _, k := range r.Matched {
		if k.Class == trigger.ClassQualified {
			return true
		}
	}
	return false
}

// Match scores every module of the index against a raw query. It is a pure
// function of (index, query): no shared state is read or written, so it is
// safe under arbitrary concurrency. An empty or non-matching query yields an
// empty slice, which the resolver turns into the root fallback.
//
// Latin-script keywords match on whole-token boundaries so that "fs" never
// fires inside "fsx"; CJK keywords match on raw substring containment.
func Match(ix *trigger.Index, query string) []MatchResult {
	norm := trigger.Normalize(query)
	if norm == "" {
		return nil
	}
	tokens := trigger.Tokenize(norm)

	acc := make(map[string]*MatchResult)
	var order []string
	for _, kw := range ix.Keywords() {
		if !keywordMatches(kw, norm, tokens) {
			continue
		}
		for _, e := range kw.Entries {
			r, ok := acc[e.ModuleID]
			if !ok {
				r = &MatchResult{ModuleID: e.ModuleID}
				acc[e.ModuleID] = r
				order = append(order, e.ModuleID)
			}
			r.Score += e.Weight
			r.Matched = append(r.Matched, MatchedKeyword{
				Keyword: e.Raw,
				Class:   e.Class,
				Weight:  e.Weight,
			})
		}
	}

	out := make([]MatchResult, 0, len(order))
	for _, id := range order {
		out = append(out, *acc[id])
	}
	return out
}

func keywordMatches(kw trigger.Keyword, normQuery string, queryTokens []string) bool {
	if kw.CJK {
		return strings.Contains(normQuery, kw.Norm)
	}
	return containsTokenSeq(queryTokens, kw.Tokens)
}

// containsTokenSeq reports whether the keyword's token sequence appears
// contiguously in the query's tokens. Multi-word keywords like "smart
// pointer" therefore match as a phrase, not as scattered words.
func containsTokenSeq(haystack, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
outer:
	for i := 0; i+len(needle) <= len(haystack); i++ {
		for j, tok := range needle {
			if haystack[i+j] != tok {
				continue outer
			}
		}
		return true
	}
	return false
}

// sortMatched orders a result's matched keywords by weight (descending) then
// declaration string, so explanations render deterministically.
func sortMatched(ks []MatchedKeyword) {
	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].Weight != ks[j].Weight {
			return ks[i].Weight > ks[j].Weight
		}
		return ks[i].Keyword < ks[j].Keyword
	})
}
