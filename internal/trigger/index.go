package trigger

import "github.com/kamusis/skilldex/internal/corpus"

// Entry is one (module, weight) candidate behind an indexed keyword. A
// keyword legitimately maps to several modules; overlap is expected.
type Entry struct {
	ModuleID string
	Raw      string // keyword as declared by that module
	Class    Class
	Weight   int
}

// Keyword is one indexed trigger keyword with its matching strategy
// precomputed: CJK keywords match by substring containment, Latin keywords
// by whole-token containment.
type Keyword struct {
	Norm    string
	CJK     bool
	Tokens  []string // token form for Latin keywords; nil for CJK
	Entries []Entry  // insertion order: modules sorted by id, keywords in declaration order
}

// Index is the immutable inverted trigger index: normalized keyword →
// candidate modules. It is built once per corpus version and never mutated;
// a corpus change produces a whole new Index.
type Index struct {
	keywords []Keyword
	byNorm   map[string]int
}

// Build constructs the index from loaded corpus metadata. Building twice
// from the same corpus yields identical contents: modules are visited in
// sorted-id order and each module's keywords in declaration order.
func Build(c *corpus.Corpus) *Index {
	ix := &Index{byNorm: make(map[string]int)}
	for _, m := range c.Modules {
		for _, raw := range m.Keywords {
			norm := Normalize(raw)
			if norm == "" {
				continue
			}
			i, ok := ix.byNorm[norm]
			if !ok {
				i = len(ix.keywords)
				kw := Keyword{Norm: norm, CJK: HasCJK(norm)}
				if !kw.CJK {
					kw.Tokens = Tokenize(norm)
				}
				ix.keywords = append(ix.keywords, kw)
				ix.byNorm[norm] = i
			}
			if dup := ix.keywords[i].Entries; len(dup) > 0 && dup[len(dup)-1].ModuleID == m.ID {
				// same module declared the keyword twice; count it once
				continue
			}
			ix.keywords[i].Entries = append(ix.keywords[i].Entries, Entry{
				ModuleID: m.ID,
				Raw:      raw,
				Class:    Classify(raw),
				Weight:   WeightOf(raw),
			})
		}
	}
	return ix
}

// Keywords returns the indexed keywords in deterministic insertion order.
// Callers must not mutate the returned slice.
func (ix *Index) Keywords() []Keyword { return ix.keywords }

// Candidates returns the entries behind a normalized keyword.
func (ix *Index) Candidates(norm string) []Entry {
	if i, ok := ix.byNorm[norm]; ok {
		return ix.keywords[i].Entries
	}
	return nil
}

// Len returns the number of distinct indexed keywords. A zero-length index
// is legal: every query then falls back to the root module.
func (ix *Index) Len() int { return len(ix.keywords) }
