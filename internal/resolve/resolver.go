package resolve

import "sort"

// Selection is the resolver's output: one module chosen for a query, in
// final rank order. Fallback marks the root module appended as supplementary
// context rather than selected by a keyword match.
type Selection struct {
	MatchResult
	Fallback bool
}

// Rank turns unordered match results into the final deterministic selection.
//
// Ordering, in priority: higher total score; more distinct matched keywords;
// a qualified-symbol match outranks generic-only matches; module id
// lexicographic as the total-order tie break. The root module is always part
// of the selection — ranked wherever its own score puts it, or appended as a
// final fallback entry when it matched nothing. limit > 0 caps the number of
// scored selections; the root is exempt from the cap, keeping its real score
// and match explanation even when truncated out of the top slots.
func Rank(results []MatchResult, rootID string, limit int) []Selection {
	ordered := make([]MatchResult, len(results))
	copy(ordered, results)
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if len(a.Matched) != len(b.Matched) {
			return len(a.Matched) > len(b.Matched)
		}
		if ae, be := a.Exact(), b.Exact(); ae != be {
			return ae
		}
		return a.ModuleID < b.ModuleID
	})

	if limit > 0 && len(ordered) > limit {
		var root *MatchResult
		for i := limit; i < len(ordered); i++ {
			if ordered[i].ModuleID == rootID {
				r := ordered[i]
				root = &r
				break
			}
		}
		ordered = ordered[:limit]
		if root != nil {
			ordered = append(ordered, *root)
		}
	}

	out := make([]Selection, 0, len(ordered)+1)
	rootSeen := false
	for _, r := range ordered {
		sortMatched(r.Matched)
		if r.ModuleID == rootID {
			rootSeen = true
		}
		out = append(out, Selection{MatchResult: r})
	}
	if !rootSeen {
		out = append(out, Selection{
			MatchResult: MatchResult{ModuleID: rootID},
			Fallback:    true,
		})
	}
	return out
}
