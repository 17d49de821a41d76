package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamusis/skilldex/internal/trigger"
)

func selectionIDs(sels []Selection) []string {
	out := make([]string, 0, len(sels))
	for _, s := range sels {
		out = append(out, s.ModuleID)
	}
	return out
}

func TestRank_OrderingRules(t *testing.T) {
	results := []MatchResult{
		{ModuleID: "low", Score: 10, Matched: []MatchedKeyword{{Keyword: "a", Weight: 10}}},
		{ModuleID: "high", Score: 90, Matched: []MatchedKeyword{{Keyword: "b", Weight: 90}}},
	}
	sels := Rank(results, "std", 0)
	assert.Equal(t, []string{"high", "low", "std"}, selectionIDs(sels))
	assert.True(t, sels[2].Fallback)
}

func TestRank_TieBrokenByMatchCount(t *testing.T) {
	results := []MatchResult{
		{ModuleID: "one", Score: 60, Matched: []MatchedKeyword{{Keyword: "a", Weight: 60}}},
		{ModuleID: "two", Score: 60, Matched: []MatchedKeyword{
			{Keyword: "b", Weight: 30}, {Keyword: "c", Weight: 30},
		}},
	}
	sels := Rank(results, "std", 0)
	assert.Equal(t, "two", sels[0].ModuleID, "more distinct matched keywords wins the tie")
}

func TestRank_ExactSymbolOutranksGenericOnly(t *testing.T) {
	results := []MatchResult{
		{ModuleID: "generic-only", Score: 50, Matched: []MatchedKeyword{
			{Keyword: "network", Class: trigger.ClassGeneric, Weight: 50},
		}},
		{ModuleID: "exact", Score: 50, Matched: []MatchedKeyword{
			{Keyword: "std::net", Class: trigger.ClassQualified, Weight: 50},
		}},
	}
	sels := Rank(results, "std", 0)
	assert.Equal(t, "exact", sels[0].ModuleID)
}

func TestRank_FinalTieIsLexicographic(t *testing.T) {
	mk := []MatchedKeyword{{Keyword: "Clone", Class: trigger.ClassIdentifier, Weight: 65}}
	results := []MatchResult{
		{ModuleID: "traits", Score: 65, Matched: mk},
		{ModuleID: "collections", Score: 65, Matched: mk},
	}
	for i := 0; i < 20; i++ {
		sels := Rank(results, "std", 0)
		require.Equal(t, []string{"collections", "traits", "std"}, selectionIDs(sels),
			"identical queries resolve identically, run %d", i)
	}
}

func TestRank_NoMatchesFallsBackToRoot(t *testing.T) {
	sels := Rank(nil, "std", 0)
	require.Len(t, sels, 1)
	assert.Equal(t, "std", sels[0].ModuleID)
	assert.True(t, sels[0].Fallback)
	assert.Zero(t, sels[0].Score)
}

func TestRank_RootMatchIsNotDuplicated(t *testing.T) {
	results := []MatchResult{
		{ModuleID: "std", Score: 35, Matched: []MatchedKeyword{{Keyword: "rust", Weight: 35}}},
	}
	sels := Rank(results, "std", 0)
	require.Len(t, sels, 1)
	assert.False(t, sels[0].Fallback)
}

func TestRank_LimitExemptsRootFallback(t *testing.T) {
	results := []MatchResult{
		{ModuleID: "a", Score: 90, Matched: []MatchedKeyword{{Keyword: "x", Weight: 90}}},
		{ModuleID: "b", Score: 80, Matched: []MatchedKeyword{{Keyword: "y", Weight: 80}}},
		{ModuleID: "c", Score: 70, Matched: []MatchedKeyword{{Keyword: "z", Weight: 70}}},
	}
	sels := Rank(results, "std", 2)
	assert.Equal(t, []string{"a", "b", "std"}, selectionIDs(sels))
}

func TestRank_TruncatedRootKeepsItsScore(t *testing.T) {
	results := []MatchResult{
		{ModuleID: "a", Score: 90, Matched: []MatchedKeyword{{Keyword: "x", Weight: 90}}},
		{ModuleID: "b", Score: 80, Matched: []MatchedKeyword{{Keyword: "y", Weight: 80}}},
		{ModuleID: "std", Score: 35, Matched: []MatchedKeyword{{Keyword: "rust", Weight: 35}}},
	}
	sels := Rank(results, "std", 2)
	require.Equal(t, []string{"a", "b", "std"}, selectionIDs(sels))
	// truncated out of the top slots, but not demoted to a bare fallback
	last := sels[2]
	assert.False(t, last.Fallback)
	assert.Equal(t, 35, last.Score)
	require.Len(t, last.Matched, 1)
	assert.Equal(t, "rust", last.Matched[0].Keyword)
}
