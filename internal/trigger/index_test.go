package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamusis/skilldex/internal/corpus"
)

func testModules() *corpus.Corpus {
	return &corpus.Corpus{
		RootID: "std",
		Modules: []corpus.SkillModule{
			{ID: "collections", ParentID: "std", Keywords: []string{"HashMap", "Vec<T>", "collection", "集合", "Clone"}},
			{ID: "net", ParentID: "std", Keywords: []string{"std::net", "TcpStream", "network", "网络"}},
			{ID: "std", Keywords: []string{"rust", "std", "标准库"}},
			{ID: "traits", ParentID: "std", Keywords: []string{"Clone", "Copy", "trait"}},
		},
	}
}

func TestBuild_Deterministic(t *testing.T) {
	a := Build(testModules())
	b := Build(testModules())
	assert.Equal(t, a.Keywords(), b.Keywords(), "two builds from identical input are identical")
}

func TestBuild_OverlapIsExpected(t *testing.T) {
	ix := Build(testModules())

	entries := ix.Candidates(Normalize("Clone"))
	require.Len(t, entries, 2, "Clone belongs to two modules")
	assert.Equal(t, "collections", entries[0].ModuleID, "insertion order follows sorted module ids")
	assert.Equal(t, "traits", entries[1].ModuleID)
	assert.Equal(t, entries[0].Weight, entries[1].Weight, "equal weights are kept, not dropped")
}

func TestBuild_NormalizesKeys(t *testing.T) {
	ix := Build(testModules())
	assert.NotNil(t, ix.Candidates("hashmap"), "Latin keys are case-folded")
	assert.Nil(t, ix.Candidates("HashMap"), "raw form is not a key")
	assert.NotNil(t, ix.Candidates("集合"), "CJK keys are untouched")
}

func TestBuild_DuplicateDeclarationCountsOnce(t *testing.T) {
	c := &corpus.Corpus{Modules: []corpus.SkillModule{
		{ID: "m", Keywords: []string{"HashMap", "hashmap"}},
	}}
	ix := Build(c)
	assert.Len(t, ix.Candidates("hashmap"), 1)
}

func TestBuild_EmptyCorpusDegradesGracefully(t *testing.T) {
	ix := Build(&corpus.Corpus{})
	assert.Zero(t, ix.Len())
	assert.Nil(t, ix.Candidates("anything"))
}
