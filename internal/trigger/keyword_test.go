package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "hashmap", Normalize("  HashMap "))
	assert.Equal(t, "std::fs", Normalize("std::fs"))
	// CJK spans have no case and pass through untouched
	assert.Equal(t, "哈希表", Normalize("哈希表"))
	assert.Equal(t, "vec 动态数组", Normalize("Vec 动态数组"))
	assert.Equal(t, "", Normalize("   "))
}

func TestHasCJK(t *testing.T) {
	assert.True(t, HasCJK("集合"))
	assert.True(t, HasCJK("Vec动态数组"))
	assert.True(t, HasCJK("ハッシュ"))
	assert.True(t, HasCJK("해시"))
	assert.False(t, HasCJK("HashMap"))
	assert.False(t, HasCJK("std::net"))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		raw  string
		want Class
	}{
		{"std::fs", ClassQualified},
		{"std::collections::HashMap", ClassQualified},
		{"println!", ClassQualified},
		{"HashMap", ClassIdentifier},
		{"Vec<T>", ClassIdentifier},
		{"read_to_string", ClassIdentifier},
		{"utf8", ClassIdentifier},
		{"collection", ClassGeneric},
		{"smart pointer", ClassGeneric},
		{"集合", ClassGeneric},
		{"网络", ClassGeneric},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.raw), "Classify(%q)", tt.raw)
	}
}

func TestWeightOf_ClassDominatesLength(t *testing.T) {
	// A short qualified symbol always outweighs a long generic phrase.
	assert.Greater(t, WeightOf("std::fs"), WeightOf("file system input and output"))
	// A concrete identifier outweighs a category word.
	assert.Greater(t, WeightOf("HashMap"), WeightOf("collection"))
	// Within a class, longer keywords are more specific.
	assert.Greater(t, WeightOf("std::collections::HashMap"), WeightOf("std::fs"))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t,
		[]string{"how", "do", "i", "use", "std::fs", "to", "read"},
		Tokenize("how do i use std::fs to read?"))
	assert.Equal(t, []string{"vec<t>", "push"}, Tokenize("vec<t>.push"))
	assert.Equal(t, []string{"println!"}, Tokenize("println!"))
	assert.Empty(t, Tokenize("  ,. "))
}

func TestTokenize_CJKIsWordBoundary(t *testing.T) {
	// Mixed-script text: the CJK span separates Latin tokens and is
	// itself matched by containment, not tokenization.
	assert.Equal(t, []string{"hashmap"}, Tokenize("hashmap怎么用"))
	assert.Equal(t, []string{"tcpstream"}, Tokenize("用tcpstream做网络编程"))
	assert.Equal(t, []string{"vec", "push"}, Tokenize("vec往里push元素"))
	assert.Empty(t, Tokenize("标准库"))
}
