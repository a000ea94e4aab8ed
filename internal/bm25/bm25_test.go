package bm25

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_LowercasesAndSplits(t *testing.T) {
	tokens := Tokenize("Hello, World! v2.0")
	assert.Equal(t, []string{"hello", "world", "v2", "0"}, tokens)
}

func TestSearch_RanksRelevantDocHighest(t *testing.T) {
	idx := New()
	idx.AddDocument("1", "the cat sat on the mat")
	idx.AddDocument("2", "dogs are loyal animals")
	idx.AddDocument("3", "cats and dogs rarely agree")
	idx.Build()

	results := idx.Search("cat", 10)

	require.NotEmpty(t, results)
	assert.Equal(t, "1", results[0].ID)
	assert.Greater(t, results[0].Score, 0.0)
}

func TestSearch_RareTermScoresHigherIDF(t *testing.T) {
	idx := New()
	idx.AddDocument("1", "error handling code")
	idx.AddDocument("2", "error logging code")
	idx.AddDocument("3", "authentication error code")
	idx.Build()

	results := idx.Search("authentication", 10)

	require.Len(t, results, 3)
	assert.Equal(t, "3", results[0].ID)
	assert.Equal(t, 0.0, results[1].Score)
}

func TestSearch_TieBreaksByLexicographicID(t *testing.T) {
	idx := New()
	idx.AddDocument("zeta", "same content here")
	idx.AddDocument("alpha", "same content here")
	idx.AddDocument("mid", "same content here")
	idx.Build()

	results := idx.Search("same content", 10)

	require.Len(t, results, 3)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, []string{results[0].ID, results[1].ID, results[2].ID})
}

func TestSearch_BeforeBuild_ReturnsNil(t *testing.T) {
	idx := New()
	idx.AddDocument("1", "content")

	assert.Nil(t, idx.Search("content", 10))
}

func TestAddDocument_ReplacesExistingID(t *testing.T) {
	idx := New()
	idx.AddDocument("1", "original text")
	idx.AddDocument("1", "replaced text entirely")
	idx.Build()

	results := idx.Search("replaced", 10)
	require.Len(t, results, 1)
	assert.Greater(t, results[0].Score, 0.0)

	results = idx.Search("original", 10)
	assert.Equal(t, 0.0, results[0].Score)
}

func TestScoreFor_UnknownID(t *testing.T) {
	idx := New()
	idx.AddDocument("1", "content")
	idx.Build()

	_, ok := idx.ScoreFor("missing", "content")
	assert.False(t, ok)
}

func TestScoreFor_MatchesSearchScore(t *testing.T) {
	idx := New()
	idx.AddDocument("1", "the quick brown fox")
	idx.AddDocument("2", "a slow brown turtle")
	idx.Build()

	results := idx.Search("brown fox", 10)
	require.Len(t, results, 2)

	score, ok := idx.ScoreFor("1", "brown fox")
	require.True(t, ok)
	assert.Equal(t, results[0].Score, score)
}

func TestSearch_Limit(t *testing.T) {
	idx := New()
	idx.AddDocument("1", "alpha")
	idx.AddDocument("2", "alpha")
	idx.AddDocument("3", "alpha")
	idx.Build()

	results := idx.Search("alpha", 2)
	assert.Len(t, results, 2)
}
