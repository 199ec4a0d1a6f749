package rank

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatScore(float64) ScoreFunc {
	return func(string) float64 { return 0 }
}

func TestRerank_NoFeedbackKeepsSimilarityOrder(t *testing.T) {
	candidates := []Candidate{
		{DocID: "1", URL: "https://a.example.com", Similarity: 0.9},
		{DocID: "2", URL: "https://b.example.com", Similarity: 0.8},
		{DocID: "3", URL: "https://c.example.com", Similarity: 0.7},
	}

	got := Rerank(candidates, 2, flatScore(0))
	require.Len(t, got, 2)
	assert.Equal(t, "https://a.example.com", got[0].URL)
	assert.Equal(t, "https://b.example.com", got[1].URL)
	assert.Equal(t, 0.9, got[0].FinalScore)
	assert.Equal(t, 0.8, got[1].FinalScore)
}

func TestRerank_BanditReorders(t *testing.T) {
	candidates := []Candidate{
		{DocID: "1", URL: "https://a.example.com", Similarity: 0.9},
		{DocID: "2", URL: "https://b.example.com", Similarity: 0.8},
		{DocID: "3", URL: "https://c.example.com", Similarity: 0.7},
	}
	scores := map[string]float64{
		"https://a.example.com": 1.4823,
		"https://b.example.com": 2.0482,
		"https://c.example.com": math.Inf(1),
	}

	got := Rerank(candidates, 2, func(url string) float64 { return scores[url] })
	require.Len(t, got, 2)
	assert.Equal(t, "https://c.example.com", got[0].URL)
	assert.Equal(t, "https://b.example.com", got[1].URL)
	assert.True(t, math.IsInf(got[0].FinalScore, 1))
}

func TestRerank_DuplicateURLCollapsed(t *testing.T) {
	candidates := []Candidate{
		{DocID: "1", URL: "https://a.example.com", Similarity: 0.9},
		{DocID: "2", URL: "https://a.example.com", Similarity: 0.6},
		{DocID: "3", URL: "https://b.example.com", Similarity: 0.5},
	}

	got := Rerank(candidates, 5, flatScore(0))
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].DocID)
	assert.Equal(t, 0.9, got[0].Similarity)
	assert.Equal(t, "3", got[1].DocID)
}

func TestRerank_TieBreaks(t *testing.T) {
	// final_score 相同时先比相似度，再比 URL 字典序
	candidates := []Candidate{
		{DocID: "1", URL: "https://b.example.com", Similarity: 0.5},
		{DocID: "2", URL: "https://a.example.com", Similarity: 0.5},
		{DocID: "3", URL: "https://c.example.com", Similarity: 0.4},
	}
	scores := map[string]float64{
		"https://b.example.com": 0.1,
		"https://a.example.com": 0.1,
		"https://c.example.com": 0.2,
	}
	score := func(url string) float64 { return scores[url] }

	first := Rerank(candidates, 3, score)
	require.Len(t, first, 3)
	assert.Equal(t, "https://a.example.com", first[0].URL)
	assert.Equal(t, "https://b.example.com", first[1].URL)
	assert.Equal(t, "https://c.example.com", first[2].URL)

	second := Rerank(candidates, 3, score)
	assert.Equal(t, first, second)
}

func TestRerank_Empty(t *testing.T) {
	assert.Empty(t, Rerank(nil, 5, flatScore(0)))
	assert.Empty(t, Rerank([]Candidate{{URL: "u", Similarity: 1}}, 0, flatScore(0)))
}
