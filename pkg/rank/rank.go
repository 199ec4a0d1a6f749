// Package rank combines vector similarity with bandit scores into the
// final retrieval order.
package rank

import (
	"sort"

	"github.com/newsradar-ai/newsradar/pkg/types"
)

// Candidate is one nearest-neighbor hit from the corpus store.
type Candidate struct {
	DocID      string
	URL        string
	Title      string
	Content    string
	Similarity float64
}

// ScoreFunc resolves the bandit score for a source URL.
type ScoreFunc func(url string) float64

// Rerank merges similarity with the bandit score, collapses duplicate URLs
// to their best-scoring chunk and returns at most k results.
//
// final = similarity + bandit. Ties are broken by similarity, then by URL,
// so identical input always yields identical output.
func Rerank(candidates []Candidate, k int, score ScoreFunc) []types.RankedResult {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}

	ranked := make([]types.RankedResult, 0, len(candidates))
	for _, c := range candidates {
		bs := score(c.URL)
		ranked = append(ranked, types.RankedResult{
			DocID:       c.DocID,
			URL:         c.URL,
			Title:       c.Title,
			Content:     c.Content,
			Similarity:  c.Similarity,
			BanditScore: bs,
			FinalScore:  c.Similarity + bs,
		})
	}

	// 同一 URL 的多个切片只保留 final_score 最高的那个
	best := make(map[string]types.RankedResult, len(ranked))
	for _, r := range ranked {
		cur, ok := best[r.URL]
		if !ok || less(cur, r) {
			best[r.URL] = r
		}
	}

	deduped := make([]types.RankedResult, 0, len(best))
	for _, r := range best {
		deduped = append(deduped, r)
	}
	sort.Slice(deduped, func(i, j int) bool {
		return less(deduped[j], deduped[i])
	})

	if len(deduped) > k {
		deduped = deduped[:k]
	}
	return deduped
}

// less reports whether a ranks strictly below b.
func less(a, b types.RankedResult) bool {
	if a.FinalScore != b.FinalScore {
		return a.FinalScore < b.FinalScore
	}
	if a.Similarity != b.Similarity {
		return a.Similarity < b.Similarity
	}
	return a.URL > b.URL
}
