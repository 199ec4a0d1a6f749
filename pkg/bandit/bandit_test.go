package bandit

import (
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsradar-ai/newsradar/pkg/types"
)

func event(reward int, sources ...string) types.FeedbackEvent {
	return types.FeedbackEvent{
		Query:   "q",
		Answer:  "a",
		Sources: sources,
		Reward:  reward,
	}
}

func TestScore_NoFeedbackAtAll(t *testing.T) {
	l := NewLedger()
	assert.Equal(t, float64(0), l.Score("https://a.example.com"))
	assert.Equal(t, float64(0), l.Score("https://b.example.com"))
}

func TestScore_UnobservedArmWinsExploration(t *testing.T) {
	l := NewLedger()
	l.Record(event(1, "https://b.example.com"))
	l.Record(event(1, "https://b.example.com"))
	l.Record(event(0, "https://a.example.com"))

	observedBest := l.Score("https://b.example.com")
	assert.True(t, math.IsInf(l.Score("https://never-seen.example.com"), 1))
	assert.Greater(t, l.Score("https://never-seen.example.com"), observedBest)
}

func TestScore_ReferenceValues(t *testing.T) {
	l := NewLedger()
	l.Record(event(1, "https://b.example.com"))
	l.Record(event(1, "https://b.example.com"))
	l.Record(event(0, "https://a.example.com"))

	require.Equal(t, int64(3), l.TotalPulls())
	// score(A) = 0 + sqrt(2*ln3/1), score(B) = 1 + sqrt(2*ln3/2)
	assert.InDelta(t, 1.4823, l.Score("https://a.example.com"), 0.001)
	assert.InDelta(t, 2.0481, l.Score("https://b.example.com"), 0.001)
}

func TestScore_ConfidenceShrinksWithPulls(t *testing.T) {
	// 固定 N、固定均值，pulls 越多分数越低
	build := func(pulls int) *Ledger {
		l := NewLedger()
		for i := 0; i < pulls; i++ {
			l.Record(event(1, "https://target.example.com"))
		}
		for i := 0; i < 20-pulls; i++ {
			l.Record(event(1, "https://filler.example.com"))
		}
		return l
	}

	prev := math.Inf(1)
	for _, pulls := range []int{1, 2, 5, 10} {
		score := build(pulls).Score("https://target.example.com")
		assert.Less(t, score, prev, "pulls=%d", pulls)
		prev = score
	}
}

func TestRebuild_OrderIndependent(t *testing.T) {
	events := []types.FeedbackEvent{
		event(1, "https://a.example.com", "https://b.example.com"),
		event(0, "https://a.example.com"),
		event(1, "https://c.example.com"),
	}

	forward := NewLedger()
	forward.Rebuild(events)

	reversed := NewLedger()
	reversed.Rebuild([]types.FeedbackEvent{events[2], events[1], events[0]})

	for _, url := range []string{"https://a.example.com", "https://b.example.com", "https://c.example.com"} {
		assert.Equal(t, forward.Score(url), reversed.Score(url), url)
	}
	assert.Equal(t, forward.TotalPulls(), reversed.TotalPulls())
}

func TestRebuild_DropsOldState(t *testing.T) {
	l := NewLedger()
	l.Record(event(1, "https://stale.example.com"))

	l.Rebuild([]types.FeedbackEvent{event(1, "https://fresh.example.com")})

	assert.Equal(t, int64(1), l.TotalPulls())
	assert.True(t, math.IsInf(l.Score("https://stale.example.com"), 1))
}

func TestRecord_MultiSourceEvent(t *testing.T) {
	l := NewLedger()
	l.Record(event(1, "https://a.example.com", "https://b.example.com"))

	// 每个被引用的 URL 各记一次 pull
	assert.Equal(t, int64(2), l.TotalPulls())
	stats := l.Stats()
	require.Len(t, stats, 2)
	for _, s := range stats {
		assert.Equal(t, int64(1), s.Pulls)
		assert.Equal(t, float64(1), s.Mean)
	}
}

func TestRecord_Concurrent(t *testing.T) {
	l := NewLedger()

	var wg sync.WaitGroup
	const workers = 16
	const perWorker = 100
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				l.Record(event(i%2, "https://shared.example.com", fmt.Sprintf("https://w%d.example.com", w)))
				l.Score("https://shared.example.com")
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, int64(workers*perWorker*2), l.TotalPulls())
	stats := l.Stats()
	for _, s := range stats {
		if s.URL == "https://shared.example.com" {
			assert.Equal(t, int64(workers*perWorker), s.Pulls)
		}
	}
}
