// Package bandit implements a UCB1 multi-armed bandit over source URLs.
//
// Each arm is one source URL competing for ranking preference. Rewards are
// 1 (positive feedback) or 0 (negative feedback). The ledger is rebuilt
// from the append-only feedback log at process start and mutated in place
// as new feedback arrives.
package bandit

import (
	"math"
	"sync/atomic"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/newsradar-ai/newsradar/pkg/types"
)

type arm struct {
	pulls     int64
	rewardSum float64
}

// Ledger holds per-URL reward statistics. Updates to a single arm are
// serialized by the map's shard lock, cross-arm updates need no
// coordination. Reads may observe a slightly stale arm while another
// goroutine records feedback, which is acceptable for ranking.
type Ledger struct {
	arms  cmap.ConcurrentMap[string, arm]
	total atomic.Int64
}

func NewLedger() *Ledger {
	return &Ledger{
		arms: cmap.New[arm](),
	}
}

// Record folds one feedback event into the ledger. Every URL cited by the
// answer counts as one pull of that arm.
func (l *Ledger) Record(event types.FeedbackEvent) {
	for _, url := range event.Sources {
		if url == "" {
			continue
		}
		l.arms.Upsert(url, arm{}, func(exist bool, cur arm, _ arm) arm {
			cur.pulls++
			cur.rewardSum += float64(event.Reward)
			return cur
		})
		l.total.Add(1)
	}
}

// Rebuild drops all learned state and refolds the given events. The fold
// is commutative, so the order of events does not matter.
func (l *Ledger) Rebuild(events []types.FeedbackEvent) {
	l.arms.Clear()
	l.total.Store(0)
	for _, ev := range events {
		l.Record(ev)
	}
}

// Score returns the UCB1 score for a URL:
//
//	mean + sqrt(2 * ln(N) / n)
//
// A URL that has never received feedback scores +Inf so it is explored at
// least once before exploitation takes over. When no feedback exists at
// all every URL scores 0 and ranking degenerates to vector similarity.
func (l *Ledger) Score(url string) float64 {
	total := l.total.Load()
	if total == 0 {
		return 0
	}

	a, ok := l.arms.Get(url)
	if !ok || a.pulls == 0 {
		return math.Inf(1)
	}

	mean := a.rewardSum / float64(a.pulls)
	if total == 1 {
		return mean
	}
	return mean + math.Sqrt(2*math.Log(float64(total))/float64(a.pulls))
}

// TotalPulls returns N, the sum of pulls over all arms.
func (l *Ledger) TotalPulls() int64 {
	return l.total.Load()
}

// Stats snapshots the statistics of every observed arm.
func (l *Ledger) Stats() []types.ArmStatistics {
	items := l.arms.Items()
	stats := make([]types.ArmStatistics, 0, len(items))
	for url, a := range items {
		s := types.ArmStatistics{
			URL:       url,
			Pulls:     a.pulls,
			RewardSum: a.rewardSum,
		}
		if a.pulls > 0 {
			s.Mean = a.rewardSum / float64(a.pulls)
		}
		stats = append(stats, s)
	}
	return stats
}
