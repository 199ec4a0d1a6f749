package types

import (
	"github.com/lib/pq"
)

const (
	FEEDBACK_REWARD_NEGATIVE = 0
	FEEDBACK_REWARD_POSITIVE = 1
)

// FeedbackEvent 用户对某次回答的评价，只追加不修改
type FeedbackEvent struct {
	ID        int64          `json:"id" db:"id"`
	Query     string         `json:"query" db:"query"`
	Answer    string         `json:"answer" db:"answer"`
	Sources   pq.StringArray `json:"sources" db:"sources"`
	Reward    int            `json:"reward" db:"reward"`
	CreatedAt int64          `json:"created_at" db:"created_at"`
}

// ArmStatistics 单个来源 URL 的反馈统计，由 FeedbackEvent 折叠得出，不落库
type ArmStatistics struct {
	URL       string  `json:"url"`
	Pulls     int64   `json:"pulls"`
	RewardSum float64 `json:"reward_sum"`
	Mean      float64 `json:"mean"`
}
