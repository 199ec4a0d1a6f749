package v1

import (
	"context"
	"net/http"
	"sort"

	"github.com/samber/lo"

	"github.com/newsradar-ai/newsradar/app/core"
	"github.com/newsradar-ai/newsradar/pkg/errors"
	"github.com/newsradar-ai/newsradar/pkg/i18n"
	"github.com/newsradar-ai/newsradar/pkg/types"
	"github.com/newsradar-ai/newsradar/pkg/utils"
)

type FeedbackLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewFeedbackLogic(ctx context.Context, core *core.Core) *FeedbackLogic {
	return &FeedbackLogic{
		ctx:  ctx,
		core: core,
	}
}

// Record 追加一条反馈并立即更新内存中的 bandit 状态。
// 日志先落库，落库失败时不动内存状态，保证两者重放一致。
func (l *FeedbackLogic) Record(query, answer string, sources []string, reward int) (*types.FeedbackEvent, error) {
	if reward != types.FEEDBACK_REWARD_NEGATIVE && reward != types.FEEDBACK_REWARD_POSITIVE {
		return nil, errors.New("FeedbackLogic.Record.InvalidReward", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}
	if len(sources) == 0 {
		return nil, errors.New("FeedbackLogic.Record.EmptySources", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	event := types.FeedbackEvent{
		ID:      utils.GenUniqID(),
		Query:   query,
		Answer:  answer,
		Sources: lo.Uniq(sources), // 同一来源在一次回答里只算一次拉动
		Reward:  reward,
	}

	if err := l.core.Store().FeedbackStore().Create(l.ctx, event); err != nil {
		return nil, errors.New("FeedbackLogic.Record.FeedbackStore.Create", i18n.ERROR_INTERNAL, err)
	}

	l.core.Ledger().Record(event)
	l.core.Metrics().FeedbackInc(reward)

	return &event, nil
}

// Stats 返回每个来源的臂统计，按拉动次数降序
func (l *FeedbackLogic) Stats() ([]types.ArmStatistics, int64) {
	stats := l.core.Ledger().Stats()
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Pulls != stats[j].Pulls {
			return stats[i].Pulls > stats[j].Pulls
		}
		return stats[i].URL < stats[j].URL
	})
	return stats, l.core.Ledger().TotalPulls()
}

// ListEvents 分页读取反馈日志
func (l *FeedbackLogic) ListEvents(page, pageSize uint64) ([]types.FeedbackEvent, int64, error) {
	list, err := l.core.Store().FeedbackStore().ListAll(l.ctx, page, pageSize)
	if err != nil {
		return nil, 0, errors.New("FeedbackLogic.ListEvents.FeedbackStore.ListAll", i18n.ERROR_INTERNAL, err)
	}
	total, err := l.core.Store().FeedbackStore().Total(l.ctx)
	if err != nil {
		return nil, 0, errors.New("FeedbackLogic.ListEvents.FeedbackStore.Total", i18n.ERROR_INTERNAL, err)
	}
	return list, total, nil
}
