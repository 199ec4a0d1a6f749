package v1

import (
	"context"

	"github.com/samber/lo"

	"github.com/newsradar-ai/newsradar/app/core"
	"github.com/newsradar-ai/newsradar/pkg/ai"
	"github.com/newsradar-ai/newsradar/pkg/errors"
	"github.com/newsradar-ai/newsradar/pkg/i18n"
	"github.com/newsradar-ai/newsradar/pkg/types"
)

type AskLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewAskLogic(ctx context.Context, core *core.Core) *AskLogic {
	return &AskLogic{
		ctx:  ctx,
		core: core,
	}
}

type AskResult struct {
	Answer  string               `json:"answer"`
	Sources []types.RankedResult `json:"sources"`
	Model   string               `json:"model"`
	Usage   *types.Usage         `json:"usage,omitempty"`
}

// Ask 检索相关切片并交给模型生成带 [URL] 引用的回答。
// 没有命中任何语料时直接返回空回答，不请求模型。
func (l *AskLogic) Ask(query string, k int) (*AskResult, error) {
	ranked, err := NewRetrievalLogic(l.ctx, l.core).Retrieve(query, k)
	if err != nil {
		return nil, err
	}

	if len(ranked) == 0 {
		return &AskResult{
			Answer:  "",
			Sources: []types.RankedResult{},
		}, nil
	}

	passages := lo.Map(ranked, func(item types.RankedResult, _ int) *types.PassageInfo {
		return &types.PassageInfo{
			DocID:   item.DocID,
			URL:     item.URL,
			Title:   item.Title,
			Content: item.Content,
		}
	})
	passages = ai.TruncatePassages(passages, l.core.Cfg().Retrieval.ContextBudget, l.core.Cfg().AI.OpenAI.ChatModel)

	timer := l.core.Metrics().ComposeTimer()
	result, err := l.core.Srv().AI().Compose(l.ctx, query, passages)
	timer.ObserveDuration()
	if err != nil {
		l.core.Metrics().AIErrorInc("compose")
		return nil, errors.New("AskLogic.Ask.Compose", i18n.ERROR_INTERNAL, err)
	}

	return &AskResult{
		Answer:  result.Answer,
		Sources: ranked,
		Model:   result.Model,
		Usage:   result.Usage,
	}, nil
}
