package v1

import (
	"context"
	"net/http"
	"strings"

	"github.com/pgvector/pgvector-go"
	"github.com/samber/lo"

	"github.com/newsradar-ai/newsradar/app/core"
	"github.com/newsradar-ai/newsradar/pkg/errors"
	"github.com/newsradar-ai/newsradar/pkg/i18n"
	"github.com/newsradar-ai/newsradar/pkg/rank"
	"github.com/newsradar-ai/newsradar/pkg/types"
)

type RetrievalLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewRetrievalLogic(ctx context.Context, core *core.Core) *RetrievalLogic {
	return &RetrievalLogic{
		ctx:  ctx,
		core: core,
	}
}

// candidatePoolSize 召回池按 2k 取，给重排留出翻盘空间，上限由配置兜底。
func candidatePoolSize(k int, limit uint64) uint64 {
	pool := uint64(k) * 2
	if limit > 0 && pool > limit {
		return limit
	}
	return pool
}

// Retrieve 向量召回一批候选，再叠加 bandit 得分重排，返回前 k 条。
// 语料库为空或没有命中时返回空结果，不算错误。
func (l *RetrievalLogic) Retrieve(query string, k int) ([]types.RankedResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("RetrievalLogic.Retrieve.EmptyQuery", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}
	if k <= 0 {
		k = l.core.Cfg().Retrieval.TopK
	}

	timer := l.core.Metrics().RetrievalTimer()
	defer timer.ObserveDuration()

	embTimer := l.core.Metrics().EmbeddingTimer("query")
	emb, err := l.core.Srv().AI().EmbeddingForQuery(l.ctx, []string{query})
	embTimer.ObserveDuration()
	if err != nil {
		l.core.Metrics().AIErrorInc("embedding")
		return nil, errors.New("RetrievalLogic.Retrieve.EmbeddingForQuery", i18n.ERROR_INTERNAL, err)
	}
	if len(emb.Data) == 0 {
		return nil, errors.New("RetrievalLogic.Retrieve.EmptyEmbedding", i18n.ERROR_INTERNAL, nil)
	}

	candidates, err := l.core.Store().ChunkStore().Query(l.ctx, types.GetChunksOptions{},
		pgvector.NewVector(emb.Data[0]), candidatePoolSize(k, l.core.Cfg().Retrieval.CandidateLimit))
	if err != nil {
		return nil, errors.New("RetrievalLogic.Retrieve.ChunkStore.Query", i18n.ERROR_INTERNAL, err)
	}
	if len(candidates) == 0 {
		return []types.RankedResult{}, nil
	}

	ranked := rank.Rerank(lo.Map(candidates, func(item types.ChunkQueryResult, _ int) rank.Candidate {
		return rank.Candidate{
			DocID:      item.DocID,
			URL:        item.URL,
			Title:      item.Title,
			Content:    item.Content,
			Similarity: item.Similarity,
		}
	}), k, l.core.Ledger().Score)

	return ranked, nil
}
