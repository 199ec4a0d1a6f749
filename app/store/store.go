package store

import (
	"context"

	"github.com/pgvector/pgvector-go"

	"github.com/newsradar-ai/newsradar/pkg/sqlstore"
	"github.com/newsradar-ai/newsradar/pkg/types"
)

// ChunkStore 语料库切片存储，doc_id 为内容地址，重复写入覆盖旧内容
type ChunkStore interface {
	sqlstore.SqlCommons
	BatchUpsert(ctx context.Context, datas []*types.EmbeddedChunk) error
	GetChunk(ctx context.Context, docID string) (*types.EmbeddedChunk, error)
	// Query 按余弦相似度取最近的 limit 条切片
	Query(ctx context.Context, opts types.GetChunksOptions, vector pgvector.Vector, limit uint64) ([]types.ChunkQueryResult, error)
	Total(ctx context.Context, opts types.GetChunksOptions) (int64, error)
	Delete(ctx context.Context, docID string) error
	DeleteByURL(ctx context.Context, url string) error
}

// FeedbackStore 反馈日志，只追加，bandit 状态从这里重放
type FeedbackStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.FeedbackEvent) error
	ListAll(ctx context.Context, page, pageSize uint64) ([]types.FeedbackEvent, error)
	Total(ctx context.Context) (int64, error)
}
