package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pgvector/pgvector-go"

	"github.com/newsradar-ai/newsradar/pkg/register"
	"github.com/newsradar-ai/newsradar/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.ChunkStore = NewChunkStore(provider)
	})
}

type ChunkStore struct {
	CommonFields
}

// NewChunkStore 创建新的 ChunkStore 实例
func NewChunkStore(provider SqlProviderAchieve) *ChunkStore {
	repo := &ChunkStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_CHUNKS)
	repo.SetAllColumns("doc_id", "url", "title", "company", "chunk_index", "content", "original_length", "embedding", "created_at", "updated_at")
	return repo
}

// BatchUpsert 批量写入切片，doc_id 冲突时覆盖旧内容与向量
func (s *ChunkStore) BatchUpsert(ctx context.Context, datas []*types.EmbeddedChunk) error {
	if len(datas) == 0 {
		return nil
	}

	now := time.Now().Unix()
	query := sq.Insert(s.GetTable()).
		Columns("doc_id", "url", "title", "company", "chunk_index", "content", "original_length", "embedding", "created_at", "updated_at")

	for _, data := range datas {
		if data.CreatedAt == 0 {
			data.CreatedAt = now
		}
		if data.UpdatedAt == 0 {
			data.UpdatedAt = now
		}
		query = query.Values(data.DocID, data.URL, data.Title, data.Company, data.ChunkIndex,
			data.Content, data.OriginalLength, data.Embedding, data.CreatedAt, data.UpdatedAt)
	}

	query = query.Suffix(`ON CONFLICT (doc_id) DO UPDATE SET
		url = EXCLUDED.url,
		title = EXCLUDED.title,
		company = EXCLUDED.company,
		chunk_index = EXCLUDED.chunk_index,
		content = EXCLUDED.content,
		original_length = EXCLUDED.original_length,
		embedding = EXCLUDED.embedding,
		updated_at = EXCLUDED.updated_at`)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

// GetChunk 根据 doc_id 获取切片
func (s *ChunkStore) GetChunk(ctx context.Context, docID string) (*types.EmbeddedChunk, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"doc_id": docID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.EmbeddedChunk
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

// Query 按余弦相似度取最近的 limit 条切片
func (s *ChunkStore) Query(ctx context.Context, opts types.GetChunksOptions, vector pgvector.Vector, limit uint64) ([]types.ChunkQueryResult, error) {
	// pgvector supported distance functions are:
	// <-> - L2 distance
	// <#> - (negative) inner product
	// <=> - cosine distance
	cosColum, vectorArgs, _ := sq.Expr("1 - (embedding <=> ?) as cos", vector).ToSql()
	query := sq.Select("doc_id", "url", "title", "content", cosColum).From(s.GetTable()).Limit(limit).OrderBy("cos DESC")
	opts.Apply(&query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	args = append(vectorArgs, args...)

	var res []types.ChunkQueryResult
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ChunkStore) Total(ctx context.Context, opts types.GetChunksOptions) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())
	opts.Apply(&query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	var total int64
	if err = s.GetReplica(ctx).Get(&total, queryString, args...); err != nil {
		return 0, err
	}
	return total, nil
}

// Delete 删除切片
func (s *ChunkStore) Delete(ctx context.Context, docID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"doc_id": docID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

// DeleteByURL 删除同一 URL 的全部切片
func (s *ChunkStore) DeleteByURL(ctx context.Context, url string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"url": url})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}
