package types

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/pgvector/pgvector-go"
)

// Chunk 文章切片，doc_id 由 (url, chunk_index) 唯一确定
type Chunk struct {
	DocID          string `json:"doc_id" db:"doc_id"`
	URL            string `json:"url" db:"url"`
	Title          string `json:"title" db:"title"`
	Company        string `json:"company" db:"company"`
	ChunkIndex     int    `json:"chunk_index" db:"chunk_index"`
	Content        string `json:"content" db:"content"`
	OriginalLength int    `json:"original_length" db:"original_length"`
}

// EmbeddedChunk 带向量的文章切片，按 doc_id upsert 到语料库
type EmbeddedChunk struct {
	Chunk
	Embedding pgvector.Vector `json:"embedding" db:"embedding"`
	CreatedAt int64           `json:"created_at" db:"created_at"`
	UpdatedAt int64           `json:"updated_at" db:"updated_at"`
}

// ChunkQueryResult 向量近邻检索结果
type ChunkQueryResult struct {
	DocID      string  `json:"doc_id" db:"doc_id"`
	URL        string  `json:"url" db:"url"`
	Title      string  `json:"title" db:"title"`
	Content    string  `json:"content" db:"content"`
	Similarity float64 `json:"similarity" db:"cos"`
}

type GetChunksOptions struct {
	DocID   string
	URL     string
	Company string
}

func (opts GetChunksOptions) Apply(query *sq.SelectBuilder) {
	if opts.DocID != "" {
		*query = query.Where(sq.Eq{"doc_id": opts.DocID})
	}
	if opts.URL != "" {
		*query = query.Where(sq.Eq{"url": opts.URL})
	}
	if opts.Company != "" {
		*query = query.Where(sq.Eq{"company": opts.Company})
	}
}
