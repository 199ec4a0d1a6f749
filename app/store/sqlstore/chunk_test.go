package sqlstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/pgvector/pgvector-go"

	"github.com/newsradar-ai/newsradar/pkg/types"
)

type PGConfig struct {
	DSN string `toml:"dsn"`
}

func (m *PGConfig) FromENV() {
	m.DSN = os.Getenv("NEWSRADAR_POSTGRESQL_DSN")
}

func (m PGConfig) FormatDSN() string {
	return m.DSN
}

func setupTestProvider(t *testing.T) *Provider {
	cfg := PGConfig{}
	cfg.FromENV()
	if cfg.DSN == "" {
		t.Skip("NEWSRADAR_POSTGRESQL_DSN not set")
	}
	p := MustSetup(cfg)()
	if err := p.Install(); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestChunkUpsertAndQuery(t *testing.T) {
	p := setupTestProvider(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
	defer cancel()

	vec := make([]float32, 384)
	vec[0] = 1

	data := &types.EmbeddedChunk{
		Chunk: types.Chunk{
			DocID:          "test-doc-id",
			URL:            "https://example.com/news/1",
			Title:          "test",
			Company:        "ExampleCo",
			ChunkIndex:     0,
			Content:        "chunk content",
			OriginalLength: 13,
		},
		Embedding: pgvector.NewVector(vec),
	}

	if err := p.ChunkStore().BatchUpsert(ctx, []*types.EmbeddedChunk{data}); err != nil {
		t.Fatal(err)
	}

	// 再写一次，内容应被覆盖而不是新增
	data.Content = "chunk content v2"
	if err := p.ChunkStore().BatchUpsert(ctx, []*types.EmbeddedChunk{data}); err != nil {
		t.Fatal(err)
	}

	got, err := p.ChunkStore().GetChunk(ctx, "test-doc-id")
	if err != nil {
		t.Fatal(err)
	}
	if got.Content != "chunk content v2" {
		t.Fatalf("expected upsert to overwrite content, got %q", got.Content)
	}

	res, err := p.ChunkStore().Query(ctx, types.GetChunksOptions{}, pgvector.NewVector(vec), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) == 0 {
		t.Fatal("expected at least one query result")
	}

	if err := p.ChunkStore().Delete(ctx, "test-doc-id"); err != nil {
		t.Fatal(err)
	}
}

func TestFeedbackAppend(t *testing.T) {
	p := setupTestProvider(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
	defer cancel()

	event := types.FeedbackEvent{
		ID:      time.Now().UnixNano(),
		Query:   "What happened to ExampleCo?",
		Answer:  "ExampleCo announced a new product.",
		Sources: []string{"https://example.com/news/1"},
		Reward:  types.FEEDBACK_REWARD_POSITIVE,
	}

	if err := p.FeedbackStore().Create(ctx, event); err != nil {
		t.Fatal(err)
	}

	list, err := p.FeedbackStore().ListAll(ctx, 0, types.NO_PAGINATION)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) == 0 {
		t.Fatal("expected feedback log to contain the new event")
	}
}
