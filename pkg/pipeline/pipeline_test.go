package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsradar-ai/newsradar/pkg/types"
)

type fakeFeed struct {
	articles map[string][]types.RawArticle
	fails    map[string]bool
}

func (f *fakeFeed) Fetch(_ context.Context, opts types.FetchOptions) ([]types.RawArticle, error) {
	if f.fails[opts.Keyword] {
		return nil, errors.New("upstream unavailable")
	}
	return f.articles[opts.Keyword], nil
}

type fakeTranslator struct {
	fail bool
}

func (f *fakeTranslator) Translate(_ context.Context, text, targetLang string) (string, error) {
	if f.fail {
		return "", errors.New("model unavailable")
	}
	return "[" + targetLang + "] " + text, nil
}

type fakeEmbedder struct {
	failBatch int // 第几次调用返回错误，-1 表示不失败
	calls     int
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.failBatch == f.calls {
		return nil, errors.New("embedding backend timeout")
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(len(texts[i])), 0.5}
	}
	return vectors, nil
}

type fakeIndexer struct {
	fail bool
	rows map[string]types.EmbeddedChunk
}

func (f *fakeIndexer) BatchUpsert(_ context.Context, chunks []types.EmbeddedChunk) error {
	if f.fail {
		return errors.New("connection reset")
	}
	if f.rows == nil {
		f.rows = make(map[string]types.EmbeddedChunk)
	}
	for _, c := range chunks {
		f.rows[c.DocID] = c
	}
	return nil
}

func detectEnglish(string) string { return "en" }

func newTestPipeline(feed ArticleFeed, trans Translator, embedder Embedder, indexer Indexer) *Pipeline {
	return New(Config{
		Keywords:       []string{"OpenAI", "Anthropic"},
		LookbackDays:   30,
		MaxItems:       50,
		TargetLang:     "en",
		WindowSize:     100,
		Overlap:        20,
		EmbedBatchSize: 2,
	}, feed, detectEnglish, trans, embedder, indexer)
}

func articleFixtures() map[string][]types.RawArticle {
	return map[string][]types.RawArticle{
		"OpenAI": {
			{URL: "https://news.example.com/a", Title: "A", Company: "OpenAI", Lang: "en", Body: strings.Repeat("alpha ", 50)},
		},
		"Anthropic": {
			{URL: "https://news.example.com/b", Title: "B", Company: "Anthropic", Lang: "en", Body: "short body"},
		},
	}
}

func TestRun_Completed(t *testing.T) {
	indexer := &fakeIndexer{}
	p := newTestPipeline(&fakeFeed{articles: articleFixtures()}, &fakeTranslator{}, &fakeEmbedder{failBatch: -1}, indexer)

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, report.State)
	assert.Equal(t, 2, report.Fetched)
	assert.Greater(t, report.Chunked, 2)
	assert.Equal(t, report.Chunked, report.Indexed)
	assert.Empty(t, report.Errors)
	assert.Len(t, indexer.rows, report.Indexed)
}

func TestRun_Idempotent(t *testing.T) {
	indexer := &fakeIndexer{}
	feed := &fakeFeed{articles: articleFixtures()}

	p := newTestPipeline(feed, &fakeTranslator{}, &fakeEmbedder{failBatch: -1}, indexer)
	first, err := p.Run(context.Background())
	require.NoError(t, err)
	rowsAfterFirst := len(indexer.rows)

	p = newTestPipeline(feed, &fakeTranslator{}, &fakeEmbedder{failBatch: -1}, indexer)
	second, err := p.Run(context.Background())
	require.NoError(t, err)

	// 相同输入重跑一遍，行数不变：doc_id 相同因此只是覆盖
	assert.Equal(t, rowsAfterFirst, len(indexer.rows))
	assert.Equal(t, first.Indexed, second.Indexed)
}

func TestRun_SingleSourceFailureIsSkipped(t *testing.T) {
	feed := &fakeFeed{articles: articleFixtures(), fails: map[string]bool{"Anthropic": true}}
	indexer := &fakeIndexer{}
	p := newTestPipeline(feed, &fakeTranslator{}, &fakeEmbedder{failBatch: -1}, indexer)

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, report.State)
	assert.Equal(t, 1, report.Fetched)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "Anthropic")
}

func TestRun_AllSourcesFailedAborts(t *testing.T) {
	feed := &fakeFeed{fails: map[string]bool{"OpenAI": true, "Anthropic": true}}
	p := newTestPipeline(feed, &fakeTranslator{}, &fakeEmbedder{failBatch: -1}, &fakeIndexer{})

	report, err := p.Run(context.Background())
	require.ErrorIs(t, err, ErrFetchTotalFailure)
	assert.Equal(t, StateFailed, report.State)
}

func TestRun_TranslationBestEffort(t *testing.T) {
	articles := map[string][]types.RawArticle{
		"OpenAI": {
			{URL: "https://news.example.com/fr", Title: "FR", Company: "OpenAI", Lang: "fr", Body: "bonjour le monde"},
		},
		"Anthropic": {},
	}
	indexer := &fakeIndexer{}
	p := newTestPipeline(&fakeFeed{articles: articles}, &fakeTranslator{fail: true}, &fakeEmbedder{failBatch: -1}, indexer)

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	// 翻译失败的文章保留原文而不是被丢弃
	assert.Equal(t, StateCompleted, report.State)
	assert.Equal(t, 1, report.Indexed)
	require.Len(t, report.Errors, 1)
	for _, row := range indexer.rows {
		assert.Contains(t, row.Content, "bonjour")
	}
}

func TestRun_TranslationRewritesBody(t *testing.T) {
	articles := map[string][]types.RawArticle{
		"OpenAI": {
			{URL: "https://news.example.com/fr", Title: "FR", Company: "OpenAI", Lang: "fr", Body: "bonjour le monde"},
		},
		"Anthropic": {},
	}
	indexer := &fakeIndexer{}
	p := newTestPipeline(&fakeFeed{articles: articles}, &fakeTranslator{}, &fakeEmbedder{failBatch: -1}, indexer)

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Translated)
	for _, row := range indexer.rows {
		assert.True(t, strings.HasPrefix(row.Content, "[en] "))
	}
}

func TestRun_ISO3LangCodeSkipsTranslation(t *testing.T) {
	articles := map[string][]types.RawArticle{
		"OpenAI": {
			{URL: "https://news.example.com/en3", Title: "E", Company: "OpenAI", Lang: "eng", Body: "plain english body"},
		},
		"Anthropic": {},
	}
	indexer := &fakeIndexer{}
	p := newTestPipeline(&fakeFeed{articles: articles}, &fakeTranslator{}, &fakeEmbedder{failBatch: -1}, indexer)

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	// "eng" 折算成 "en" 后与目标语言一致，不应过翻译模型
	assert.Equal(t, 0, report.Translated)
	for _, row := range indexer.rows {
		assert.Equal(t, "plain english body", row.Content)
	}
}

func TestRun_EmbeddingBatchFailureIsPartial(t *testing.T) {
	articles := map[string][]types.RawArticle{
		"OpenAI": {
			{URL: "https://news.example.com/long", Title: "L", Company: "OpenAI", Lang: "en", Body: strings.Repeat("text ", 200)},
		},
		"Anthropic": {},
	}
	indexer := &fakeIndexer{}
	p := newTestPipeline(&fakeFeed{articles: articles}, &fakeTranslator{}, &fakeEmbedder{failBatch: 1}, indexer)

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatePartiallyIndexed, report.State)
	// 第一批被排除，其余批次正常入索引
	assert.Greater(t, report.Chunked, report.Indexed)
	assert.Equal(t, report.Embedded, report.Indexed)
	assert.NotEmpty(t, report.Errors)
}

func TestRun_IndexFailureFailsRun(t *testing.T) {
	p := newTestPipeline(&fakeFeed{articles: articleFixtures()}, &fakeTranslator{}, &fakeEmbedder{failBatch: -1}, &fakeIndexer{fail: true})

	report, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, report.State)
	assert.Equal(t, 0, report.Indexed)
}
