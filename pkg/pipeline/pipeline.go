// Package pipeline turns raw fetched articles into indexed, embedded
// chunks. One run walks a fixed set of stages:
//
//	Idle → Fetching → Translating → Chunking → Embedding → Indexing → Completed
//
// with PartiallyIndexed and Failed as alternative terminal states. Every
// stage takes the previous stage's output as a value and returns its own
// output, so a run holds no shared mutable state and can be re-executed
// at any time: chunk ids are derived from (url, chunk index) and indexing
// upserts by that id.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pgvector/pgvector-go"

	"github.com/newsradar-ai/newsradar/pkg/chunker"
	"github.com/newsradar-ai/newsradar/pkg/types"
	"github.com/newsradar-ai/newsradar/pkg/utils"
)

type State string

const (
	StateIdle             = State("idle")
	StateFetching         = State("fetching")
	StateTranslating      = State("translating")
	StateChunking         = State("chunking")
	StateEmbedding        = State("embedding")
	StateIndexing         = State("indexing")
	StateCompleted        = State("completed")
	StatePartiallyIndexed = State("partially_indexed")
	StateFailed           = State("failed")
)

// ErrFetchTotalFailure 所有检索词都抓取失败，本次运行中止
var ErrFetchTotalFailure = errors.New("all sources failed to fetch")

// ArticleFeed 外部文章源
type ArticleFeed interface {
	Fetch(ctx context.Context, opts types.FetchOptions) ([]types.RawArticle, error)
}

// Translator 外部翻译能力，失败时回退原文
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// Embedder 外部向量化能力，按批调用
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Indexer 语料库写入端，按 doc_id upsert
type Indexer interface {
	BatchUpsert(ctx context.Context, chunks []types.EmbeddedChunk) error
}

// Archiver 原始抓取快照的归档端（可选）
type Archiver interface {
	Upload(fullPath string, body io.Reader) error
}

// DetectFunc 返回文本的语言代码（ISO 639-1），无法判断时返回空串
type DetectFunc func(text string) string

type Config struct {
	Keywords       []string
	LookbackDays   int
	MaxItems       int
	TargetLang     string
	WindowSize     int
	Overlap        int
	EmbedBatchSize int
}

func (c *Config) applyDefaults() {
	if c.LookbackDays <= 0 {
		c.LookbackDays = 30
	}
	if c.MaxItems <= 0 {
		c.MaxItems = 50
	}
	if c.TargetLang == "" {
		c.TargetLang = "en"
	}
	if c.WindowSize <= 0 {
		c.WindowSize = 3200
	}
	if c.Overlap <= 0 {
		c.Overlap = 400
	}
	if c.EmbedBatchSize <= 0 {
		c.EmbedBatchSize = 64
	}
}

// Report 一次运行的结果汇总
type Report struct {
	State      State         `json:"state"`
	Fetched    int           `json:"fetched"`
	Translated int           `json:"translated"`
	Chunked    int           `json:"chunked"`
	Embedded   int           `json:"embedded"`
	Indexed    int           `json:"indexed"`
	Errors     []string      `json:"errors,omitempty"`
	Elapsed    time.Duration `json:"elapsed"`
}

type Pipeline struct {
	cfg      Config
	feed     ArticleFeed
	detect   DetectFunc
	trans    Translator
	embedder Embedder
	indexer  Indexer
	archiver Archiver
}

func New(cfg Config, feed ArticleFeed, detect DetectFunc, trans Translator, embedder Embedder, indexer Indexer) *Pipeline {
	cfg.applyDefaults()
	return &Pipeline{
		cfg:      cfg,
		feed:     feed,
		detect:   detect,
		trans:    trans,
		embedder: embedder,
		indexer:  indexer,
	}
}

// WithArchiver 启用原始抓取快照归档
func (p *Pipeline) WithArchiver(a Archiver) *Pipeline {
	p.archiver = a
	return p
}

// Run 执行一次完整的摄取。除抓取外每个阶段都是输入的纯函数，
// 索引阶段按 doc_id 幂等覆盖，因此任何失败后都可以安全地整体重跑
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{State: StateIdle}
	finish := func(s State, err error) (*Report, error) {
		report.State = s
		report.Elapsed = time.Since(start)
		return report, err
	}

	report.State = StateFetching
	articles, err := p.fetch(ctx, report)
	if err != nil {
		return finish(StateFailed, err)
	}
	report.Fetched = len(articles)

	report.State = StateTranslating
	articles = p.translate(ctx, articles, report)

	report.State = StateChunking
	chunks := p.chunk(articles)
	report.Chunked = len(chunks)

	report.State = StateEmbedding
	embedded, partial := p.embed(ctx, chunks, report)
	report.Embedded = len(embedded)

	report.State = StateIndexing
	if err := p.index(ctx, embedded); err != nil {
		return finish(StateFailed, err)
	}
	report.Indexed = len(embedded)

	if partial {
		return finish(StatePartiallyIndexed, nil)
	}
	return finish(StateCompleted, nil)
}

// fetch 逐个检索词抓取，单个失败记录后跳过，全部失败才中止
func (p *Pipeline) fetch(ctx context.Context, report *Report) ([]types.RawArticle, error) {
	var (
		articles []types.RawArticle
		failed   int
	)
	for _, keyword := range p.cfg.Keywords {
		batch, err := p.feed.Fetch(ctx, types.FetchOptions{
			Keyword:      keyword,
			LookbackDays: p.cfg.LookbackDays,
			MaxItems:     p.cfg.MaxItems,
		})
		if err != nil {
			failed++
			report.Errors = append(report.Errors, fmt.Sprintf("fetch %q: %s", keyword, err))
			slog.Error("Failed to fetch articles for keyword", slog.String("keyword", keyword), slog.String("error", err.Error()))
			continue
		}
		slog.Info("Fetched articles", slog.String("keyword", keyword), slog.Int("count", len(batch)))
		articles = append(articles, batch...)
	}

	if len(p.cfg.Keywords) > 0 && failed == len(p.cfg.Keywords) {
		return nil, ErrFetchTotalFailure
	}

	p.archive(articles, report)
	return articles, nil
}

func (p *Pipeline) archive(articles []types.RawArticle, report *Report) {
	if p.archiver == nil || len(articles) == 0 {
		return
	}
	raw, err := json.Marshal(articles)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("archive: %s", err))
		return
	}
	key := fmt.Sprintf("raw/articles-%s.json", time.Now().UTC().Format("20060102T150405"))
	if err := p.archiver.Upload(key, bytes.NewReader(raw)); err != nil {
		// 归档只是快照，失败不影响摄取
		report.Errors = append(report.Errors, fmt.Sprintf("archive: %s", err))
		slog.Error("Failed to archive raw articles", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// translate 非目标语言的文章翻译为目标语言，检测或翻译失败则保留原文。
// 语言标注统一折算为 ISO 639-1 再比较，新闻源给的 "eng" 不会当成非英语
func (p *Pipeline) translate(ctx context.Context, articles []types.RawArticle, report *Report) []types.RawArticle {
	out := make([]types.RawArticle, 0, len(articles))
	var translated int
	for _, article := range articles {
		lang := utils.NormalizeLangCode(article.Lang)
		if lang == "" && p.detect != nil {
			lang = p.detect(article.Body)
		}
		if lang == "" || lang == p.cfg.TargetLang || p.trans == nil {
			out = append(out, article)
			continue
		}

		body, err := p.trans.Translate(ctx, article.Body, p.cfg.TargetLang)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("translate %q: %s", article.URL, err))
			slog.Warn("Translation failed, keeping original text", slog.String("url", article.URL), slog.String("lang", lang), slog.String("error", err.Error()))
			out = append(out, article)
			continue
		}
		article.Body = body
		article.Lang = p.cfg.TargetLang
		translated++
		out = append(out, article)
	}
	report.Translated = translated
	return out
}

func (p *Pipeline) chunk(articles []types.RawArticle) []types.Chunk {
	var chunks []types.Chunk
	for _, article := range articles {
		if article.Body == "" {
			continue
		}
		for _, piece := range chunker.Split(article.Body, p.cfg.WindowSize, p.cfg.Overlap) {
			chunks = append(chunks, types.Chunk{
				DocID:          chunker.DocID(article.URL, piece.Index),
				URL:            article.URL,
				Title:          article.Title,
				Company:        article.Company,
				ChunkIndex:     piece.Index,
				Content:        piece.Content,
				OriginalLength: len([]rune(piece.Content)),
			})
		}
	}
	return chunks
}

// embed 按固定批量向量化。批是原子单位：某批失败则该批切片不进入索引，
// 运行最终标记为 partially_indexed，已成功的批不受影响
func (p *Pipeline) embed(ctx context.Context, chunks []types.Chunk, report *Report) ([]types.EmbeddedChunk, bool) {
	var (
		embedded []types.EmbeddedChunk
		partial  bool
	)
	for batchStart := 0; batchStart < len(chunks); batchStart += p.cfg.EmbedBatchSize {
		end := batchStart + p.cfg.EmbedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[batchStart:end]

		texts := make([]string, 0, len(batch))
		for _, c := range batch {
			texts = append(texts, c.Content)
		}

		vectors, err := p.embedder.Embed(ctx, texts)
		if err != nil || len(vectors) != len(batch) {
			if err == nil {
				err = fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(batch))
			}
			partial = true
			report.Errors = append(report.Errors, fmt.Sprintf("embed batch at %d: %s", batchStart, err))
			slog.Error("Embedding batch failed, excluding from index", slog.Int("offset", batchStart), slog.Int("size", len(batch)), slog.String("error", err.Error()))
			continue
		}

		for i, c := range batch {
			embedded = append(embedded, types.EmbeddedChunk{
				Chunk:     c,
				Embedding: pgvector.NewVector(vectors[i]),
			})
		}
	}
	return embedded, partial
}

func (p *Pipeline) index(ctx context.Context, embedded []types.EmbeddedChunk) error {
	if len(embedded) == 0 {
		return nil
	}
	if err := p.indexer.BatchUpsert(ctx, embedded); err != nil {
		return fmt.Errorf("index upsert failed: %w", err)
	}
	return nil
}
