package v1

import (
	"context"

	"github.com/samber/lo"

	"github.com/newsradar-ai/newsradar/app/core"
	"github.com/newsradar-ai/newsradar/app/core/srv"
	"github.com/newsradar-ai/newsradar/app/store"
	"github.com/newsradar-ai/newsradar/pkg/errors"
	"github.com/newsradar-ai/newsradar/pkg/i18n"
	"github.com/newsradar-ai/newsradar/pkg/pipeline"
	"github.com/newsradar-ai/newsradar/pkg/types"
	"github.com/newsradar-ai/newsradar/pkg/utils"
)

type IngestLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewIngestLogic(ctx context.Context, core *core.Core) *IngestLogic {
	return &IngestLogic{
		ctx:  ctx,
		core: core,
	}
}

// Ingest 跑一轮完整的摄取流水线，返回各阶段的统计
func (l *IngestLogic) Ingest() (*pipeline.Report, error) {
	cfg := l.core.Cfg().Ingest

	p := pipeline.New(pipeline.Config{
		Keywords:       cfg.Keywords,
		LookbackDays:   cfg.LookbackDays,
		MaxItems:       cfg.MaxItems,
		TargetLang:     cfg.TargetLang,
		WindowSize:     cfg.WindowSize,
		Overlap:        cfg.Overlap,
		EmbedBatchSize: cfg.EmbedBatchSize,
	}, l.core.Feed(), utils.WhatLang, l.core.Srv().AI(), documentEmbedder{l.core.Srv().AI()}, chunkIndexer{l.core.Store().ChunkStore()})

	if l.core.Archiver() != nil {
		p = p.WithArchiver(l.core.Archiver())
	}

	report, err := p.Run(l.ctx)
	if report != nil {
		l.core.Metrics().IngestArticlesAdd("fetched", report.Fetched)
		l.core.Metrics().IngestArticlesAdd("chunked", report.Chunked)
		l.core.Metrics().IngestArticlesAdd("indexed", report.Indexed)
	}
	if err != nil {
		return report, errors.New("IngestLogic.Ingest.Run", i18n.ERROR_INTERNAL, err)
	}

	return report, nil
}

// documentEmbedder 把 srv 的 embedding 接口适配成流水线的批量向量化端
type documentEmbedder struct {
	ai srv.EmbeddingAI
}

func (e documentEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	result, err := e.ai.EmbeddingForDocument(ctx, texts)
	if err != nil {
		return nil, err
	}
	return result.Data, nil
}

// chunkIndexer 把 ChunkStore 适配成流水线的语料库写入端
type chunkIndexer struct {
	store store.ChunkStore
}

func (s chunkIndexer) BatchUpsert(ctx context.Context, chunks []types.EmbeddedChunk) error {
	return s.store.BatchUpsert(ctx, lo.Map(chunks, func(item types.EmbeddedChunk, _ int) *types.EmbeddedChunk {
		return &item
	}))
}
