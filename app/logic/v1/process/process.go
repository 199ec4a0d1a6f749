package process

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/newsradar-ai/newsradar/app/core"
	v1 "github.com/newsradar-ai/newsradar/app/logic/v1"
	"github.com/newsradar-ai/newsradar/pkg/safe"
)

type Process struct {
	cron *cron.Cron
	core *core.Core
}

func NewProcess(core *core.Core) *Process {
	return &Process{
		cron: cron.New(),
		core: core,
	}
}

// Start 注册定时任务并启动调度器，未配置 cron 表达式时什么都不做
func (p *Process) Start() error {
	spec := p.core.Cfg().Ingest.Cron
	if spec == "" {
		slog.Info("Ingest cron not configured, periodic ingestion disabled")
		return nil
	}

	_, err := p.cron.AddFunc(spec, func() {
		safe.Run(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute*30)
			defer cancel()

			report, err := v1.NewIngestLogic(ctx, p.core).Ingest()
			if err != nil {
				slog.Error("Periodic ingestion failed", slog.String("error", err.Error()))
				return
			}
			slog.Info("Periodic ingestion finished",
				slog.String("state", string(report.State)),
				slog.Int("fetched", report.Fetched),
				slog.Int("indexed", report.Indexed),
				slog.Duration("elapsed", report.Elapsed))
		})
	})
	if err != nil {
		return err
	}

	p.cron.Start()
	slog.Info("Ingest cron started", slog.String("spec", spec))
	return nil
}

func (p *Process) Stop() {
	if p.cron != nil {
		ctx := p.cron.Stop()
		<-ctx.Done()
	}
}
