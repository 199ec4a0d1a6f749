package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/newsradar-ai/newsradar/app/core/srv"
	"github.com/newsradar-ai/newsradar/app/store/sqlstore"
	"github.com/newsradar-ai/newsradar/pkg/bandit"
	"github.com/newsradar-ai/newsradar/pkg/feed"
	"github.com/newsradar-ai/newsradar/pkg/object-storage/s3"
	"github.com/newsradar-ai/newsradar/pkg/types"
	"github.com/newsradar-ai/newsradar/pkg/utils"
)

type Core struct {
	cfg CoreConfig
	srv *srv.Srv

	stores     func() *sqlstore.Provider
	httpClient *http.Client
	httpEngine *gin.Engine

	feed     *feed.Client
	ledger   *bandit.Ledger
	archiver *s3.S3

	metrics *Metrics
}

func MustSetupCore(cfg CoreConfig) *Core {
	{
		var writer io.Writer = os.Stdout
		if cfg.Log.Path != "" {
			writer = &lumberjack.Logger{
				Filename:   cfg.Log.Path,
				MaxSize:    500, // megabytes
				MaxBackups: 3,
				MaxAge:     28,   //days
				Compress:   true, // disabled by default
			}
		}
		l := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level: cfg.Log.SlogLevel(),
		}))
		slog.SetDefault(l)
	}

	cfg.Retrieval.ApplyDefaults()
	utils.SetupIDWorker(1)

	core := &Core{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Second * 3},
		metrics:    NewMetrics("newsradar", "core"),
		httpEngine: gin.New(),
		feed:       feed.NewClient(cfg.Feed.Endpoint, cfg.Feed.APIKey),
		ledger:     bandit.NewLedger(),
	}

	// setup store
	setupSqlStore(core)

	var cacheApply srv.ApplyFunc = func(*srv.Srv) {}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cacheApply = srv.ApplyEmbeddingCache(rdb, cfg.Redis.KeyPrefix)
	}

	core.srv = srv.SetupSrvs(
		srv.ApplyAI(cfg.AI), // ai provider select
		cacheApply,
	)

	if cfg.ObjectStorage.Driver == "s3" && cfg.ObjectStorage.S3 != nil {
		s3cfg := cfg.ObjectStorage.S3
		core.archiver = s3.NewS3Client(s3cfg.Endpoint, s3cfg.Region, s3cfg.Bucket, s3cfg.AccessKey, s3cfg.SecretKey)
	}

	return core
}

func setupSqlStore(core *Core) {
	core.stores = sqlstore.MustSetup(core.cfg.Postgres)
	// 执行数据库表初始化
	if err := core.stores().Install(); err != nil {
		panic(err)
	}
	fmt.Println("setupSqlStore done")
}

// RebuildLedger 从反馈日志重放 bandit 状态，服务启动时调用一次。
// 日志是唯一事实来源，内存里的臂统计可随时由它重建。
func (s *Core) RebuildLedger(ctx context.Context) error {
	events, err := s.Store().FeedbackStore().ListAll(ctx, 0, types.NO_PAGINATION)
	if err != nil {
		return fmt.Errorf("failed to load feedback log: %w", err)
	}
	s.ledger.Rebuild(events)
	slog.Info("Bandit ledger rebuilt",
		slog.Int("events", len(events)),
		slog.Int64("total_pulls", s.ledger.TotalPulls()))
	return nil
}

func (s *Core) Cfg() CoreConfig {
	return s.cfg
}

func (s *Core) HttpEngine() *gin.Engine {
	return s.httpEngine
}

func (s *Core) Metrics() *Metrics {
	return s.metrics
}

func (s *Core) Store() *sqlstore.Provider {
	return s.stores()
}

func (s *Core) Srv() *srv.Srv {
	return s.srv
}

func (s *Core) Feed() *feed.Client {
	return s.feed
}

func (s *Core) Ledger() *bandit.Ledger {
	return s.ledger
}

// Archiver 返回原始抓取快照的归档端，未配置对象存储时为 nil
func (s *Core) Archiver() *s3.S3 {
	return s.archiver
}
