package core

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/newsradar-ai/newsradar/app/core/srv"
)

func MustLoadBaseConfig(path string) CoreConfig {
	if path == "" {
		return LoadBaseConfigFromENV()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	conf := &CoreConfig{}
	if err = toml.Unmarshal(raw, conf); err != nil {
		panic(err)
	}

	return *conf
}

func LoadBaseConfigFromENV() CoreConfig {
	var c CoreConfig
	c.FromENV()
	return c
}

type CoreConfig struct {
	Addr          string              `toml:"addr"`
	Log           Log                 `toml:"log"`
	Postgres      PGConfig            `toml:"postgres"`
	Redis         RedisConfig         `toml:"redis"`
	ObjectStorage ObjectStorageDriver `toml:"object_storage"`

	AI        srv.AIConfig    `toml:"ai"`
	Feed      FeedConfig      `toml:"feed"`
	Ingest    IngestConfig    `toml:"ingest"`
	Retrieval RetrievalConfig `toml:"retrieval"`

	Security Security `toml:"security"`
}

type ObjectStorageDriver struct {
	Driver string    `toml:"driver"`
	S3     *S3Config `toml:"s3"`
}

type S3Config struct {
	Bucket    string `toml:"bucket"`
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
}

// FeedConfig 新闻源 API 配置
type FeedConfig struct {
	Endpoint string `toml:"endpoint"`
	APIKey   string `toml:"api_key"`
}

// IngestConfig 摄取流水线配置
type IngestConfig struct {
	Keywords       []string `toml:"keywords"`         // 关注的公司关键词
	LookbackDays   int      `toml:"lookback_days"`    // 默认 30
	MaxItems       int      `toml:"max_items"`        // 每个关键词抓取上限，默认 50
	TargetLang     string   `toml:"target_lang"`      // 默认 en
	WindowSize     int      `toml:"window_size"`      // 切片长度，默认 3200
	Overlap        int      `toml:"overlap"`          // 切片重叠，默认 400
	EmbedBatchSize int      `toml:"embed_batch_size"` // 默认 64
	Cron           string   `toml:"cron"`             // 定时摄取表达式，为空则不启用
}

// RetrievalConfig 检索配置
type RetrievalConfig struct {
	CandidateLimit uint64 `toml:"candidate_limit"` // 召回池上限，实际按 2*top_k 取再以此封顶，默认 2000
	TopK           int    `toml:"top_k"`           // 默认 5
	ContextBudget  int    `toml:"context_budget"`  // 拼接上下文的 token 预算，默认 8000
}

func (c *RetrievalConfig) ApplyDefaults() {
	if c.CandidateLimit == 0 {
		c.CandidateLimit = 2000
	}
	if c.TopK <= 0 {
		c.TopK = 5
	}
	if c.ContextBudget <= 0 {
		c.ContextBudget = 8000
	}
}

type Security struct {
	EncryptKey string `toml:"encrypt_key"`
}

func (c *CoreConfig) FromENV() {
	c.Addr = os.Getenv("NEWSRADAR_SERVICE_ADDRESS")
	c.Log.FromENV()
	c.Postgres.FromENV()
	c.Redis.FromENV()
	c.Feed.Endpoint = os.Getenv("NEWSRADAR_FEED_ENDPOINT")
	c.Feed.APIKey = os.Getenv("NEWSRADAR_FEED_APIKEY")
	c.Security.EncryptKey = os.Getenv("NEWSRADAR_ENCRYPT_KEY")
}

type PGConfig struct {
	DSN string `toml:"dsn"`
}

func (m *PGConfig) FromENV() {
	m.DSN = os.Getenv("NEWSRADAR_POSTGRESQL_DSN")
}

func (c PGConfig) FormatDSN() string {
	return c.DSN
}

type RedisConfig struct {
	Addr     string `toml:"addr"` // host:port，为空则不启用 embedding 缓存
	Password string `toml:"password"`
	DB       int    `toml:"db"`

	KeyPrefix string `toml:"key_prefix"` // 用于隔离不同环境
}

func (r *RedisConfig) FromENV() {
	r.Addr = os.Getenv("NEWSRADAR_REDIS_ADDR")
	r.Password = os.Getenv("NEWSRADAR_REDIS_PASSWORD")
	if dbStr := os.Getenv("NEWSRADAR_REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			r.DB = db
		}
	}
}

type Log struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

func (l *Log) FromENV() {
	l.Level = os.Getenv("NEWSRADAR_LOG_LEVEL")
	l.Path = os.Getenv("NEWSRADAR_LOG_PATH")
}

func (l *Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
