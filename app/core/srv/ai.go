package srv

import (
	"context"

	"github.com/newsradar-ai/newsradar/pkg/ai"
	"github.com/newsradar-ai/newsradar/pkg/ai/gemini"
	"github.com/newsradar-ai/newsradar/pkg/ai/openai"
	"github.com/newsradar-ai/newsradar/pkg/types"
)

type EmbeddingAI interface {
	EmbeddingForQuery(ctx context.Context, content []string) (ai.EmbeddingResult, error)
	EmbeddingForDocument(ctx context.Context, content []string) (ai.EmbeddingResult, error)
}

type ChatAI interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
	Compose(ctx context.Context, query string, passages []*types.PassageInfo) (ai.ComposeResult, error)
	Lang() string
}

type AIDriver interface {
	EmbeddingAI
	ChatAI
}

type AIConfig struct {
	// chat 驱动，openai | gemini，embedding 始终走 openai 兼容接口
	Driver string `toml:"driver"`

	OpenAI OpenAIConfig `toml:"openai"`
	Gemini GeminiConfig `toml:"gemini"`
}

type OpenAIConfig struct {
	Token          string `toml:"token"`
	Endpoint       string `toml:"endpoint"`
	ChatModel      string `toml:"chat_model"`
	EmbeddingModel string `toml:"embedding_model"`
	Dimensions     int    `toml:"dimensions"` // 必须与建表迁移里的 vector(384) 一致，列宽建库后不可改
}

type GeminiConfig struct {
	Token     string `toml:"token"`
	ChatModel string `toml:"chat_model"`
}

type AI struct {
	EmbeddingAI
	ChatAI
}

// SetupAI 根据配置选择驱动。Gemini 只承担 chat，向量始终由
// openai 兼容服务生成，保证语料库中向量维度一致。
func SetupAI(cfg AIConfig) *AI {
	oai := openai.New(cfg.OpenAI.Token, cfg.OpenAI.Endpoint, ai.ModelName{
		ChatModel:      cfg.OpenAI.ChatModel,
		EmbeddingModel: cfg.OpenAI.EmbeddingModel,
	}, cfg.OpenAI.Dimensions)

	a := &AI{
		EmbeddingAI: oai,
		ChatAI:      oai,
	}

	if cfg.Driver == gemini.NAME {
		a.ChatAI = gemini.New(cfg.Gemini.Token, cfg.Gemini.ChatModel)
	}

	return a
}

func ApplyAI(cfg AIConfig) ApplyFunc {
	return func(s *Srv) {
		s.ai = SetupAI(cfg)
	}
}
