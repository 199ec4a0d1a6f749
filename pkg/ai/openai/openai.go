package openai

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/newsradar-ai/newsradar/pkg/ai"
	"github.com/newsradar-ai/newsradar/pkg/types"
)

const (
	NAME = "openai"

	// 单次 embedding 请求的最大文本数
	embeddingBatchMax = 16
)

type Driver struct {
	client     *openai.Client
	model      ai.ModelName
	dimensions int
}

// New 连接 OpenAI 或任意兼容其 API 的服务（含本地 MiniLM 类向量服务）
func New(token, proxy string, model ai.ModelName, dimensions int) *Driver {
	cfg := openai.DefaultConfig(token)
	if proxy != "" {
		cfg.BaseURL = proxy
	}

	if model.ChatModel == "" {
		model.ChatModel = openai.GPT4oMini
	}
	if model.EmbeddingModel == "" {
		model.EmbeddingModel = string(openai.SmallEmbedding3)
	}
	if dimensions <= 0 {
		dimensions = 384
	}

	return &Driver{
		client:     openai.NewClientWithConfig(cfg),
		model:      model,
		dimensions: dimensions,
	}
}

func (s *Driver) Lang() string {
	return "en"
}

func (s *Driver) embedding(ctx context.Context, content []string) (ai.EmbeddingResult, error) {
	slog.Debug("Embedding", slog.String("driver", NAME), slog.Int("texts", len(content)))
	queryReq := openai.EmbeddingRequest{
		Model:      openai.EmbeddingModel(s.model.EmbeddingModel),
		Dimensions: s.dimensions,
	}

	var groups [][]string
	for i, v := range content {
		if i%embeddingBatchMax == 0 {
			groups = append(groups, []string{})
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], v)
	}

	r := ai.EmbeddingResult{
		Usage: &openai.Usage{},
	}
	var result [][]float32
	for _, v := range groups {
		queryReq.Input = v
		resp, err := s.client.CreateEmbeddings(ctx, queryReq)
		if err != nil {
			return r, fmt.Errorf("Error creating embedding: %w", err)
		}
		for _, d := range resp.Data {
			result = append(result, d.Embedding)
		}

		r.Usage.CompletionTokens += resp.Usage.CompletionTokens
		r.Usage.PromptTokens += resp.Usage.PromptTokens
		r.Usage.TotalTokens += resp.Usage.TotalTokens
		r.Model = string(resp.Model)
	}

	r.Data = result
	return r, nil
}

func (s *Driver) EmbeddingForQuery(ctx context.Context, content []string) (ai.EmbeddingResult, error) {
	return s.embedding(ctx, content)
}

func (s *Driver) EmbeddingForDocument(ctx context.Context, content []string) (ai.EmbeddingResult, error) {
	return s.embedding(ctx, content)
}

// Translate 将文本改写为目标语言，保持语义不变
func (s *Driver) Translate(ctx context.Context, text, targetLang string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model.ChatModel,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(ai.PROMPT_TRANSLATE, targetLang, text),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("Error translating text: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("translate: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// Compose 基于检索段落生成带 [URL] 引用的回答
func (s *Driver) Compose(ctx context.Context, query string, passages []*types.PassageInfo) (ai.ComposeResult, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model.ChatModel,
		Temperature: 0.3,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: ai.BuildComposePrompt(passages),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: query,
			},
		},
	})
	if err != nil {
		return ai.ComposeResult{}, fmt.Errorf("Error composing answer: %w", err)
	}
	if len(resp.Choices) == 0 {
		return ai.ComposeResult{}, fmt.Errorf("compose: empty response")
	}

	return ai.ComposeResult{
		Answer: resp.Choices[0].Message.Content,
		Model:  resp.Model,
		Usage:  &resp.Usage,
	}, nil
}
