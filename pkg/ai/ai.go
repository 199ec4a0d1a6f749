package ai

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sashabaranov/go-openai"

	"github.com/newsradar-ai/newsradar/pkg/types"
)

type ModelName struct {
	ChatModel      string `toml:"chat_model"`
	EmbeddingModel string `toml:"embedding_model"`
}

type EmbeddingResult struct {
	Model string
	Usage *openai.Usage
	Data  [][]float32
}

type ComposeResult struct {
	Answer string
	Model  string
	Usage  *openai.Usage
}

const PROMPT_BI_ASSISTANT = `You are a business intelligence assistant.
Answer the user's query using ONLY the context provided below.
Always cite sources using [URL] notation when referencing information.
Be concise, factual, and direct. If the context does not contain enough
information to answer the question, say so clearly.

Context:
{context}`

const PROMPT_TRANSLATE = `Translate the following text into %s, keeping meaning intact.
Return only the translation:

%s`

const CONTEXT_SOLT_NAME = "{context}"

// BuildComposePrompt 将检索到的段落填入回答模型的系统提示词
func BuildComposePrompt(passages []*types.PassageInfo) string {
	var b strings.Builder
	for i, p := range passages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("Source: ")
		b.WriteString(p.URL)
		b.WriteString("\nContent: ")
		b.WriteString(p.Content)
	}
	return strings.ReplaceAll(PROMPT_BI_ASSISTANT, CONTEXT_SOLT_NAME, b.String())
}

// TruncatePassages 按 token 预算裁剪上下文段落，预算按相似度从高到低分配，
// 超出预算的段落整段丢弃而不是截断半句
func TruncatePassages(passages []*types.PassageInfo, budget int, model string) []*types.PassageInfo {
	if budget <= 0 {
		return passages
	}

	var (
		kept []*types.PassageInfo
		used int
	)
	for _, p := range passages {
		n, err := NumTokens(p.Content, model)
		if err != nil {
			return passages
		}
		if used+n > budget {
			continue
		}
		used += n
		kept = append(kept, p)
	}
	return kept
}

// NumTokens token 计数，用于上下文预算与用量统计
func NumTokens(text, model string) (int, error) {
	tkm, err := tiktoken.EncodingForModel(model)
	if err != nil {
		tkm, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return 0, fmt.Errorf("encoding for model: %w", err)
		}
	}
	return len(tkm.Encode(text, nil, nil)), nil
}
