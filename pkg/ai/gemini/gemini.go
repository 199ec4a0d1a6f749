package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/newsradar-ai/newsradar/pkg/ai"
	"github.com/newsradar-ai/newsradar/pkg/types"
)

const (
	NAME = "gemini"

	defaultChatModel = "gemini-2.5-flash"
)

type Driver struct {
	client    *genai.Client
	chatModel string
}

func New(token, chatModel string) *Driver {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(token))
	if err != nil {
		panic(err)
	}
	if chatModel == "" {
		chatModel = defaultChatModel
	}
	return &Driver{
		client:    client,
		chatModel: chatModel,
	}
}

func (s *Driver) Lang() string {
	return "en"
}

func (s *Driver) generate(ctx context.Context, system, prompt string, temperature float32) (string, error) {
	model := s.client.GenerativeModel(s.chatModel)
	if system != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(system))
	}
	model.SetTemperature(temperature)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini: empty response")
	}

	var result string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			result += string(txt)
		}
	}
	if result == "" {
		return "", fmt.Errorf("gemini: no text part in response")
	}
	return result, nil
}

func (s *Driver) Translate(ctx context.Context, text, targetLang string) (string, error) {
	return s.generate(ctx, "", fmt.Sprintf(ai.PROMPT_TRANSLATE, targetLang, text), 0)
}

func (s *Driver) Compose(ctx context.Context, query string, passages []*types.PassageInfo) (ai.ComposeResult, error) {
	answer, err := s.generate(ctx, ai.BuildComposePrompt(passages), query, 0.3)
	if err != nil {
		return ai.ComposeResult{}, fmt.Errorf("Error composing answer: %w", err)
	}
	return ai.ComposeResult{
		Answer: answer,
		Model:  s.chatModel,
	}, nil
}
