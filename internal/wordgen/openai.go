package wordgen

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/vocabtester/internal/vocab"
)

// DefaultOpenAIModel is the chat model used for generation.
const DefaultOpenAIModel = openai.GPT4oMini

// OpenAIGenerator generates entries with the OpenAI chat API in JSON mode.
type OpenAIGenerator struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewOpenAIGenerator creates an OpenAI backed generator.
func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	return newOpenAIGenerator(apiKey, model, openai.DefaultConfig(apiKey))
}

func newOpenAIGenerator(apiKey, model string, cc openai.ClientConfig) *OpenAIGenerator {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIGenerator{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClientWithConfig(cc),
	}
}

// Name returns the backend name.
func (g *OpenAIGenerator) Name() string {
	return "openai"
}

// Generate asks OpenAI for the entry of kanji.
func (g *OpenAIGenerator) Generate(ctx context.Context, kanji string) (*vocab.Word, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("openai: %w", ErrNoAPIKey)
	}

	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a Japanese teacher preparing flashcards for English speaking learners.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt(kanji),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.3,
		MaxTokens:   300,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: OpenAI API error: %w", ErrGenerationFailed, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("%w: no response from OpenAI", ErrGenerationFailed)
	}
	return parseEntry(kanji, resp.Choices[0].Message.Content)
}
