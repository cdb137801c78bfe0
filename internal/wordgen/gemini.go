package wordgen

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"codeberg.org/snonux/vocabtester/internal/vocab"
)

// DefaultGeminiModel is a small, fast model that handles this prompt well.
const DefaultGeminiModel = "gemini-2.5-flash-lite"

// GeminiGenerator generates entries with the Gemini API using a response
// schema.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini backed generator.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	return newGeminiGenerator(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}, model)
}

func newGeminiGenerator(ctx context.Context, cc *genai.ClientConfig, model string) (*GeminiGenerator, error) {
	if cc.APIKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrNoAPIKey)
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Name returns the backend name.
func (g *GeminiGenerator) Name() string {
	return "gemini"
}

var entrySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"kana_word": {
			Type:        genai.TypeString,
			Description: "The reading of the kanji word in hiragana or katakana",
		},
		"english_word": {
			Type:        genai.TypeString,
			Description: "The English translation of the word",
		},
		"japanese_sentence": {
			Type:        genai.TypeString,
			Description: "A simple Japanese example sentence using the word",
		},
		"english_sentence": {
			Type:        genai.TypeString,
			Description: "The English translation of the example sentence",
		},
	},
	Required: []string{"kana_word", "english_word", "japanese_sentence", "english_sentence"},
}

// Generate asks Gemini for the entry of kanji.
func (g *GeminiGenerator) Generate(ctx context.Context, kanji string) (*vocab.Word, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt(kanji)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   entrySchema,
		Temperature:      genai.Ptr[float32](0.3),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: Gemini API error: %w", ErrGenerationFailed, err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty response from Gemini", ErrGenerationFailed)
	}
	return parseEntry(kanji, text)
}
