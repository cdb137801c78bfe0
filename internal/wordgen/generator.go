package wordgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"codeberg.org/snonux/vocabtester/internal/vocab"
)

var (
	// ErrNoAPIKey is returned when a backend has no credentials.
	ErrNoAPIKey = errors.New("API key not configured")
	// ErrGenerationFailed wraps every failed or incomplete generation.
	ErrGenerationFailed = errors.New("failed to generate word data")
)

// Generator produces a vocabulary entry for a kanji word. The returned word
// has every field except ID and Tag filled in.
type Generator interface {
	Generate(ctx context.Context, kanji string) (*vocab.Word, error)
	Name() string
}

// entry is the JSON object both backends are asked to return.
type entry struct {
	KanaWord         string `json:"kana_word"`
	EnglishWord      string `json:"english_word"`
	JapaneseSentence string `json:"japanese_sentence"`
	EnglishSentence  string `json:"english_sentence"`
}

func prompt(kanji string) string {
	return fmt.Sprintf(`Generate vocabulary data for the Japanese word: %s

Requirements:
1. Provide the kana reading.
2. Provide a clear English translation. Separate alternative translations with ";".
3. Provide a simple Japanese example sentence that demonstrates common usage.
4. Provide the English translation of that sentence.

Return the result ONLY as a JSON object with the following keys:
- kana_word
- english_word
- japanese_sentence
- english_sentence`, kanji)
}

// parseEntry decodes a backend reply. Replies wrapped in a markdown code
// fence are accepted.
func parseEntry(kanji, text string) (*vocab.Word, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var e entry
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &e); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrGenerationFailed, err)
	}

	w := &vocab.Word{
		KanjiWord:        kanji,
		KanaWord:         e.KanaWord,
		EnglishWord:      e.EnglishWord,
		JapaneseSentence: e.JapaneseSentence,
		EnglishSentence:  e.EnglishSentence,
	}
	w.Normalize()
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	w.Tag = ""
	return w, nil
}

// Config selects and configures a backend.
type Config struct {
	Provider    string // "gemini" or "openai"
	GeminiKey   string
	GeminiModel string
	OpenAIKey   string
	OpenAIModel string
}

// DefaultConfig returns the defaults used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		Provider:    "gemini",
		GeminiModel: DefaultGeminiModel,
		OpenAIModel: DefaultOpenAIModel,
	}
}

// New builds the configured backend. When keys for both backends are
// present the other one is used as fallback. The result is guarded by a
// circuit breaker and cached.
func New(ctx context.Context, config *Config) (Generator, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var gemini, openai Generator
	if config.GeminiKey != "" {
		g, err := NewGeminiGenerator(ctx, config.GeminiKey, config.GeminiModel)
		if err != nil {
			return nil, err
		}
		gemini = g
	}
	if config.OpenAIKey != "" {
		openai = NewOpenAIGenerator(config.OpenAIKey, config.OpenAIModel)
	}

	var primary, secondary Generator
	switch config.Provider {
	case "", "gemini":
		primary, secondary = gemini, openai
	case "openai":
		primary, secondary = openai, gemini
	default:
		return nil, fmt.Errorf("unknown AI provider: %s", config.Provider)
	}

	if primary == nil {
		return nil, fmt.Errorf("%s: %w", config.Provider, ErrNoAPIKey)
	}

	var gen Generator = NewBreakerGenerator(primary)
	if secondary != nil {
		gen = NewFallbackGenerator(gen, NewBreakerGenerator(secondary))
	}
	return NewCachingGenerator(gen), nil
}
