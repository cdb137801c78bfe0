package audio

import (
	"context"
	"fmt"
	"log/slog"
)

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// GenerateAudio synthesizes text into outputFile. The format follows the
	// file extension.
	GenerateAudio(ctx context.Context, text string, outputFile string) error

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Config holds common configuration for audio providers
type Config struct {
	Provider    string // "openai" or "espeak"
	CacheDir    string // Directory for synthesized files
	EnableCache bool

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // "alloy", "coral", "nova", ...
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // Voice instructions for gpt-4o-mini-tts

	// espeak-ng settings
	ESpeakVoice string
	ESpeakSpeed int
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:          "openai",
		EnableCache:       true,
		OpenAIModel:       "gpt-4o-mini-tts",
		OpenAIVoice:       "nova",
		OpenAISpeed:       1.0,
		OpenAIInstruction: "You are speaking standard Japanese (標準語). Read the sentence naturally, slowly and clearly for language learners.",
		ESpeakVoice:       "ja",
		ESpeakSpeed:       140,
	}
}

// NewProvider creates the configured provider. The OpenAI provider falls
// back to espeak-ng when espeak-ng is installed.
func NewProvider(config *Config) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	switch config.Provider {
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		primary, err := NewOpenAIProvider(config)
		if err != nil {
			return nil, err
		}
		espeak := NewESpeakProvider(config)
		if espeak.IsAvailable() == nil {
			return NewProviderWithFallback(primary, espeak), nil
		}
		return primary, nil

	case "espeak", "espeak-ng":
		espeak := NewESpeakProvider(config)
		if err := espeak.IsAvailable(); err != nil {
			return nil, err
		}
		return espeak, nil

	default:
		return nil, fmt.Errorf("unknown audio provider: %s", config.Provider)
	}
}

// ProviderWithFallback wraps a primary provider with a fallback option
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
}

// NewProviderWithFallback creates a provider that falls back to secondary if primary fails
func NewProviderWithFallback(primary, fallback Provider) Provider {
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
	}
}

// GenerateAudio tries primary provider first, falls back to secondary on error
func (p *ProviderWithFallback) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	err := p.primary.GenerateAudio(ctx, text, outputFile)
	if err != nil {
		slog.Warn("primary speech provider failed, falling back",
			"primary", p.primary.Name(), "fallback", p.fallback.Name(), "error", err)
		return p.fallback.GenerateAudio(ctx, text, outputFile)
	}
	return nil
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}
