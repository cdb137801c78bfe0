package wordgen

import (
	"context"
	"fmt"
	"log/slog"

	"codeberg.org/snonux/vocabtester/internal/vocab"
)

// FallbackGenerator tries the primary backend first and the fallback when
// the primary fails.
type FallbackGenerator struct {
	primary  Generator
	fallback Generator
}

// NewFallbackGenerator creates a generator that falls back to secondary.
func NewFallbackGenerator(primary, fallback Generator) Generator {
	return &FallbackGenerator{primary: primary, fallback: fallback}
}

// Generate tries primary, then fallback.
func (f *FallbackGenerator) Generate(ctx context.Context, kanji string) (*vocab.Word, error) {
	w, err := f.primary.Generate(ctx, kanji)
	if err == nil {
		return w, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	slog.Warn("primary generator failed, falling back",
		"primary", f.primary.Name(), "fallback", f.fallback.Name(), "error", err)
	w, fbErr := f.fallback.Generate(ctx, kanji)
	if fbErr != nil {
		return nil, fmt.Errorf("both generators failed: primary=%v, fallback=%w", err, fbErr)
	}
	return w, nil
}

// Name returns both backend names.
func (f *FallbackGenerator) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", f.primary.Name(), f.fallback.Name())
}
