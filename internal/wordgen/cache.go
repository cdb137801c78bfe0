package wordgen

import (
	"context"
	"strings"
	"sync"

	"codeberg.org/snonux/vocabtester/internal/vocab"
)

// CachingGenerator remembers successful generations for the lifetime of the
// process, so a kanji repeated in a batch is generated once. Callers that
// want a fresh entry call Forget first.
type CachingGenerator struct {
	next    Generator
	mu      sync.Mutex
	entries map[string]vocab.Word
}

// NewCachingGenerator wraps next with an in-memory cache.
func NewCachingGenerator(next Generator) *CachingGenerator {
	return &CachingGenerator{next: next, entries: make(map[string]vocab.Word)}
}

// Name returns the wrapped backend name.
func (c *CachingGenerator) Name() string {
	return c.next.Name()
}

// Generate returns a cached entry or asks the wrapped backend.
func (c *CachingGenerator) Generate(ctx context.Context, kanji string) (*vocab.Word, error) {
	key := strings.TrimSpace(kanji)

	c.mu.Lock()
	if w, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return &w, nil
	}
	c.mu.Unlock()

	w, err := c.next.Generate(ctx, key)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = *w
	c.mu.Unlock()
	return w, nil
}

// Forget drops the cached entry for kanji.
func (c *CachingGenerator) Forget(kanji string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, strings.TrimSpace(kanji))
}
