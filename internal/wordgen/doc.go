// Package wordgen fills in a vocabulary entry from its kanji using a text
// generation API. Gemini and OpenAI backends are available, and can be
// wrapped with a circuit breaker, a fallback and an in-memory cache.
package wordgen
