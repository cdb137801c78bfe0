// Package audio speaks Japanese example sentences. Speech is synthesized by
// OpenAI TTS or espeak-ng, cached on disk and played with whatever player
// the platform offers, including Windows playback from inside WSL.
package audio
