package audio

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Speaker reads Japanese text aloud. Synthesized files are kept in dir and
// reused for the same text.
type Speaker struct {
	provider Provider
	player   interface {
		Play(ctx context.Context, file string) error
	}
	dir string
}

// NewSpeaker combines a provider and a player. Files go to dir, or to the
// system temp directory when dir is empty.
func NewSpeaker(provider Provider, player *Player, dir string) *Speaker {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "vocabtester-audio")
	}
	return &Speaker{provider: provider, player: player, dir: dir}
}

// File returns the path the audio for text is stored at.
func (s *Speaker) File(text string) string {
	sum := md5.Sum([]byte(s.provider.Name() + "\x00" + text))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+".mp3")
}

// Synthesize makes sure an audio file for text exists and returns its path.
func (s *Speaker) Synthesize(ctx context.Context, text string) (string, error) {
	if err := ValidateJapaneseText(text); err != nil {
		return "", err
	}

	file := s.File(text)
	if info, err := os.Stat(file); err == nil && info.Size() > 0 {
		return file, nil
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create audio directory: %w", err)
	}

	slog.Debug("synthesizing speech", "provider", s.provider.Name(), "text", text)
	if err := s.provider.GenerateAudio(ctx, text, file); err != nil {
		_ = os.Remove(file)
		return "", fmt.Errorf("failed to synthesize speech: %w", err)
	}
	return file, nil
}

// Speak synthesizes text if needed and plays it.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	file, err := s.Synthesize(ctx, text)
	if err != nil {
		return err
	}
	return s.player.Play(ctx, file)
}
