package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ESpeakProvider synthesizes speech offline with espeak-ng. Its Japanese
// voice is robotic but needs neither network nor key.
type ESpeakProvider struct {
	voice    string
	speed    int
	lookPath func(string) (string, error)
	command  func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewESpeakProvider creates a new espeak-ng provider
func NewESpeakProvider(config *Config) *ESpeakProvider {
	voice, speed := "ja", 140
	if config != nil {
		if config.ESpeakVoice != "" {
			voice = config.ESpeakVoice
		}
		if config.ESpeakSpeed > 0 {
			speed = config.ESpeakSpeed
		}
	}
	return &ESpeakProvider{
		voice:    voice,
		speed:    clamp(speed, 80, 450),
		lookPath: exec.LookPath,
		command:  exec.CommandContext,
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// args builds the espeak-ng command line writing a WAV file.
func (p *ESpeakProvider) args(text, wavFile string) []string {
	return []string{
		"-v", p.voice,
		"-s", strconv.Itoa(p.speed),
		"-w", wavFile,
		text,
	}
}

// GenerateAudio generates audio using espeak-ng. MP3 output is converted
// from WAV with ffmpeg.
func (p *ESpeakProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateJapaneseText(text); err != nil {
		return err
	}

	if dir := filepath.Dir(outputFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	wavFile := outputFile
	if strings.ToLower(filepath.Ext(outputFile)) != ".wav" {
		wavFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + "_temp.wav"
		defer os.Remove(wavFile)
	}

	output, err := p.command(ctx, "espeak-ng", p.args(text, wavFile)...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, string(output))
	}

	if wavFile != outputFile {
		return p.convertWAVToMP3(ctx, wavFile, outputFile)
	}
	return nil
}

func (p *ESpeakProvider) convertWAVToMP3(ctx context.Context, wavFile, mp3File string) error {
	if _, err := p.lookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg is not installed or not in PATH: %w", err)
	}

	output, err := p.command(ctx, "ffmpeg", "-i", wavFile, "-acodec", "mp3", "-y", mp3File).CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

// Name returns the provider name
func (p *ESpeakProvider) Name() string {
	return "espeak-ng"
}

// IsAvailable checks if espeak-ng is installed
func (p *ESpeakProvider) IsAvailable() error {
	if _, err := p.lookPath("espeak-ng"); err != nil {
		return fmt.Errorf("espeak-ng is not installed or not in PATH: %w", err)
	}
	return nil
}
