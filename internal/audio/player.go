package audio

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"codeberg.org/snonux/vocabtester/internal/platform"
)

// Player plays audio files with whatever player the system provides.
// Cancelling the context stops playback.
type Player struct {
	runner   platform.Runner
	lookPath platform.LookPathFunc
	wsl      bool
	goos     string
}

// NewPlayer returns a player for the current system.
func NewPlayer() *Player {
	return &Player{
		runner:   platform.ExecRunner{},
		lookPath: exec.LookPath,
		wsl:      platform.IsWSL(),
		goos:     runtime.GOOS,
	}
}

// linuxPlayers in order of preference. mpg123 handles MP3 best.
var linuxPlayers = [][]string{
	{"mpg123", "-q"},
	{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
	{"play", "-q"},
	{"paplay"},
	{"aplay", "-q"},
}

// Play blocks until file finished playing.
func (p *Player) Play(ctx context.Context, file string) error {
	if p.wsl {
		return p.playWSL(ctx, file)
	}

	name, args, err := p.command(file)
	if err != nil {
		return err
	}
	if _, err := p.runner.Run(ctx, nil, name, args...); err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}
	return nil
}

func (p *Player) command(file string) (string, []string, error) {
	switch p.goos {
	case "darwin":
		return "afplay", []string{file}, nil
	case "linux":
		for _, player := range linuxPlayers {
			if _, err := p.lookPath(player[0]); err == nil {
				return player[0], append(player[1:len(player):len(player)], file), nil
			}
		}
		return "", nil, fmt.Errorf("no audio player found. Install mpg123, ffplay, sox, paplay, or aplay")
	case "windows":
		return "cmd", []string{"/c", "start", "/min", file}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", p.goos)
	}
}

// playWSL hands the file to Windows, since WSL rarely has a working sound
// device. SoundPlayer only plays WAV, so MP3 is decoded with mpg123 first.
func (p *Player) playWSL(ctx context.Context, file string) error {
	wav := file
	if strings.ToLower(filepath.Ext(file)) != ".wav" {
		wav = strings.TrimSuffix(file, filepath.Ext(file)) + ".wav"
		if _, err := p.runner.Run(ctx, nil, "mpg123", "-q", "-w", wav, file); err != nil {
			return fmt.Errorf("failed to decode %s: %w", filepath.Base(file), err)
		}
	}

	out, err := p.runner.Run(ctx, nil, "wslpath", "-w", wav)
	if err != nil {
		return fmt.Errorf("failed to translate path: %w", err)
	}
	winPath := strings.ReplaceAll(strings.TrimSpace(string(out)), "'", "''")

	script := fmt.Sprintf("(New-Object System.Media.SoundPlayer '%s').PlaySync()", winPath)
	if _, err := platform.RunPowerShell(ctx, p.runner, nil,
		"-NoProfile", "-NonInteractive", "-Command", script); err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}
	return nil
}
