package audio

import (
	"context"
	"errors"
	"os/exec"
	"reflect"
	"strings"
	"testing"

	"codeberg.org/snonux/vocabtester/internal/testutil"
)

func TestPlayerCommand(t *testing.T) {
	tests := []struct {
		name      string
		goos      string
		installed []string
		want      []string
		wantErr   bool
	}{
		{name: "macOS", goos: "darwin", want: []string{"afplay", "a.mp3"}},
		{name: "linux mpg123", goos: "linux", installed: []string{"mpg123", "aplay"}, want: []string{"mpg123", "-q", "a.mp3"}},
		{name: "linux ffplay", goos: "linux", installed: []string{"ffplay"}, want: []string{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", "a.mp3"}},
		{name: "linux nothing", goos: "linux", wantErr: true},
		{name: "windows", goos: "windows", want: []string{"cmd", "/c", "start", "/min", "a.mp3"}},
		{name: "plan9", goos: "plan9", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Player{goos: tt.goos, lookPath: func(name string) (string, error) {
				for _, i := range tt.installed {
					if i == name {
						return "/usr/bin/" + name, nil
					}
				}
				return "", exec.ErrNotFound
			}}
			name, args, err := p.command("a.mp3")
			if (err != nil) != tt.wantErr {
				t.Fatalf("command() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := append([]string{name}, args...); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("command() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlayerLinuxPlayersUnchanged(t *testing.T) {
	p := &Player{goos: "linux", lookPath: func(string) (string, error) { return "x", nil }}
	_, _, _ = p.command("a.mp3")
	_, _, _ = p.command("b.mp3")
	if !reflect.DeepEqual(linuxPlayers[0], []string{"mpg123", "-q"}) {
		t.Errorf("linuxPlayers modified: %v", linuxPlayers[0])
	}
}

func TestPlayerPlay(t *testing.T) {
	runner := &testutil.MockRunner{}
	p := &Player{runner: runner, goos: "darwin"}

	if err := p.Play(context.Background(), "a.mp3"); err != nil {
		t.Fatalf("Play() error: %v", err)
	}
	if !reflect.DeepEqual(runner.Calls, []string{"afplay a.mp3"}) {
		t.Errorf("unexpected calls %v", runner.Calls)
	}
}

func TestPlayerPlayWSL(t *testing.T) {
	runner := &testutil.MockRunner{Output: map[string][]byte{
		"wslpath": []byte("C:\\Users\\o'neil\\a.wav\n"),
	}}
	p := &Player{runner: runner, wsl: true, goos: "linux"}

	if err := p.Play(context.Background(), "/tmp/a.mp3"); err != nil {
		t.Fatalf("Play() error: %v", err)
	}
	if len(runner.Calls) != 3 {
		t.Fatalf("expected 3 calls, got %v", runner.Calls)
	}
	if runner.Calls[0] != "mpg123 -q -w /tmp/a.wav /tmp/a.mp3" {
		t.Errorf("unexpected decode call %q", runner.Calls[0])
	}
	if runner.Calls[1] != "wslpath -w /tmp/a.wav" {
		t.Errorf("unexpected path call %q", runner.Calls[1])
	}
	if !strings.Contains(runner.Calls[2], "SoundPlayer 'C:\\Users\\o''neil\\a.wav'") {
		t.Errorf("unexpected playback call %q", runner.Calls[2])
	}
}

func TestPlayerPlayWSLDecodeFailure(t *testing.T) {
	runner := &testutil.MockRunner{Errors: map[string]error{"mpg123": errors.New("missing")}}
	p := &Player{runner: runner, wsl: true, goos: "linux"}

	if err := p.Play(context.Background(), "/tmp/a.mp3"); err == nil {
		t.Fatal("expected error")
	}
	if len(runner.Calls) != 1 {
		t.Errorf("expected to stop after decode, got %v", runner.Calls)
	}
}
