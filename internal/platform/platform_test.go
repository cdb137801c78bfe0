package platform

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"codeberg.org/snonux/vocabtester/internal/testutil"
)

func TestIsWSLRelease(t *testing.T) {
	tests := []struct {
		release  string
		expected bool
	}{
		{"5.15.153.1-microsoft-standard-WSL2", true},
		{"4.4.0-19041-Microsoft", true},
		{"6.8.0-45-generic", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsWSLRelease(tt.release); got != tt.expected {
			t.Errorf("IsWSLRelease(%q) = %v, want %v", tt.release, got, tt.expected)
		}
	}
}

func TestEncodeCommand(t *testing.T) {
	encoded, err := EncodeCommand("Hi")
	if err != nil {
		t.Fatalf("EncodeCommand() error = %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	want := []byte{'H', 0, 'i', 0}
	if string(raw) != string(want) {
		t.Errorf("decoded = %v, want %v", raw, want)
	}
}

func TestNewClipboardOnlyUnderWSL(t *testing.T) {
	if c := newClipboard(false); c != nil {
		t.Errorf("newClipboard(false) = %+v, want nil", c)
	}
	if c := newClipboard(true); c == nil {
		t.Error("newClipboard(true) = nil")
	}
}

func TestClipboardWSL(t *testing.T) {
	runner := &testutil.MockRunner{}
	c := &Clipboard{runner: runner}

	if err := c.Copy(context.Background(), "学校"); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if len(runner.Calls) != 1 || !strings.HasPrefix(runner.Calls[0], "powershell.exe -NoProfile -NonInteractive -Command") {
		t.Errorf("calls = %v", runner.Calls)
	}

	// PowerShell missing everywhere: clip.exe takes over.
	fail := errors.New("exec: not found")
	runner = &testutil.MockRunner{Errors: map[string]error{
		powerShells[0]: fail,
		powerShells[1]: fail,
	}}
	c.runner = runner
	if err := c.Copy(context.Background(), "学校"); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if got := runner.Calls[len(runner.Calls)-1]; got != "clip.exe" {
		t.Errorf("last call = %q, want clip.exe", got)
	}
	if len(runner.Calls) != 3 {
		t.Errorf("calls = %v", runner.Calls)
	}
}

func TestIMESetOpen(t *testing.T) {
	runner := &testutil.MockRunner{}
	m := &IME{runner: runner, wsl: true, goos: "linux"}

	if err := m.SetOpen(context.Background(), true); err != nil {
		t.Fatalf("SetOpen() error = %v", err)
	}
	if len(runner.Calls) != 1 {
		t.Fatalf("calls = %v", runner.Calls)
	}
	fields := strings.Fields(runner.Calls[0])
	encoded := fields[len(fields)-1]
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("invalid encoded command: %v", err)
	}
	// UTF-16LE: drop every zero high byte to get the ASCII script back.
	script := strings.ReplaceAll(string(raw), "\x00", "")
	if !strings.Contains(script, "[Ime]::Set($true)") {
		t.Errorf("script does not open the IME:\n%s", script)
	}

	native := false
	m = &IME{goos: "windows", native: func(open bool) error { native = open; return nil }}
	if err := m.SetOpen(context.Background(), true); err != nil || !native {
		t.Errorf("windows SetOpen() = %v, native called = %v", err, native)
	}

	m = &IME{goos: "darwin"}
	if err := m.SetOpen(context.Background(), false); !errors.Is(err, ErrIMEUnsupported) {
		t.Errorf("SetOpen() on darwin error = %v, want ErrIMEUnsupported", err)
	}
}

func TestIMESetOpenAsyncAppliesLatest(t *testing.T) {
	calls := make(chan bool, 10)
	release := make(chan struct{})
	first := true
	m := &IME{goos: "windows", native: func(open bool) error {
		calls <- open
		if first {
			first = false
			<-release
		}
		return nil
	}}

	m.SetOpenAsync(true)
	if got := <-calls; !got {
		t.Fatalf("first switch = %v, want open", got)
	}

	// Requests queued behind a slow switch collapse to the last one.
	m.SetOpenAsync(false)
	m.SetOpenAsync(true)
	m.SetOpenAsync(false)
	close(release)

	if got := <-calls; got {
		t.Errorf("second switch = %v, want closed", got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for m.busy() {
		if time.Now().After(deadline) {
			t.Fatal("worker did not finish")
		}
		time.Sleep(time.Millisecond)
	}
	if n := len(calls); n != 0 {
		t.Errorf("%d extra switches, want none", n)
	}
}

func TestIMESetOpenAsyncUnsupported(t *testing.T) {
	m := &IME{goos: "darwin"}
	m.SetOpenAsync(true)
	if m.busy() {
		t.Error("worker started on an unsupported system")
	}
}
