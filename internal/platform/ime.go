package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"
)

// ErrIMEUnsupported is returned where the input method cannot be switched.
var ErrIMEUnsupported = errors.New("input method switching not supported")

// imeScript toggles the IME of the focused window from a separate process.
// It attaches to the foreground thread so GetFocus sees the real target and
// sends WM_IME_CONTROL/IMC_SETOPENSTATUS to its default IME window.
const imeScript = `$code = @'
using System;
using System.Runtime.InteropServices;
public class Ime {
    [DllImport("user32.dll")] public static extern IntPtr GetForegroundWindow();
    [DllImport("user32.dll")] public static extern uint GetWindowThreadProcessId(IntPtr hWnd, out uint lpdwProcessId);
    [DllImport("kernel32.dll")] public static extern uint GetCurrentThreadId();
    [DllImport("user32.dll")] public static extern bool AttachThreadInput(uint idAttach, uint idAttachTo, bool fAttach);
    [DllImport("user32.dll")] public static extern IntPtr GetFocus();
    [DllImport("imm32.dll")] public static extern IntPtr ImmGetDefaultIMEWnd(IntPtr hWnd);
    [DllImport("user32.dll")] public static extern IntPtr SendMessage(IntPtr hWnd, uint Msg, IntPtr wParam, IntPtr lParam);

    public static void Set(bool open) {
        var hwnd = GetForegroundWindow();
        if (hwnd == IntPtr.Zero) return;
        uint pid;
        uint target = GetWindowThreadProcessId(hwnd, out pid);
        uint current = GetCurrentThreadId();
        bool attached = target != current && AttachThreadInput(current, target, true);
        try {
            var focus = GetFocus();
            if (focus == IntPtr.Zero) focus = hwnd;
            var ime = ImmGetDefaultIMEWnd(focus);
            if (ime != IntPtr.Zero) {
                SendMessage(ime, 0x0283, (IntPtr)0x0006, (IntPtr)(open ? 1 : 0));
            }
        } finally {
            if (attached) AttachThreadInput(current, target, false);
        }
    }
}
'@
Add-Type -TypeDefinition $code
[Ime]::Set($%t)
`

// IME switches the Windows input method between Japanese and direct input.
type IME struct {
	runner Runner
	wsl    bool
	goos   string
	native func(open bool) error

	// One worker applies switches in order; requests made while it is busy
	// collapse into the latest one.
	mu      sync.Mutex
	want    bool
	pending bool
	running bool
}

// NewIME returns an IME switcher for the current system.
func NewIME() *IME {
	return &IME{runner: ExecRunner{}, wsl: IsWSL(), goos: runtime.GOOS, native: setNativeIME}
}

// SetOpen opens (Japanese input) or closes (direct input) the IME of the
// focused window.
func (m *IME) SetOpen(ctx context.Context, open bool) error {
	switch {
	case m.goos == "windows":
		return m.native(open)
	case m.wsl:
		encoded, err := EncodeCommand(fmt.Sprintf(imeScript, open))
		if err != nil {
			return err
		}
		_, err = RunPowerShell(ctx, m.runner, nil, "-NoProfile", "-NonInteractive", "-EncodedCommand", encoded)
		return err
	default:
		return ErrIMEUnsupported
	}
}

// SetOpenAsync switches the IME in the background. Compiling the helper
// under WSL takes a second or two, which must not stall the UI. The last
// requested state always wins.
func (m *IME) SetOpenAsync(open bool) {
	if m.goos != "windows" && !m.wsl {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.want, m.pending = open, true
	if !m.running {
		m.running = true
		go m.worker()
	}
}

func (m *IME) worker() {
	for {
		m.mu.Lock()
		if !m.pending {
			m.running = false
			m.mu.Unlock()
			return
		}
		open := m.want
		m.pending = false
		m.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := m.SetOpen(ctx, open); err != nil {
			slog.Debug("failed to switch input method", "open", open, "error", err)
		}
		cancel()
	}
}

func (m *IME) busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}
