package platform

import (
	"context"
	"fmt"
)

// setClipboardScript reads UTF-8 from stdin so non-ASCII text survives the
// trip from WSL into Windows.
const setClipboardScript = `$ms = New-Object System.IO.MemoryStream; ` +
	`[Console]::OpenStandardInput().CopyTo($ms); ` +
	`$text = [System.Text.Encoding]::UTF8.GetString($ms.ToArray()); ` +
	`Set-Clipboard -Value $text`

// Clipboard copies text to the Windows clipboard from inside WSL, where
// the X clipboard the toolkit writes to is not shared with Windows.
type Clipboard struct {
	runner Runner
}

// NewClipboard returns a clipboard under WSL and nil elsewhere, where the
// toolkit clipboard already reaches the desktop.
func NewClipboard() *Clipboard {
	return newClipboard(IsWSL())
}

func newClipboard(wsl bool) *Clipboard {
	if !wsl {
		return nil
	}
	return &Clipboard{runner: ExecRunner{}}
}

// Copy places text on the Windows clipboard. PowerShell is tried first
// since clip.exe mangles non-ASCII input.
func (c *Clipboard) Copy(ctx context.Context, text string) error {
	_, err := RunPowerShell(ctx, c.runner, []byte(text),
		"-NoProfile", "-NonInteractive", "-Command", setClipboardScript)
	if err == nil {
		return nil
	}
	if _, clipErr := c.runner.Run(ctx, []byte(text), "clip.exe"); clipErr != nil {
		return fmt.Errorf("failed to copy to clipboard: %v; clip.exe: %w", err, clipErr)
	}
	return nil
}
