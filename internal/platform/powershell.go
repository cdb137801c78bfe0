package platform

import (
	"context"
	"encoding/base64"
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

// powerShells are tried in order. The full path covers WSL setups where the
// Windows directories are not on PATH.
var powerShells = []string{
	"powershell.exe",
	"/mnt/c/Windows/System32/WindowsPowerShell/v1.0/powershell.exe",
}

// EncodeCommand encodes a script for powershell -EncodedCommand, which
// expects base64 of the UTF-16LE text.
func EncodeCommand(script string) (string, error) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	utf16, err := enc.String(script)
	if err != nil {
		return "", fmt.Errorf("failed to encode script: %w", err)
	}
	return base64.StdEncoding.EncodeToString([]byte(utf16)), nil
}

// RunPowerShell runs powershell with args, trying each known location.
func RunPowerShell(ctx context.Context, r Runner, stdin []byte, args ...string) ([]byte, error) {
	var lastErr error
	for _, ps := range powerShells {
		out, err := r.Run(ctx, stdin, ps, args...)
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("powershell unavailable: %w", lastErr)
}
