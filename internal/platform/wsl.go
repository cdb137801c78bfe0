package platform

import (
	"os"
	"runtime"
	"strings"
	"sync"
)

var (
	wslOnce sync.Once
	wsl     bool
)

// IsWSL reports whether the process runs inside the Windows Subsystem for
// Linux.
func IsWSL() bool {
	wslOnce.Do(func() {
		if runtime.GOOS != "linux" {
			return
		}
		release, err := os.ReadFile("/proc/sys/kernel/osrelease")
		if err != nil {
			return
		}
		wsl = IsWSLRelease(string(release))
	})
	return wsl
}

// IsWSLRelease reports whether a kernel release string belongs to WSL.
func IsWSLRelease(release string) bool {
	release = strings.ToLower(release)
	return strings.Contains(release, "microsoft") || strings.Contains(release, "wsl")
}
