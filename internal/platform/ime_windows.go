//go:build windows

package platform

import (
	"golang.org/x/sys/windows"
)

var (
	imm32                 = windows.NewLazySystemDLL("imm32.dll")
	procImmGetContext     = imm32.NewProc("ImmGetContext")
	procImmSetOpenStatus  = imm32.NewProc("ImmSetOpenStatus")
	procImmReleaseContext = imm32.NewProc("ImmReleaseContext")
)

func setNativeIME(open bool) error {
	hwnd := windows.GetForegroundWindow()
	if hwnd == 0 {
		return nil
	}

	himc, _, _ := procImmGetContext.Call(uintptr(hwnd))
	if himc == 0 {
		return nil
	}
	defer procImmReleaseContext.Call(uintptr(hwnd), himc)

	var status uintptr
	if open {
		status = 1
	}
	procImmSetOpenStatus.Call(himc, status)
	return nil
}
