//go:build !windows

package platform

func setNativeIME(open bool) error {
	return ErrIMEUnsupported
}
