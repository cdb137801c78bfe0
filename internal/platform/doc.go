// Package platform wraps the operating system integrations of the trainer:
// WSL detection, clipboard access and switching the Windows input method
// editor on and off. Everything degrades to a no-op or an error where the
// integration does not exist.
package platform
