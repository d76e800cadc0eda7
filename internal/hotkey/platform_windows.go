//go:build windows

package hotkey

// Platform-specific notes for Windows:
// - Global hotkeys work out of the box
// - Use Ctrl key for most shortcuts
// - Some key combinations may conflict with system shortcuts
