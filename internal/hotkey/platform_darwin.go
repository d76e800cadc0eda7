//go:build darwin

package hotkey

// Platform-specific notes for macOS:
// - Requires Accessibility permissions in System Preferences
// - Use Cmd key instead of Ctrl for some shortcuts
// - Some key combinations may conflict with system shortcuts
