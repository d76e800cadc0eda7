//go:build windows

package platform

// Windows has no accessibility-style consent prompt for installing a
// low-level keyboard hook; any process can call SetWindowsHookEx.
func checkAccessibilityReal() bool { return true }

func requestAccessibility() {}
