//go:build linux

package platform

// X11's XTest/XRecord extensions, which gohook and robotgo use on
// Linux, don't gate on an OS permission prompt the way macOS
// accessibility does; access depends on X server policy that's set up
// out of band (e.g. being in the input group for evdev fallback).
func checkAccessibilityReal() bool { return true }

func requestAccessibility() {}
