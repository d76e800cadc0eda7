// Package platform defines the contract between the engine core and the
// operating system: a subscription source for raw input events and an
// output sink that synthesizes keystrokes. Concrete
// implementations wrap robotn/gohook and go-vgo/robotgo; a no-op pair
// is provided for tests and for environments without input-monitoring
// permission.
package platform
