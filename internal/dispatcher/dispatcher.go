// Package dispatcher matches resolved gesture events against a
// profile's bindings and hands the first match to the executor
// It holds no timing or execution logic of its own.
package dispatcher

import (
	"sync"

	"github.com/miraines/macroforge/internal/gesture"
	"github.com/miraines/macroforge/internal/logging"
	"github.com/miraines/macroforge/internal/profile"
)

// Executor is the subset of executor.Executor the dispatcher depends on.
type Executor interface {
	ExecuteDetached(b profile.Binding)
}

// Dispatcher routes gesture.Events to profile.Bindings. SetBindings is
// safe to call concurrently with HandleGesture, so a profile reload can
// swap the active binding set without pausing gesture delivery.
type Dispatcher struct {
	exec   Executor
	logger *logging.Logger

	mu       sync.RWMutex
	bindings []profile.Binding
}

// New builds a Dispatcher with no bindings configured; call SetBindings
// once a profile has loaded.
func New(exec Executor, logger *logging.Logger) *Dispatcher {
	return &Dispatcher{exec: exec, logger: logger}
}

// SetBindings replaces the active binding set, e.g. after a hot reload.
func (d *Dispatcher) SetBindings(bindings []profile.Binding) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bindings = bindings
}

// HandleGesture finds the first enabled binding whose trigger matches
// ev and executes it. If none matches, it does nothing. Intended as a
// gesture.Listener passed to Orchestrator.OnAny.
func (d *Dispatcher) HandleGesture(ev gesture.Event) {
	d.mu.RLock()
	bindings := d.bindings
	d.mu.RUnlock()

	for _, b := range bindings {
		if !b.Enabled {
			continue
		}
		ik, g, err := b.ParsedTrigger()
		if err != nil {
			if d.logger != nil {
				d.logger.Warn("dispatcher", "binding %q has an unparsable trigger: %v", b.Name, err)
			}
			continue
		}
		if ik == ev.InputKey && g == ev.Gesture {
			d.exec.ExecuteDetached(b)
			return
		}
	}
}
