package platform

import (
	"sync"
	"sync/atomic"
	"time"

	hook "github.com/robotn/gohook"

	"github.com/miraines/macroforge/internal/key"
	"github.com/miraines/macroforge/internal/logging"
)

// Mouse button codes as reported by gohook's event stream.
const (
	buttonMiddle uint16 = 3
	buttonX1     uint16 = 4
	buttonX2     uint16 = 5
)

// GohookSource delivers global keyboard and mouse events via
// robotn/gohook, exposed as the continuous raw stream the gesture
// orchestrator classifies. Only members of the closed input-key set are
// delivered; every other key or button is dropped.
type GohookSource struct {
	logger *logging.Logger

	mu      sync.Mutex
	started bool
	stop    chan struct{}
	closed  atomic.Bool
}

// NewGohookSource builds an InputSource backed by robotn/gohook.
func NewGohookSource(logger *logging.Logger) *GohookSource {
	return &GohookSource{logger: logger}
}

// Start begins the global hook and delivers canonicalized RawEvents to
// onEvent until Stop is called. It must be called at most once.
func (s *GohookSource) Start(onEvent func(RawEvent)) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.stop = make(chan struct{})
	s.mu.Unlock()

	events := hook.Start()

	go func() {
		for {
			select {
			case <-s.stop:
				hook.End()
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if raw, mapped := s.mapEvent(ev); mapped {
					onEvent(raw)
				}
			}
		}
	}()

	return nil
}

// Stop ends the global hook. Safe to call more than once.
func (s *GohookSource) Stop() {
	if s.closed.Swap(true) {
		return
	}
	s.mu.Lock()
	if s.stop != nil {
		close(s.stop)
	}
	s.mu.Unlock()
}

func (s *GohookSource) mapEvent(ev hook.Event) (RawEvent, bool) {
	now := time.Now()

	switch ev.Kind {
	case hook.KeyDown, hook.KeyUp:
		name := key.CanonicalizeInputName(hook.RawcodetoKeychar(ev.Rawcode))
		ik, ok := key.InputKeyFromName(name)
		if !ok {
			return RawEvent{}, false // unknown key: silently ignored
		}
		kind := RawKeyDown
		if ev.Kind == hook.KeyUp {
			kind = RawKeyUp
		}
		return RawEvent{Key: ik, Kind: kind, At: now}, true

	case hook.MouseDown, hook.MouseUp:
		ik, ok := mouseInputKey(ev.Button)
		if !ok {
			return RawEvent{}, false
		}
		kind := RawKeyDown
		if ev.Kind == hook.MouseUp {
			kind = RawKeyUp
		}
		return RawEvent{Key: ik, Kind: kind, At: now}, true

	default:
		return RawEvent{}, false
	}
}

func mouseInputKey(button uint16) (key.InputKey, bool) {
	switch button {
	case buttonMiddle:
		return key.InputMiddleClick, true
	case buttonX1:
		return key.InputX1Click, true
	case buttonX2:
		return key.InputX2Click, true
	default:
		return 0, false
	}
}
