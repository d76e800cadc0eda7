package hotkey

import (
	"context"
	"runtime"
	"strings"
	"sync"

	"golang.design/x/hotkey"
	"golang.design/x/hotkey/mainthread"

	"github.com/miraines/macroforge/internal/logging"
)

var isMacOS = runtime.GOOS == "darwin"

// binding pairs a registered global hotkey with the callback it fires.
type binding struct {
	name    string
	hk      *hotkey.Hotkey
	keyStr  string
	handler func()
}

// Manager owns the engine's two global hotkeys: the kill switch that
// cancels every in-flight macro sequence, and the on-demand profile
// reload that re-reads the profile file independent of the fsnotify
// watcher. Unlike an open-ended action registry, both slots are named
// explicitly, since the engine never needs a third global hotkey.
type Manager struct {
	logger *logging.Logger

	mu            sync.RWMutex
	killSwitch    *binding
	reloadProfile *binding
	running       bool
	cancelFunc    context.CancelFunc
}

// NewManager creates a new hotkey manager.
func NewManager(logger *logging.Logger) *Manager {
	return &Manager{logger: logger}
}

// BindKillSwitch registers keyCombo to call onTrigger, replacing
// whatever combo the kill switch was previously bound to.
func (m *Manager) BindKillSwitch(keyCombo string, onTrigger func()) error {
	return m.bind(&m.killSwitch, "kill_switch", keyCombo, onTrigger)
}

// BindReloadProfile registers keyCombo to call onTrigger, replacing
// whatever combo the reload action was previously bound to.
func (m *Manager) BindReloadProfile(keyCombo string, onTrigger func()) error {
	return m.bind(&m.reloadProfile, "reload_profile", keyCombo, onTrigger)
}

func (m *Manager) bind(slot **binding, name, keyCombo string, onTrigger func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if *slot != nil {
		(*slot).hk.Unregister()
	}

	mods, k, err := parseKeyCombo(keyCombo)
	if err != nil {
		return err
	}

	*slot = &binding{name: name, hk: hotkey.New(mods, k), keyStr: keyCombo, handler: onTrigger}
	if m.logger != nil {
		m.logger.Info("hotkey", "bound %s for %s", keyCombo, name)
	}
	return nil
}

// Start starts listening for hotkeys (must be called from the main thread).
func (m *Manager) Start() {
	ctx, ok := m.beginRun()
	if !ok {
		return
	}
	mainthread.Init(func() {
		m.startListeners(ctx)
	})
}

// StartAsync starts hotkey listening in a background goroutine.
func (m *Manager) StartAsync() {
	ctx, ok := m.beginRun()
	if !ok {
		return
	}
	go m.startListeners(ctx)
}

func (m *Manager) beginRun() (context.Context, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return nil, false
	}
	m.running = true
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelFunc = cancel
	return ctx, true
}

// startListeners registers and starts the two bound hotkeys.
func (m *Manager) startListeners(ctx context.Context) {
	m.mu.RLock()
	bindings := make([]*binding, 0, 2)
	for _, b := range []*binding{m.killSwitch, m.reloadProfile} {
		if b != nil {
			bindings = append(bindings, b)
		}
	}
	m.mu.RUnlock()

	for _, b := range bindings {
		if err := b.hk.Register(); err != nil {
			if m.logger != nil {
				m.logger.Error("hotkey", "failed to register hotkey for %s: %v", b.name, err)
			}
			continue
		}
		go m.listen(ctx, b)
	}

	if m.logger != nil {
		m.logger.Info("hotkey", "hotkey manager started")
	}

	<-ctx.Done()

	for _, b := range bindings {
		b.hk.Unregister()
	}
	if m.logger != nil {
		m.logger.Info("hotkey", "hotkey manager stopped")
	}
}

// listen waits for b's hotkey to fire and runs its handler each time.
func (m *Manager) listen(ctx context.Context, b *binding) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.hk.Keydown():
			if m.logger != nil {
				m.logger.Debug("hotkey", "hotkey triggered: %s", b.name)
			}
			b.handler()
		}
	}
}

// Stop stops the hotkey manager.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	m.running = false
	if m.cancelFunc != nil {
		m.cancelFunc()
		m.cancelFunc = nil
	}
}

// parseKeyCombo parses a key combination string like "Ctrl+Shift+J".
func parseKeyCombo(combo string) ([]hotkey.Modifier, hotkey.Key, error) {
	parts := strings.Split(combo, "+")
	if len(parts) == 0 {
		return nil, 0, nil
	}

	var mods []hotkey.Modifier
	var key hotkey.Key

	for i, part := range parts {
		part = strings.TrimSpace(strings.ToLower(part))

		if i == len(parts)-1 {
			key = parseKey(part)
		} else if mod := parseModifier(part); mod != 0 {
			mods = append(mods, mod)
		}
	}

	return mods, key, nil
}

// Modifier constants for different platforms. These values are
// platform-specific and match golang.design/x/hotkey's internal values.
const (
	modCtrl  hotkey.Modifier = hotkey.ModCtrl
	modShift hotkey.Modifier = hotkey.ModShift
)

func parseModifier(mod string) hotkey.Modifier {
	switch strings.ToLower(mod) {
	case "ctrl", "control":
		return modCtrl
	case "shift":
		return modShift
	case "alt", "option":
		if isMacOS {
			return hotkey.ModOption
		}
		return hotkey.Modifier(1 << 3)
	case "cmd", "command":
		if isMacOS {
			return hotkey.ModCmd
		}
		return modCtrl
	case "super", "win":
		if isMacOS {
			return hotkey.ModCmd
		}
		return hotkey.Modifier(1 << 6)
	default:
		return 0
	}
}

// parseKey parses a key string.
func parseKey(k string) hotkey.Key {
	switch strings.ToLower(k) {
	case "a":
		return hotkey.KeyA
	case "b":
		return hotkey.KeyB
	case "c":
		return hotkey.KeyC
	case "d":
		return hotkey.KeyD
	case "e":
		return hotkey.KeyE
	case "f":
		return hotkey.KeyF
	case "g":
		return hotkey.KeyG
	case "h":
		return hotkey.KeyH
	case "i":
		return hotkey.KeyI
	case "j":
		return hotkey.KeyJ
	case "k":
		return hotkey.KeyK
	case "l":
		return hotkey.KeyL
	case "m":
		return hotkey.KeyM
	case "n":
		return hotkey.KeyN
	case "o":
		return hotkey.KeyO
	case "p":
		return hotkey.KeyP
	case "q":
		return hotkey.KeyQ
	case "r":
		return hotkey.KeyR
	case "s":
		return hotkey.KeyS
	case "t":
		return hotkey.KeyT
	case "u":
		return hotkey.KeyU
	case "v":
		return hotkey.KeyV
	case "w":
		return hotkey.KeyW
	case "x":
		return hotkey.KeyX
	case "y":
		return hotkey.KeyY
	case "z":
		return hotkey.KeyZ

	case "0":
		return hotkey.Key0
	case "1":
		return hotkey.Key1
	case "2":
		return hotkey.Key2
	case "3":
		return hotkey.Key3
	case "4":
		return hotkey.Key4
	case "5":
		return hotkey.Key5
	case "6":
		return hotkey.Key6
	case "7":
		return hotkey.Key7
	case "8":
		return hotkey.Key8
	case "9":
		return hotkey.Key9

	case "f1":
		return hotkey.KeyF1
	case "f2":
		return hotkey.KeyF2
	case "f3":
		return hotkey.KeyF3
	case "f4":
		return hotkey.KeyF4
	case "f5":
		return hotkey.KeyF5
	case "f6":
		return hotkey.KeyF6
	case "f7":
		return hotkey.KeyF7
	case "f8":
		return hotkey.KeyF8
	case "f9":
		return hotkey.KeyF9
	case "f10":
		return hotkey.KeyF10
	case "f11":
		return hotkey.KeyF11
	case "f12":
		return hotkey.KeyF12

	case "space":
		return hotkey.KeySpace
	case "return", "enter":
		return hotkey.KeyReturn
	case "escape", "esc":
		return hotkey.KeyEscape
	case "tab":
		return hotkey.KeyTab
	case "delete", "backspace":
		return hotkey.KeyDelete

	default:
		return 0
	}
}
