// Package hotkey watches global key chords, such as Escape to cancel a carry.
package hotkey

import (
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Manager handles global hotkey registration and matching
type Manager struct {
	mu           sync.RWMutex
	hotkeys      []*registeredHotkey
	currentState map[string]bool // keys currently held
}

type registeredHotkey struct {
	parts    []string // e.g., ["CTRL", "SHIFT", "ESC"]
	original string
	callback func()
}

// keyAliases maps the spellings accepted in config to the canonical names the
// platform hooks report.
var keyAliases = map[string]string{
	"ESCAPE":  "ESC",
	"CONTROL": "CTRL",
	"COMMAND": "CMD",
	"META":    "CMD",
	"SUPER":   "CMD",
	"WIN":     "CMD",
	"OPTION":  "ALT",
	"OPT":     "ALT",
	"RETURN":  "ENTER",
}

// NormalizeKey returns the canonical upper-case name for key
func NormalizeKey(key string) string {
	k := strings.ToUpper(strings.TrimSpace(key))
	if alias, ok := keyAliases[k]; ok {
		return alias
	}
	return k
}

// NewManager creates a new hotkey manager
func NewManager() *Manager {
	return &Manager{
		currentState: make(map[string]bool),
	}
}

// Register registers a chord string (e.g. "Esc", "Ctrl+Shift+X") and a callback.
// An empty string registers nothing.
func (m *Manager) Register(hotkeyStr string, callback func()) (int, error) {
	if strings.TrimSpace(hotkeyStr) == "" {
		return -1, nil
	}

	parts := strings.Split(hotkeyStr, "+")
	for i, p := range parts {
		parts[i] = NormalizeKey(p)
		if parts[i] == "" {
			return -1, fmt.Errorf("hotkey %q: empty key", hotkeyStr)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.hotkeys = append(m.hotkeys, &registeredHotkey{
		parts:    parts,
		original: hotkeyStr,
		callback: callback,
	})
	return len(m.hotkeys) - 1, nil
}

// Clear removes all registered hotkeys
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hotkeys = nil
}

// UpdateState records a key transition and fires every chord completed by it.
// Auto-repeat key downs for a held key do not fire again.
func (m *Manager) UpdateState(key string, isDown bool) {
	key = NormalizeKey(key)

	m.mu.Lock()
	wasDown := m.currentState[key]
	if isDown {
		m.currentState[key] = true
	} else {
		delete(m.currentState, key)
	}
	m.mu.Unlock()

	if isDown && !wasDown {
		m.checkMatches(key)
	}
}

func (m *Manager) checkMatches(pressed string) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, hk := range m.hotkeys {
		match := true
		involved := false
		for _, part := range hk.parts {
			if !m.currentState[part] {
				match = false
				break
			}
			if part == pressed {
				involved = true
			}
		}

		if match && involved {
			log.Debugf("Hotkey: triggered %s", hk.original)
			go hk.callback()
		}
	}
}

// Start initiates the platform-specific global hooks.
// This is implemented in hotkey_windows.go and hotkey_darwin.go.
func (m *Manager) Start() error {
	return m.startPlatform()
}
