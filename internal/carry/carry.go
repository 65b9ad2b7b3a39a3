// Package carry holds a single text payload that can be dropped at the cursor.
package carry

import (
	"sync"

	"reachz/internal/input"
)

// State is the observable carry state
type State struct {
	Holding bool
	Text    string
}

// Machine holds at most one payload. Every transition, including cancel from
// outside the dispatch path, takes the same lock.
type Machine struct {
	mu       sync.Mutex
	payload  *string
	sink     input.HostInputSink
	modifier string
}

// New creates an empty machine. Drops write to the clipboard and press modifier+V on sink.
func New(sink input.HostInputSink, modifier string) *Machine {
	return &Machine{
		sink:     sink,
		modifier: modifier,
	}
}

// SetModifier changes the paste shortcut modifier
func (m *Machine) SetModifier(modifier string) {
	m.mu.Lock()
	m.modifier = modifier
	m.mu.Unlock()
}

// Load replaces any current payload with text
func (m *Machine) Load(text string) {
	m.mu.Lock()
	m.payload = &text
	m.mu.Unlock()
}

// Drop pastes the payload and clears it. It reports whether anything was pasted.
func (m *Machine) Drop() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.payload == nil {
		return "", false
	}
	text := *m.payload
	m.pasteLocked(text)
	m.payload = nil
	return text, true
}

// DropKeep pastes the payload and keeps holding it
func (m *Machine) DropKeep() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.payload == nil {
		return "", false
	}
	text := *m.payload
	m.pasteLocked(text)
	return text, true
}

// Status reports the current state without changing it
func (m *Machine) Status() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.payload == nil {
		return State{}
	}
	return State{Holding: true, Text: *m.payload}
}

// Cancel discards the payload without any host action.
// It returns the discarded text and whether there was one.
func (m *Machine) Cancel() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.payload == nil {
		return "", false
	}
	text := *m.payload
	m.payload = nil
	return text, true
}

func (m *Machine) pasteLocked(text string) {
	m.sink.ClipboardWrite(text)
	m.sink.Hotkey(m.modifier, "v")
}

// Preview shortens text to max runes, appending "..." when cut
func Preview(text string, max int) string {
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	return string(r[:max]) + "..."
}
