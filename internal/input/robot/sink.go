// Package robot implements the host input sink on robotgo. It needs cgo and the
// platform input headers, so it lives apart from package input.
package robot

import (
	"github.com/go-vgo/robotgo"
	log "github.com/sirupsen/logrus"

	"reachz/internal/input"
)

// Sink drives the local host through robotgo
type Sink struct {
	// Notifier shows desktop notifications. Nil falls back to input.SystemNotify.
	Notifier func(title, body string) error
}

// New creates a sink acting on the local display
func New() *Sink {
	return &Sink{}
}

// ScreenSize returns the primary display size
func (s *Sink) ScreenSize() (int, int) {
	return robotgo.GetScreenSize()
}

// MoveAbsolute moves the pointer to (x, y)
func (s *Sink) MoveAbsolute(x, y int) {
	robotgo.Move(x, y)
}

// MoveRelative moves the pointer by (dx, dy)
func (s *Sink) MoveRelative(dx, dy int) {
	robotgo.MoveRelative(dx, dy)
}

// MouseDown presses button
func (s *Sink) MouseDown(button input.Button) {
	if err := robotgo.MouseDown(string(button)); err != nil {
		log.Warnf("Robot: mouse down %s failed: %v", button, err)
	}
}

// MouseUp releases button
func (s *Sink) MouseUp(button input.Button) {
	if err := robotgo.MouseUp(string(button)); err != nil {
		log.Warnf("Robot: mouse up %s failed: %v", button, err)
	}
}

// Click performs a single left click
func (s *Sink) Click() {
	robotgo.Click()
}

// RightClick performs a single right click
func (s *Sink) RightClick() {
	robotgo.Click(string(input.ButtonRight))
}

// ScrollLines scrolls vertically by n lines
func (s *Sink) ScrollLines(n int) {
	if n == 0 {
		return
	}
	robotgo.Scroll(0, n)
}

// Hotkey taps key while holding modifier
func (s *Sink) Hotkey(modifier, key string) {
	var err error
	if modifier == "" {
		err = robotgo.KeyTap(key)
	} else {
		err = robotgo.KeyTap(key, modifier)
	}
	if err != nil {
		log.Warnf("Robot: hotkey %s+%s failed: %v", modifier, key, err)
	}
}

// ClipboardWrite replaces the clipboard contents with text
func (s *Sink) ClipboardWrite(text string) {
	if err := robotgo.WriteAll(text); err != nil {
		log.Warnf("Robot: clipboard write failed: %v", err)
	}
}

// Notify shows a desktop notification
func (s *Sink) Notify(title, body string) {
	notify := s.Notifier
	if notify == nil {
		notify = input.SystemNotify
	}
	if err := notify(title, body); err != nil {
		log.Debugf("Robot: notification failed: %v", err)
	}
}

var (
	_ input.HostInputSink = (*Sink)(nil)
	_ input.ScreenSizer   = (*Sink)(nil)
)
