// Package input provides the host actuation surface: pointer, keyboard, clipboard and notifications.
package input

import "runtime"

// Button names a mouse button
type Button string

const (
	ButtonLeft   Button = "left"
	ButtonRight  Button = "right"
	ButtonCenter Button = "center"
)

// HostInputSink performs actions on the host. Every call is fire-and-forget:
// implementations report their own failures and never retry.
type HostInputSink interface {
	MoveAbsolute(x, y int)
	MoveRelative(dx, dy int)
	MouseDown(button Button)
	MouseUp(button Button)
	Click()
	RightClick()
	// ScrollLines scrolls vertically by n lines, positive is up.
	ScrollLines(n int)
	Hotkey(modifier, key string)
	ClipboardWrite(text string)
	Notify(title, body string)
}

// ScreenSizer reports the primary display size in pixels
type ScreenSizer interface {
	ScreenSize() (width, height int)
}

// DefaultModifier returns the platform's shortcut modifier:
// "cmd" on macOS and "ctrl" elsewhere.
func DefaultModifier() string {
	if runtime.GOOS == "darwin" {
		return "cmd"
	}
	return "ctrl"
}
