// Package inputtest provides a recording HostInputSink for tests.
package inputtest

import (
	"fmt"
	"sync"

	"reachz/internal/input"
)

// Action is one recorded sink call
type Action struct {
	Kind string
	X, Y int
	N    int
	Text string
	Key  string
}

func (a Action) String() string {
	switch a.Kind {
	case "move_abs", "move_rel":
		return fmt.Sprintf("%s(%d,%d)", a.Kind, a.X, a.Y)
	case "scroll":
		return fmt.Sprintf("scroll(%d)", a.N)
	case "hotkey":
		return fmt.Sprintf("hotkey(%s+%s)", a.Text, a.Key)
	case "down", "up":
		return fmt.Sprintf("%s(%s)", a.Kind, a.Key)
	case "clipboard", "notify":
		return fmt.Sprintf("%s(%q)", a.Kind, a.Text)
	}
	return a.Kind
}

// Recorder is a concurrency-safe HostInputSink that stores every call
type Recorder struct {
	mu      sync.Mutex
	actions []Action
	W, H    int
}

var _ input.HostInputSink = (*Recorder)(nil)

// New creates a recorder reporting a w×h screen
func New(w, h int) *Recorder {
	return &Recorder{W: w, H: h}
}

func (r *Recorder) add(a Action) {
	r.mu.Lock()
	r.actions = append(r.actions, a)
	r.mu.Unlock()
}

// Actions returns a copy of the recorded calls
func (r *Recorder) Actions() []Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Action, len(r.actions))
	copy(out, r.actions)
	return out
}

// Kinds returns the kinds of the recorded calls in order
func (r *Recorder) Kinds() []string {
	actions := r.Actions()
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.Kind
	}
	return out
}

// Reset forgets all recorded calls
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.actions = nil
	r.mu.Unlock()
}

func (r *Recorder) ScreenSize() (int, int) { return r.W, r.H }

func (r *Recorder) MoveAbsolute(x, y int)  { r.add(Action{Kind: "move_abs", X: x, Y: y}) }
func (r *Recorder) MoveRelative(dx, dy int) { r.add(Action{Kind: "move_rel", X: dx, Y: dy}) }
func (r *Recorder) MouseDown(b input.Button) {
	r.add(Action{Kind: "down", Key: string(b)})
}
func (r *Recorder) MouseUp(b input.Button) {
	r.add(Action{Kind: "up", Key: string(b)})
}
func (r *Recorder) Click()            { r.add(Action{Kind: "click"}) }
func (r *Recorder) RightClick()       { r.add(Action{Kind: "right_click"}) }
func (r *Recorder) ScrollLines(n int) { r.add(Action{Kind: "scroll", N: n}) }
func (r *Recorder) Hotkey(modifier, key string) {
	r.add(Action{Kind: "hotkey", Text: modifier, Key: key})
}
func (r *Recorder) ClipboardWrite(text string) { r.add(Action{Kind: "clipboard", Text: text}) }
func (r *Recorder) Notify(title, body string) {
	r.add(Action{Kind: "notify", Text: title + ": " + body})
}
