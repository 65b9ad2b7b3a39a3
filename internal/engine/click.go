package engine

import (
	"reachz/internal/input"
	"reachz/internal/router"
)

// clickComponent handles taps and held buttons. Holds are edge-triggered:
// a repeated press while held, or a release while up, is ignored.
type clickComponent struct {
	sink      input.HostInputSink
	leftHeld  bool
	rightHeld bool
}

func (c *clickComponent) Addresses() []string {
	return []string{"/tap", "/left", "/right"}
}

func (c *clickComponent) Register(r *router.Router) {
	r.Register("/tap", c.handleTap)
	r.Register("/left", func(args router.Args) { c.hold(args, input.ButtonLeft, &c.leftHeld) })
	r.Register("/right", func(args router.Args) { c.hold(args, input.ButtonRight, &c.rightHeld) })
}

func (c *clickComponent) handleTap(args router.Args) {
	if args.Is(0, 1) {
		c.sink.Click()
	}
}

func (c *clickComponent) hold(args router.Args, button input.Button, held *bool) {
	switch {
	case args.Is(0, 1) && !*held:
		c.sink.MouseDown(button)
		*held = true
	case args.Is(0, 0) && *held:
		c.sink.MouseUp(button)
		*held = false
	}
}
