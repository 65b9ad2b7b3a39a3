package engine

import (
	"math"

	"reachz/internal/input"
	"reachz/internal/router"
)

// scrollDeadzone is the minimum |value| for /scroll to act
const scrollDeadzone = 0.5

type scrollComponent struct {
	sink input.HostInputSink
}

func (c *scrollComponent) Addresses() []string {
	return []string{"/scroll", "/scroll-wheel", "/scroll-pos"}
}

func (c *scrollComponent) Register(r *router.Router) {
	r.Register("/scroll", c.handleScroll)
	r.Register("/scroll-wheel", c.handleWheel)
	// reserved for a position indicator on the surface
	r.Register("/scroll-pos", func(router.Args) {})
}

func (c *scrollComponent) handleScroll(args router.Args) {
	v, ok := args.Float(0)
	if !ok || math.Abs(v) <= scrollDeadzone {
		return
	}
	c.sink.ScrollLines(int(v))
}

func (c *scrollComponent) handleWheel(args router.Args) {
	n, ok := args.Int(0)
	if !ok {
		return
	}
	c.sink.ScrollLines(n)
}
