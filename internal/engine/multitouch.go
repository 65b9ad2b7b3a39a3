package engine

import (
	log "github.com/sirupsen/logrus"

	"reachz/internal/gesture"
	"reachz/internal/router"
)

// Zoom shortcut keys pressed with the engine modifier
const (
	zoomInKey  = "="
	zoomOutKey = "-"
)

type multitouchComponent struct {
	e *Engine
}

func (c *multitouchComponent) Addresses() []string {
	return []string{"/multixy", "/multixy/tap"}
}

func (c *multitouchComponent) Register(r *router.Router) {
	r.Register("/multixy", c.handleMultiXY)
	r.Register("/multixy/tap", c.handleTwoFingerTap)
}

func (c *multitouchComponent) handleMultiXY(args router.Args) {
	res := c.e.gesture.Update(args.Floats())
	if res.ScrollLines != 0 {
		c.e.sink.ScrollLines(res.ScrollLines)
	}
	switch res.Pinch {
	case gesture.PinchOut:
		c.e.sink.Hotkey(c.e.options().Modifier, zoomInKey)
	case gesture.PinchIn:
		c.e.sink.Hotkey(c.e.options().Modifier, zoomOutKey)
	}
}

func (c *multitouchComponent) handleTwoFingerTap(args router.Args) {
	if args.Is(0, 1) {
		c.e.sink.RightClick()
		log.Debug("Gesture: right-click (two-finger tap)")
	}
}
