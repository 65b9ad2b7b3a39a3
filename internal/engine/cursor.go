package engine

import (
	log "github.com/sirupsen/logrus"

	"reachz/internal/motion"
	"reachz/internal/router"
)

// cursorComponent covers absolute trackpad positioning and the two joysticks
type cursorComponent struct {
	e *Engine
}

func (c *cursorComponent) Addresses() []string {
	return []string{
		"/trackpad", "/speed", "/curve",
		"/joy-left", "/joy-right", "/joy-left-gain", "/joy-right-gain",
	}
}

func (c *cursorComponent) Register(r *router.Router) {
	r.Register("/trackpad", c.handleTrackpad)
	r.Register("/speed", c.handleSpeed)
	r.Register("/curve", c.handleCurve)
	r.Register("/joy-left", func(args router.Args) { c.handleStick(motion.Left, args) })
	r.Register("/joy-right", func(args router.Args) { c.handleStick(motion.Right, args) })
	r.Register("/joy-left-gain", func(args router.Args) { c.handleGain(motion.Left, args) })
	r.Register("/joy-right-gain", func(args router.Args) { c.handleGain(motion.Right, args) })
}

func (c *cursorComponent) handleTrackpad(args router.Args) {
	x, okX := args.Float(0)
	y, okY := args.Float(1)
	if !okX || !okY {
		return
	}
	c.e.cursor.Move(x, y)
}

func (c *cursorComponent) handleSpeed(args router.Args) {
	v, ok := args.Float(0)
	if !ok {
		return
	}
	c.e.settings.SetSpeed(v)
}

func (c *cursorComponent) handleCurve(args router.Args) {
	name, ok := args.String(0)
	if !ok {
		return
	}
	curve := motion.ParseCurve(name)
	c.e.settings.SetCurve(curve)
	log.Infof("Curve: %s", curve)
}

func (c *cursorComponent) handleStick(stick motion.Stick, args router.Args) {
	x, okX := args.Float(0)
	y, okY := args.Float(1)
	if !okX || !okY {
		return
	}
	wasRunning := c.e.joystick.Running()
	c.e.joystick.SetStick(stick, x, y)
	if !wasRunning && c.e.joystick.Running() {
		log.Info("Joystick: mode activated")
	}
}

func (c *cursorComponent) handleGain(stick motion.Stick, args router.Args) {
	v, ok := args.Float(0)
	if !ok {
		return
	}
	if stick == motion.Right {
		c.e.settings.SetRightGain(v)
	} else {
		c.e.settings.SetLeftGain(v)
	}
	log.Infof("Joystick: %s gain %g", stick, v)
}
