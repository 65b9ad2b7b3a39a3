package engine

import (
	log "github.com/sirupsen/logrus"

	"reachz/internal/carry"
	"reachz/internal/router"
)

const (
	notifyPreviewLen = 40
	logPreviewLen    = 30
)

// carryComponent loads text onto the cursor and drops it where the cursor is
type carryComponent struct {
	e *Engine
}

func (c *carryComponent) Addresses() []string {
	return []string{"/carry", "/drop", "/drop-keep", "/carry-status", "/carry-cancel"}
}

func (c *carryComponent) Register(r *router.Router) {
	r.Register("/carry", c.handleCarry)
	r.Register("/drop", c.handleDrop)
	r.Register("/drop-keep", c.handleDropKeep)
	r.Register("/carry-status", c.handleStatus)
	r.Register("/carry-cancel", func(router.Args) { c.e.CancelCarry() })
}

func (c *carryComponent) handleCarry(args router.Args) {
	text, ok := args.String(0)
	if !ok {
		return
	}
	c.e.carry.Load(text)
	log.Infof("Carry: carrying '%s'", carry.Preview(text, notifyPreviewLen))
	if c.e.options().Notifications {
		c.e.sink.Notify("Reachz: Carrying", carry.Preview(text, notifyPreviewLen))
	}
	c.e.carryChanged()
}

func (c *carryComponent) handleDrop(router.Args) {
	if text, ok := c.e.carry.Drop(); ok {
		log.Infof("Carry: dropped '%s'", carry.Preview(text, logPreviewLen))
		c.e.carryChanged()
	}
}

func (c *carryComponent) handleDropKeep(router.Args) {
	if text, ok := c.e.carry.DropKeep(); ok {
		log.Infof("Carry: dropped (kept) '%s'", carry.Preview(text, logPreviewLen))
	}
}

func (c *carryComponent) handleStatus(router.Args) {
	st := c.e.carry.Status()
	if st.Holding {
		log.Infof("Carry: currently carrying '%s'", carry.Preview(st.Text, logPreviewLen))
	} else {
		log.Info("Carry: not carrying anything")
	}
}
