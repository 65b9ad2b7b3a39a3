// Package router maps OSC-style addresses to the handlers that own them.
package router

import (
	"sort"
	"sync"
)

// Message is one decoded control message: an address path and its ordered arguments.
type Message struct {
	Address string
	Args    Args
}

// Handler processes the arguments of one message.
type Handler func(args Args)

// Component owns a group of addresses and knows how to bind them.
type Component interface {
	// Addresses returns every address the component answers to.
	Addresses() []string

	// Register binds the component's handlers on r.
	Register(r *Router)
}

// Router dispatches messages by exact address match.
type Router struct {
	mu         sync.RWMutex
	handlers   map[string]Handler
	dispatchMu sync.Mutex
}

// New creates an empty router
func New() *Router {
	return &Router{
		handlers: make(map[string]Handler),
	}
}

// Register binds address to h. A later registration for the same address replaces the earlier one.
func (r *Router) Register(address string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[address] = h
}

// Install registers each component in the given order.
func (r *Router) Install(components ...Component) {
	for _, c := range components {
		c.Register(r)
	}
}

// Lookup returns the handler bound to address, if any.
func (r *Router) Lookup(address string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[address]
	return h, ok && h != nil
}

// Dispatch invokes the handler for msg.Address synchronously.
// Unknown addresses are ignored. Calls are serialised so no two messages
// are ever handled at the same time, whichever transport delivered them.
func (r *Router) Dispatch(msg Message) bool {
	h, ok := r.Lookup(msg.Address)
	if !ok {
		return false
	}

	r.dispatchMu.Lock()
	defer r.dispatchMu.Unlock()
	h(msg.Args)
	return true
}

// Addresses returns the registered addresses in sorted order.
func (r *Router) Addresses() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.handlers))
	for addr := range r.handlers {
		out = append(out, addr)
	}
	sort.Strings(out)
	return out
}
