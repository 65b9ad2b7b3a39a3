// Package engine wires the translation components to a router and a host sink.
package engine

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"reachz/internal/carry"
	"reachz/internal/gesture"
	"reachz/internal/input"
	"reachz/internal/motion"
	"reachz/internal/router"
)

// Options configures an Engine
type Options struct {
	ScreenWidth  int
	ScreenHeight int

	// Modifier is held for paste and zoom shortcuts ("cmd" or "ctrl").
	Modifier string

	Gesture    gesture.Config
	Integrator motion.IntegratorOptions

	// Notifications enables the host notification on carry load.
	Notifications bool

	// OnCarryChange is called after every carry transition.
	OnCarryChange func(carry.State)
}

// DefaultOptions returns options for a w×h screen with the platform modifier
func DefaultOptions(w, h int) Options {
	return Options{
		ScreenWidth:   w,
		ScreenHeight:  h,
		Modifier:      input.DefaultModifier(),
		Gesture:       gesture.DefaultConfig(),
		Notifications: true,
	}
}

// Engine owns all translation state. There are no package-level globals:
// every component reaches its state through the engine.
type Engine struct {
	router   *router.Router
	sink     input.HostInputSink
	settings *motion.Settings
	cursor   *motion.CursorMapper
	joystick *motion.Integrator
	gesture  *gesture.Disambiguator
	carry    *carry.Machine

	mu     sync.RWMutex
	opts   Options
	cancel context.CancelFunc
}

// New builds an engine acting on sink and registers every component.
// The joystick loop is bound to ctx and to Close.
func New(ctx context.Context, sink input.HostInputSink, opts Options) *Engine {
	if opts.Modifier == "" {
		opts.Modifier = input.DefaultModifier()
	}
	if opts.Gesture == (gesture.Config{}) {
		opts.Gesture = gesture.DefaultConfig()
	}

	ctx, cancel := context.WithCancel(ctx)
	settings := motion.NewSettings()

	e := &Engine{
		router:   router.New(),
		sink:     sink,
		settings: settings,
		cursor:   motion.NewCursorMapper(opts.ScreenWidth, opts.ScreenHeight, settings, sink),
		joystick: motion.NewIntegrator(ctx, settings, sink, opts.Integrator),
		gesture:  gesture.New(opts.Gesture),
		carry:    carry.New(sink, opts.Modifier),
		opts:     opts,
		cancel:   cancel,
	}
	e.router.Install(e.Components()...)
	return e
}

// Components returns the static registration table in registration order
func (e *Engine) Components() []router.Component {
	return []router.Component{
		&clickComponent{sink: e.sink},
		&cursorComponent{e: e},
		&scrollComponent{sink: e.sink},
		&multitouchComponent{e: e},
		&carryComponent{e: e},
	}
}

// Dispatch routes one decoded message
func (e *Engine) Dispatch(msg router.Message) bool {
	log.WithFields(log.Fields{"address": msg.Address, "args": []any(msg.Args)}).Debug("Engine: dispatch")
	return e.router.Dispatch(msg)
}

// Addresses lists the registered addresses
func (e *Engine) Addresses() []string {
	return e.router.Addresses()
}

// Settings exposes the runtime tuning values
func (e *Engine) Settings() *motion.Settings {
	return e.settings
}

// CancelCarry discards a pending payload. Safe to call from any goroutine,
// e.g. a global Escape key hook.
func (e *Engine) CancelCarry() bool {
	text, ok := e.carry.Cancel()
	if ok {
		log.Infof("Carry: cancelled (was: '%s')", carry.Preview(text, 30))
		e.carryChanged()
	}
	return ok
}

// Close stops the joystick loop
func (e *Engine) Close() {
	e.cancel()
	e.joystick.Stop()
}

// SetCarryHook replaces the carry transition callback
func (e *Engine) SetCarryHook(fn func(carry.State)) {
	e.mu.Lock()
	e.opts.OnCarryChange = fn
	e.mu.Unlock()
}

func (e *Engine) options() Options {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.opts
}

func (e *Engine) carryChanged() {
	if fn := e.options().OnCarryChange; fn != nil {
		fn(e.carry.Status())
	}
}
