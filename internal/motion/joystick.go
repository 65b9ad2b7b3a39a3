package motion

import (
	"context"
	"math"
	"sync"
	"time"

	"reachz/internal/input"
)

// Stick identifies one of the two analog channels
type Stick int

const (
	// Left is the coarse, high gain stick
	Left Stick = iota
	// Right is the fine, low gain stick
	Right
)

func (s Stick) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// Vector is a stick deflection, each component nominally in [-1, 1]
type Vector struct {
	X, Y float64
}

// IsZero reports whether both components are exactly zero
func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// ApplyDeadzone applies a radial deadzone and rescales the rest of the range
// so the deadzone edge maps to 0 and full deflection maps to 1.
func ApplyDeadzone(v Vector, deadzone float64) Vector {
	mag := math.Hypot(v.X, v.Y)
	if mag < deadzone || mag == 0 || deadzone >= 1 {
		return Vector{}
	}
	scale := (mag - deadzone) / (1.0 - deadzone) / mag
	return Vector{X: v.X * scale, Y: v.Y * scale}
}

// Velocity applies a sign-preserving power curve and gain to each axis
func Velocity(n Vector, gain, exponent float64) Vector {
	return Vector{
		X: math.Copysign(math.Pow(math.Abs(n.X), exponent), n.X) * gain,
		Y: math.Copysign(math.Pow(math.Abs(n.Y), exponent), n.Y) * gain,
	}
}

// IntegratorOptions configures the tick loop
type IntegratorOptions struct {
	// RateHz is the tick frequency, DefaultRateHz when zero.
	RateHz int
	// StopWhenIdle ends the loop once both sticks read zero. The loop restarts
	// on the next non-zero stick input. When false the loop runs until Stop.
	StopWhenIdle bool
}

// Integrator converts the two stick vectors into whole-pixel relative moves on
// a fixed schedule, carrying the fractional remainder between ticks.
type Integrator struct {
	settings *Settings
	sink     input.HostInputSink
	interval time.Duration
	idleStop bool
	parent   context.Context

	mu      sync.Mutex
	sticks  [2]Vector
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	stepMu         sync.Mutex
	accumX, accumY float64
}

// NewIntegrator creates an idle integrator. ctx bounds the lifetime of the tick loop.
func NewIntegrator(ctx context.Context, settings *Settings, sink input.HostInputSink, opts IntegratorOptions) *Integrator {
	rate := opts.RateHz
	if rate <= 0 {
		rate = DefaultRateHz
	}
	return &Integrator{
		settings: settings,
		sink:     sink,
		interval: time.Second / time.Duration(rate),
		idleStop: opts.StopWhenIdle,
		parent:   ctx,
	}
}

// SetStick stores the latest vector for stick and starts the tick loop on the
// first non-zero input.
func (in *Integrator) SetStick(stick Stick, x, y float64) {
	v := Vector{X: x, Y: y}

	in.mu.Lock()
	defer in.mu.Unlock()
	in.sticks[stick&1] = v
	if !in.running && !v.IsZero() {
		in.startLocked()
	}
}

// Stick returns the latest vector written for stick
func (in *Integrator) Stick(stick Stick) Vector {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.sticks[stick&1]
}

// Running reports whether the tick loop is active
func (in *Integrator) Running() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.running
}

func (in *Integrator) startLocked() {
	if in.parent.Err() != nil {
		return
	}
	ctx, cancel := context.WithCancel(in.parent)
	done := make(chan struct{})
	in.cancel = cancel
	in.done = done
	in.running = true

	in.stepMu.Lock()
	in.accumX, in.accumY = 0, 0
	in.stepMu.Unlock()

	go in.loop(ctx, done)
}

func (in *Integrator) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(in.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			in.mu.Lock()
			if in.done == done {
				in.running = false
			}
			in.mu.Unlock()
			return
		case <-ticker.C:
			in.Step()
			if in.idleStop && in.stopIfIdle(done) {
				return
			}
		}
	}
}

func (in *Integrator) stopIfIdle(done chan struct{}) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	if !in.sticks[Left].IsZero() || !in.sticks[Right].IsZero() {
		return false
	}
	if in.done == done {
		in.running = false
		in.cancel()
	}
	return true
}

// Stop ends the tick loop and waits for it to exit
func (in *Integrator) Stop() {
	in.mu.Lock()
	cancel, done := in.cancel, in.done
	in.running = false
	in.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Step runs one integration tick and returns the relative move it emitted.
// The y component is flipped so positive stick Y moves the pointer up.
func (in *Integrator) Step() (dx, dy int) {
	snap := in.settings.Snapshot()

	in.mu.Lock()
	left, right := in.sticks[Left], in.sticks[Right]
	in.mu.Unlock()

	coarse := Velocity(ApplyDeadzone(left, snap.Deadzone), snap.LeftGain, snap.Exponent)
	fine := Velocity(ApplyDeadzone(right, snap.Deadzone), snap.RightGain, snap.Exponent)

	in.stepMu.Lock()
	in.accumX += coarse.X + fine.X
	in.accumY += coarse.Y + fine.Y

	moveX := math.Trunc(in.accumX)
	moveY := math.Trunc(in.accumY)
	if moveX != 0 || moveY != 0 {
		in.accumX -= moveX
		in.accumY -= moveY
	}
	in.stepMu.Unlock()

	if moveX == 0 && moveY == 0 {
		return 0, 0
	}
	dx, dy = int(moveX), -int(moveY)
	in.sink.MoveRelative(dx, dy)
	return dx, dy
}

// Residual returns the fractional pixels carried into the next tick
func (in *Integrator) Residual() (x, y float64) {
	in.stepMu.Lock()
	defer in.stepMu.Unlock()
	return in.accumX, in.accumY
}
