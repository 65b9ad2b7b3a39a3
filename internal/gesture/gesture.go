// Package gesture classifies two-finger touch motion as scroll or pinch.
package gesture

import (
	"math"
	"sync"
)

// Default thresholds, in normalized touch units
const (
	DefaultScrollThreshold = 0.01
	DefaultScrollScale     = 20.0
	DefaultPinchThreshold  = 0.02
)

// Point is a normalized touch coordinate
type Point struct {
	X, Y float64
}

// Pinch is the direction of a pinch gesture
type Pinch int

const (
	PinchNone Pinch = iota
	PinchOut        // fingers moving apart, zoom in
	PinchIn         // fingers moving together, zoom out
)

// Result describes what one frame triggered. Scroll and pinch are independent
// and may both fire in the same frame.
type Result struct {
	ScrollLines int
	Pinch       Pinch
	Reset       bool
}

// Config holds the disambiguation thresholds
type Config struct {
	ScrollThreshold float64
	ScrollScale     float64
	PinchThreshold  float64
}

// DefaultConfig returns the standard thresholds
func DefaultConfig() Config {
	return Config{
		ScrollThreshold: DefaultScrollThreshold,
		ScrollScale:     DefaultScrollScale,
		PinchThreshold:  DefaultPinchThreshold,
	}
}

// Disambiguator tracks the previous two-finger frame
type Disambiguator struct {
	mu  sync.Mutex
	cfg Config

	lastDistance *float64
	lastCenterY  *float64
}

// New creates a disambiguator with cfg
func New(cfg Config) *Disambiguator {
	return &Disambiguator{cfg: cfg}
}

// SetConfig replaces the thresholds
func (d *Disambiguator) SetConfig(cfg Config) {
	d.mu.Lock()
	d.cfg = cfg
	d.mu.Unlock()
}

// Reset forgets the previous frame
func (d *Disambiguator) Reset() {
	d.mu.Lock()
	d.lastDistance, d.lastCenterY = nil, nil
	d.mu.Unlock()
}

// HasSession reports whether a previous two-finger frame is remembered
func (d *Disambiguator) HasSession() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastDistance != nil || d.lastCenterY != nil
}

// Update consumes one frame of flattened coordinates x1, y1, x2, y2, ...
// Fewer than two points reset the session. Only the first two points are used.
func (d *Disambiguator) Update(coords []float64) Result {
	if len(coords) < 4 {
		d.Reset()
		return Result{Reset: true}
	}
	return d.Frame(Point{coords[0], coords[1]}, Point{coords[2], coords[3]})
}

// Frame classifies one two-finger frame against the previous one
func (d *Disambiguator) Frame(p1, p2 Point) Result {
	y1 := 1.0 - p1.Y
	y2 := 1.0 - p2.Y

	distance := math.Hypot(p2.X-p1.X, y2-y1)
	centerY := (y1 + y2) / 2

	d.mu.Lock()
	defer d.mu.Unlock()

	var res Result
	if d.lastCenterY != nil {
		delta := centerY - *d.lastCenterY
		if math.Abs(delta) > d.cfg.ScrollThreshold {
			res.ScrollLines = int(math.Round(delta * d.cfg.ScrollScale))
		}
	}
	if d.lastDistance != nil {
		pinchDelta := distance - *d.lastDistance
		if math.Abs(pinchDelta) > d.cfg.PinchThreshold {
			if pinchDelta > 0 {
				res.Pinch = PinchOut
			} else {
				res.Pinch = PinchIn
			}
		}
	}

	d.lastCenterY = &centerY
	d.lastDistance = &distance
	return res
}
