package motion

import "reachz/internal/input"

// CursorMapper converts absolute normalized touch positions to screen pixels
type CursorMapper struct {
	width, height int
	settings      *Settings
	sink          input.HostInputSink
}

// NewCursorMapper creates a mapper for a width×height screen
func NewCursorMapper(width, height int, settings *Settings, sink input.HostInputSink) *CursorMapper {
	return &CursorMapper{
		width:    width,
		height:   height,
		settings: settings,
		sink:     sink,
	}
}

// Map returns the screen pixel for touch position (x, y) in [0,1]².
// y is inverted, each axis is shaped by curve around the center, scaled by
// speed and clamped to the screen.
func Map(x, y float64, curve CurveType, speed float64, width, height int) (int, int) {
	y = 1.0 - y

	xc := curve.Apply(x-0.5) + 0.5
	yc := curve.Apply(y-0.5) + 0.5

	w, h := float64(width), float64(height)
	px := int(w/2 + (xc-0.5)*w*speed)
	py := int(h/2 + (yc-0.5)*h*speed)

	return clampInt(px, 0, width-1), clampInt(py, 0, height-1)
}

// Move maps (x, y) with the current speed and curve and moves the pointer there
func (m *CursorMapper) Move(x, y float64) (int, int) {
	snap := m.settings.Snapshot()
	px, py := Map(x, y, snap.Curve, snap.Speed, m.width, m.height)
	m.sink.MoveAbsolute(px, py)
	return px, py
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
