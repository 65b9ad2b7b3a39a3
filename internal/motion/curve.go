// Package motion turns normalized touch and stick input into pointer motion.
package motion

import (
	"math"
	"strings"
)

// CurveType selects the response shaping applied to trackpad positions
type CurveType int

const (
	Linear CurveType = iota
	Quadratic
	Smooth
)

const halfRange = 0.5

func (c CurveType) String() string {
	switch c {
	case Quadratic:
		return "quadratic"
	case Smooth:
		return "smooth"
	}
	return "linear"
}

// ParseCurve maps a curve name to its CurveType. Names are matched
// case-insensitively after trimming spaces, so "Smooth" selects Smooth.
// Unknown names yield Linear.
func ParseCurve(name string) CurveType {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "quadratic":
		return Quadratic
	case "smooth":
		return Smooth
	}
	return Linear
}

// Apply shapes a centered value in [-0.5, 0.5].
// All curves keep 0 and ±0.5 fixed. Quadratic is 0.5*(2|v|)^1.5, the |v|^1.5
// power response scaled onto the half-range so the edges stay reachable.
// An unscaled |v|^1.5 would pull the edges inward (0.5 maps to about 0.354).
func (c CurveType) Apply(v float64) float64 {
	switch c {
	case Quadratic:
		return math.Copysign(halfRange*math.Pow(math.Abs(v)/halfRange, 1.5), v)
	case Smooth:
		t := clamp(v+0.5, 0, 1)
		t = t * t * (3 - 2*t)
		return t - 0.5
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
