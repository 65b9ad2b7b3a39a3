package router

import (
	"fmt"
	"strconv"
	"strings"
)

// Args is the ordered argument list of a message. Elements are ints, floats,
// strings or bools as produced by the transport decoder.
type Args []any

// Len returns the number of arguments
func (a Args) Len() int {
	return len(a)
}

// Float returns argument i as a float64.
// Numeric strings are accepted; anything else reports ok=false.
func (a Args) Float(i int) (float64, bool) {
	if i < 0 || i >= len(a) {
		return 0, false
	}
	switch v := a[i].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Int returns argument i truncated toward zero.
func (a Args) Int(i int) (int, bool) {
	f, ok := a.Float(i)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Is reports whether argument i is numerically equal to want.
// A float 1.0 matches 1; a string never matches.
func (a Args) Is(i int, want float64) bool {
	if i < 0 || i >= len(a) {
		return false
	}
	if _, isString := a[i].(string); isString {
		return false
	}
	f, ok := a.Float(i)
	return ok && f == want
}

// String returns argument i formatted as text.
func (a Args) String(i int) (string, bool) {
	if i < 0 || i >= len(a) {
		return "", false
	}
	switch v := a[i].(type) {
	case string:
		return v, true
	case nil:
		return "None", true
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	}
	return fmt.Sprint(a[i]), true
}

// Floats returns every argument as a float64, stopping at the first non-numeric one.
func (a Args) Floats() []float64 {
	out := make([]float64, 0, len(a))
	for i := range a {
		f, ok := a.Float(i)
		if !ok {
			break
		}
		out = append(out, f)
	}
	return out
}
