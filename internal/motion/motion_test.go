package motion

import (
	"context"
	"math"
	"testing"
	"time"

	"reachz/internal/input/inputtest"
)

const eps = 1e-9

func TestParseCurve(t *testing.T) {
	tests := []struct {
		in   string
		want CurveType
	}{
		{"linear", Linear},
		{"quadratic", Quadratic},
		{"Smooth", Smooth},
		{" smooth ", Smooth},
		{"cubic", Linear},
		{"", Linear},
	}
	for _, tt := range tests {
		if got := ParseCurve(tt.in); got != tt.want {
			t.Errorf("ParseCurve(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCurveFixedPoints(t *testing.T) {
	for _, c := range []CurveType{Linear, Quadratic, Smooth} {
		for _, v := range []float64{0, 0.5, -0.5} {
			if got := c.Apply(v); math.Abs(got-v) > eps {
				t.Errorf("%v.Apply(%v) = %v, want %v", c, v, got, v)
			}
		}
	}
}

func TestCurveShape(t *testing.T) {
	if got := Linear.Apply(0.2); got != 0.2 {
		t.Errorf("Expected linear identity, got %v", got)
	}

	// Quadratic is slower than linear inside the range and keeps sign.
	q := Quadratic.Apply(0.25)
	if q <= 0 || q >= 0.25 {
		t.Errorf("Expected 0 < quadratic(0.25) < 0.25, got %v", q)
	}
	if want := 0.5 * math.Pow(0.5, 1.5); math.Abs(q-want) > eps {
		t.Errorf("Expected quadratic(0.25) = 0.5*(2*0.25)^1.5 = %v, got %v", want, q)
	}
	if Quadratic.Apply(-0.25) != -q {
		t.Errorf("Expected quadratic to be odd, got %v", Quadratic.Apply(-0.25))
	}

	// Smoothstep of t=0.75 is 0.84375.
	if got := Smooth.Apply(0.25); math.Abs(got-0.34375) > eps {
		t.Errorf("Expected smooth(0.25) = 0.34375, got %v", got)
	}
	// Inputs past the range are clamped.
	if got := Smooth.Apply(0.9); math.Abs(got-0.5) > eps {
		t.Errorf("Expected smooth to clamp at 0.5, got %v", got)
	}
}

func TestMapTopLeftCorner(t *testing.T) {
	x, y := Map(0, 0, Linear, 1.0, 1000, 1000)
	if x != 0 || y != 999 {
		t.Errorf("Expected (0, 999), got (%d, %d)", x, y)
	}
}

func TestMapCases(t *testing.T) {
	tests := []struct {
		name   string
		x, y   float64
		curve  CurveType
		speed  float64
		wx, wy int
	}{
		{"center", 0.5, 0.5, Linear, 1, 960, 540},
		{"bottom right", 1, 1, Linear, 1, 1919, 0},
		{"half speed", 0, 0.5, Linear, 0.5, 480, 540},
		{"double speed clamps", 0.9, 0.5, Linear, 2, 1919, 540},
		{"smooth center", 0.5, 0.5, Smooth, 1, 960, 540},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := Map(tt.x, tt.y, tt.curve, tt.speed, 1920, 1080)
			if x != tt.wx || y != tt.wy {
				t.Errorf("Expected (%d, %d), got (%d, %d)", tt.wx, tt.wy, x, y)
			}
		})
	}
}

func TestCursorMapperUsesLatestSettings(t *testing.T) {
	rec := inputtest.New(1000, 1000)
	settings := NewSettings()
	m := NewCursorMapper(1000, 1000, settings, rec)

	m.Move(0.25, 0.5)
	settings.SetSpeed(2)
	m.Move(0.25, 0.5)

	actions := rec.Actions()
	if len(actions) != 2 {
		t.Fatalf("Expected 2 moves, got %d", len(actions))
	}
	if actions[0].X != 250 || actions[1].X != 0 {
		t.Errorf("Expected x=250 then x=0, got %d then %d", actions[0].X, actions[1].X)
	}
}

func TestDeadzoneZeroesSmallInput(t *testing.T) {
	for _, v := range []Vector{{0, 0}, {0.05, 0.05}, {-0.09, 0}, {0, 0.0999}} {
		if got := ApplyDeadzone(v, 0.1); !got.IsZero() {
			t.Errorf("ApplyDeadzone(%v) = %v, want zero", v, got)
		}
	}
}

func TestDeadzoneContinuousAndMonotonic(t *testing.T) {
	const dz = 0.1
	edge := ApplyDeadzone(Vector{X: dz + 1e-9}, dz)
	if math.Hypot(edge.X, edge.Y) > 1e-6 {
		t.Errorf("Expected near-zero output just past the deadzone, got %v", edge)
	}

	prev := 0.0
	for m := dz; m <= 1.0; m += 0.01 {
		out := ApplyDeadzone(Vector{X: m * 0.6, Y: m * 0.8}, dz)
		mag := math.Hypot(out.X, out.Y)
		if mag+eps < prev {
			t.Fatalf("Expected monotonic magnitude, dropped from %v to %v at %v", prev, mag, m)
		}
		prev = mag
	}

	full := ApplyDeadzone(Vector{X: 1}, dz)
	if math.Abs(full.X-1) > eps || full.Y != 0 {
		t.Errorf("Expected full deflection to map to 1, got %v", full)
	}
}

func TestVelocityPreservesSign(t *testing.T) {
	v := Velocity(Vector{X: -0.5, Y: 0.5}, 10, 2)
	if math.Abs(v.X+2.5) > eps || math.Abs(v.Y-2.5) > eps {
		t.Errorf("Expected (-2.5, 2.5), got %v", v)
	}
}

func newTestIntegrator(t *testing.T) (*Integrator, *inputtest.Recorder, *Settings) {
	t.Helper()
	rec := inputtest.New(1000, 1000)
	settings := NewSettings()
	in := NewIntegrator(context.Background(), settings, rec, IntegratorOptions{})
	return in, rec, settings
}

func TestStepFullLeftDeflection(t *testing.T) {
	in, rec, _ := newTestIntegrator(t)
	in.mu.Lock()
	in.sticks[Left] = Vector{X: 1}
	in.mu.Unlock()

	dx, dy := in.Step()
	if dx != 25 || dy != 0 {
		t.Errorf("Expected move (25, 0), got (%d, %d)", dx, dy)
	}
	rx, ry := in.Residual()
	if rx != 0 || ry != 0 {
		t.Errorf("Expected zero residual, got (%v, %v)", rx, ry)
	}
	if a := rec.Actions(); len(a) != 1 || a[0].X != 25 {
		t.Errorf("Expected one relative move of 25, got %v", a)
	}
}

func TestStepFlipsY(t *testing.T) {
	in, _, _ := newTestIntegrator(t)
	in.mu.Lock()
	in.sticks[Left] = Vector{Y: 1}
	in.mu.Unlock()

	if _, dy := in.Step(); dy != -25 {
		t.Errorf("Expected positive stick Y to move up (-25), got %d", dy)
	}
}

func TestAccumulatorConservation(t *testing.T) {
	in, rec, settings := newTestIntegrator(t)
	in.mu.Lock()
	in.sticks[Left] = Vector{X: 0.3, Y: -0.2}
	in.sticks[Right] = Vector{X: -0.5, Y: 0.45}
	in.mu.Unlock()

	snap := settings.Snapshot()
	coarse := Velocity(ApplyDeadzone(Vector{X: 0.3, Y: -0.2}, snap.Deadzone), snap.LeftGain, snap.Exponent)
	fine := Velocity(ApplyDeadzone(Vector{X: -0.5, Y: 0.45}, snap.Deadzone), snap.RightGain, snap.Exponent)
	perX, perY := coarse.X+fine.X, coarse.Y+fine.Y

	const ticks = 240
	for i := 0; i < ticks; i++ {
		in.Step()
		rx, ry := in.Residual()
		if math.Abs(rx) >= 1 || math.Abs(ry) >= 1 {
			t.Fatalf("Expected residual below 1 after tick %d, got (%v, %v)", i, rx, ry)
		}
	}

	sumX, sumY := 0, 0
	for _, a := range rec.Actions() {
		sumX += a.X
		sumY -= a.Y // undo the screen flip
	}
	rx, ry := in.Residual()
	if math.Abs(float64(sumX)+rx-perX*ticks) > 1e-6 {
		t.Errorf("X not conserved: moved %d + residual %v != %v", sumX, rx, perX*ticks)
	}
	if math.Abs(float64(sumY)+ry-perY*ticks) > 1e-6 {
		t.Errorf("Y not conserved: moved %d + residual %v != %v", sumY, ry, perY*ticks)
	}
}

func TestGainTakesEffectNextTick(t *testing.T) {
	in, _, settings := newTestIntegrator(t)
	in.mu.Lock()
	in.sticks[Right] = Vector{X: 1}
	in.mu.Unlock()

	if dx, _ := in.Step(); dx != 5 {
		t.Errorf("Expected default fine gain 5, got %d", dx)
	}
	settings.SetRightGain(7)
	if dx, _ := in.Step(); dx != 7 {
		t.Errorf("Expected updated fine gain 7, got %d", dx)
	}
}

func TestLazyStartAndStop(t *testing.T) {
	in, rec, _ := newTestIntegrator(t)

	in.SetStick(Left, 0, 0)
	if in.Running() {
		t.Fatal("Expected zero input not to start the loop")
	}

	in.SetStick(Left, 1, 0)
	if !in.Running() {
		t.Fatal("Expected non-zero input to start the loop")
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(rec.Actions()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if len(rec.Actions()) == 0 {
		t.Fatal("Expected the loop to emit moves")
	}

	// Returning to neutral does not stop the loop by default.
	in.SetStick(Left, 0, 0)
	time.Sleep(50 * time.Millisecond)
	if !in.Running() {
		t.Error("Expected the loop to keep running at neutral")
	}

	in.Stop()
	if in.Running() {
		t.Error("Expected Stop to end the loop")
	}
}

func TestStopWhenIdle(t *testing.T) {
	rec := inputtest.New(1000, 1000)
	in := NewIntegrator(context.Background(), NewSettings(), rec, IntegratorOptions{RateHz: 200, StopWhenIdle: true})
	defer in.Stop()

	in.SetStick(Right, 1, 0)
	in.SetStick(Right, 0, 0)

	deadline := time.Now().Add(2 * time.Second)
	for in.Running() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if in.Running() {
		t.Fatal("Expected the loop to stop once both sticks are neutral")
	}

	in.SetStick(Right, 0.5, 0)
	if !in.Running() {
		t.Error("Expected the loop to restart on new input")
	}
}

func TestParentContextCancelStopsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	in := NewIntegrator(ctx, NewSettings(), inputtest.New(10, 10), IntegratorOptions{})
	in.SetStick(Left, 1, 1)
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for in.Running() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if in.Running() {
		t.Fatal("Expected context cancellation to stop the loop")
	}

	in.SetStick(Left, 1, 0)
	if in.Running() {
		t.Error("Expected no restart after the parent context is done")
	}
}
