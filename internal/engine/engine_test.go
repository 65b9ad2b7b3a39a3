package engine

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"reachz/internal/carry"
	"reachz/internal/config"
	"reachz/internal/input/inputtest"
	"reachz/internal/motion"
	"reachz/internal/router"
)

func newTestEngine(t *testing.T) (*Engine, *inputtest.Recorder) {
	t.Helper()
	rec := inputtest.New(1000, 1000)
	opts := DefaultOptions(1000, 1000)
	opts.Modifier = "cmd"
	e := New(context.Background(), rec, opts)
	t.Cleanup(e.Close)
	return e, rec
}

func send(e *Engine, address string, args ...any) bool {
	return e.Dispatch(router.Message{Address: address, Args: router.Args(args)})
}

func TestAddressTable(t *testing.T) {
	e, _ := newTestEngine(t)
	want := []string{
		"/carry", "/carry-cancel", "/carry-status", "/curve", "/drop", "/drop-keep",
		"/joy-left", "/joy-left-gain", "/joy-right", "/joy-right-gain",
		"/left", "/multixy", "/multixy/tap", "/right",
		"/scroll", "/scroll-pos", "/scroll-wheel", "/speed", "/tap", "/trackpad",
	}
	if got := e.Addresses(); !reflect.DeepEqual(got, want) {
		t.Errorf("Unexpected address table:\n got %v\nwant %v", got, want)
	}
}

func TestUnknownAddressIgnored(t *testing.T) {
	e, rec := newTestEngine(t)
	if send(e, "/nope", 1.0) {
		t.Error("Expected unknown address to report unhandled")
	}
	if len(rec.Actions()) != 0 {
		t.Errorf("Expected no host actions, got %v", rec.Actions())
	}
}

func TestTap(t *testing.T) {
	e, rec := newTestEngine(t)
	send(e, "/tap", 1.0)
	send(e, "/tap", 0.0)
	send(e, "/tap", int64(1))
	send(e, "/tap")
	send(e, "/tap", "1")

	if got, want := rec.Kinds(), []string{"click", "click"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestHoldIsEdgeTriggered(t *testing.T) {
	e, rec := newTestEngine(t)
	send(e, "/left", 0.0) // release while up
	send(e, "/left", 1.0)
	send(e, "/left", 1.0) // repeated press
	send(e, "/left", 0.0)
	send(e, "/right", 1.0)
	send(e, "/right", 0.0)
	send(e, "/right", 0.0)

	var got []string
	for _, a := range rec.Actions() {
		got = append(got, a.String())
	}
	want := []string{"down(left)", "up(left)", "down(right)", "up(right)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestTrackpad(t *testing.T) {
	e, rec := newTestEngine(t)
	send(e, "/trackpad", 0.5, 0.5)
	send(e, "/trackpad", 0.0, 0.0)
	send(e, "/trackpad", 0.5) // missing y

	got := rec.Actions()
	if len(got) != 2 {
		t.Fatalf("Expected 2 moves, got %v", got)
	}
	if got[0].X != 500 || got[0].Y != 500 {
		t.Errorf("Expected center (500,500), got %v", got[0])
	}
	if got[1].X != 0 || got[1].Y != 999 {
		t.Errorf("Expected (0,999), got %v", got[1])
	}
}

func TestSpeedAndCurve(t *testing.T) {
	e, _ := newTestEngine(t)
	send(e, "/speed", 2.0)
	send(e, "/curve", "SMOOTH")

	snap := e.Settings().Snapshot()
	if snap.Speed != 2 || snap.Curve != motion.Smooth {
		t.Errorf("Expected speed 2 smooth, got %+v", snap)
	}

	send(e, "/curve", "unknown")
	if c := e.Settings().Snapshot().Curve; c != motion.Linear {
		t.Errorf("Expected unknown curve to fall back to linear, got %v", c)
	}
}

func TestScrollDeadzone(t *testing.T) {
	e, rec := newTestEngine(t)
	send(e, "/scroll", 0.5)
	send(e, "/scroll", -0.4)
	send(e, "/scroll", 2.7)
	send(e, "/scroll", -1.2)
	send(e, "/scroll-wheel", int64(-3))
	send(e, "/scroll-pos", 0.3)

	var got []int
	for _, a := range rec.Actions() {
		got = append(got, a.N)
	}
	if want := []int{2, -1, -3}; !reflect.DeepEqual(got, want) {
		t.Errorf("Expected scrolls %v, got %v", want, got)
	}
}

func TestMultiXYScrollAndPinch(t *testing.T) {
	e, rec := newTestEngine(t)

	// First frame only establishes the session.
	send(e, "/multixy", 0.4, 0.5, 0.6, 0.5)
	if len(rec.Actions()) != 0 {
		t.Fatalf("Expected no action on first frame, got %v", rec.Actions())
	}

	// Fingers move up by 0.1: center y rises by 0.1 after inversion.
	send(e, "/multixy", 0.4, 0.4, 0.6, 0.4)
	if got := rec.Actions(); len(got) != 1 || got[0].Kind != "scroll" || got[0].N != 2 {
		t.Fatalf("Expected scroll(2), got %v", got)
	}

	rec.Reset()
	// Spread fingers apart: pinch out zooms in.
	send(e, "/multixy", 0.3, 0.4, 0.7, 0.4)
	if got := rec.Actions(); len(got) != 1 || got[0].String() != "hotkey(cmd+=)" {
		t.Fatalf("Expected zoom in, got %v", got)
	}

	rec.Reset()
	send(e, "/multixy", 0.45, 0.4, 0.55, 0.4)
	if got := rec.Actions(); len(got) != 1 || got[0].String() != "hotkey(cmd+-)" {
		t.Fatalf("Expected zoom out, got %v", got)
	}
}

func TestMultiXYResetOnLift(t *testing.T) {
	e, rec := newTestEngine(t)
	send(e, "/multixy", 0.4, 0.5, 0.6, 0.5)
	send(e, "/multixy", 0.4) // one finger lifted
	send(e, "/multixy", 0.4, 0.1, 0.6, 0.1)

	if len(rec.Actions()) != 0 {
		t.Errorf("Expected the frame after a reset to be a new first frame, got %v", rec.Actions())
	}
}

func TestTwoFingerTap(t *testing.T) {
	e, rec := newTestEngine(t)
	send(e, "/multixy/tap", 1.0)
	send(e, "/multixy/tap", 0.0)
	if got := rec.Kinds(); !reflect.DeepEqual(got, []string{"right_click"}) {
		t.Errorf("Expected one right click, got %v", got)
	}
}

func TestCarryDropFlow(t *testing.T) {
	e, rec := newTestEngine(t)

	var states []carry.State
	e.SetCarryHook(func(st carry.State) { states = append(states, st) })

	send(e, "/carry", "hello world")
	send(e, "/drop-keep")
	send(e, "/drop")
	send(e, "/drop")

	var got []string
	for _, a := range rec.Actions() {
		got = append(got, a.String())
	}
	want := []string{
		`notify("Reachz: Carrying: hello world")`,
		`clipboard("hello world")`, "hotkey(cmd+v)",
		`clipboard("hello world")`, "hotkey(cmd+v)",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	if len(states) != 2 || !states[0].Holding || states[1].Holding {
		t.Errorf("Expected load then empty transitions, got %+v", states)
	}
}

func TestCarryNotificationsDisabled(t *testing.T) {
	rec := inputtest.New(100, 100)
	opts := DefaultOptions(100, 100)
	opts.Notifications = false
	e := New(context.Background(), rec, opts)
	defer e.Close()

	send(e, "/carry", "quiet")
	if len(rec.Actions()) != 0 {
		t.Errorf("Expected no notification, got %v", rec.Actions())
	}
}

func TestCarryStatusAndCancel(t *testing.T) {
	e, rec := newTestEngine(t)
	send(e, "/carry-status")
	send(e, "/carry", "x")
	send(e, "/carry-status")
	rec.Reset()

	if !e.Status().Carrying {
		t.Fatal("Expected status to report carrying")
	}
	send(e, "/carry-cancel")
	if e.Status().Carrying {
		t.Error("Expected carry cancelled")
	}
	if e.CancelCarry() {
		t.Error("Expected second cancel to report nothing pending")
	}
	send(e, "/drop")
	if len(rec.Actions()) != 0 {
		t.Errorf("Expected no paste after cancel, got %v", rec.Actions())
	}
}

func TestCancelCarryRacesDrop(t *testing.T) {
	for i := 0; i < 100; i++ {
		e, rec := newTestEngine(t)
		send(e, "/carry", "payload")
		rec.Reset()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			send(e, "/drop")
		}()
		go func() {
			defer wg.Done()
			e.CancelCarry()
		}()
		wg.Wait()

		if n := len(rec.Actions()); n != 0 && n != 2 {
			t.Fatalf("Expected no paste or a whole paste, got %v", rec.Actions())
		}
	}
}

func TestMalformedArgsIgnored(t *testing.T) {
	e, rec := newTestEngine(t)
	send(e, "/trackpad", "a", "b")
	send(e, "/speed")
	send(e, "/scroll", "fast")
	send(e, "/scroll-wheel")
	send(e, "/joy-left", 1.0)
	send(e, "/carry")
	send(e, "/left", "down")

	if len(rec.Actions()) != 0 {
		t.Errorf("Expected malformed messages to be ignored, got %v", rec.Actions())
	}
	if e.Settings().Snapshot().Speed != motion.DefaultSpeed {
		t.Error("Expected speed unchanged")
	}
}

func TestJoystickStartsAndMoves(t *testing.T) {
	e, rec := newTestEngine(t)
	send(e, "/joy-left", 0.0, 0.0)
	if e.Status().JoystickRunning {
		t.Fatal("Expected neutral input not to start the loop")
	}

	send(e, "/joy-right", 1.0, 0.0)
	if !e.Status().JoystickRunning {
		t.Fatal("Expected non-zero input to start the loop")
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(rec.Actions()) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	got := rec.Actions()
	if len(got) == 0 {
		t.Fatal("Expected relative moves from the tick loop")
	}
	if got[0].Kind != "move_rel" || got[0].X <= 0 || got[0].Y != 0 {
		t.Errorf("Expected rightward relative move, got %v", got[0])
	}

	e.Close()
	if e.Status().JoystickRunning {
		t.Error("Expected Close to stop the loop")
	}
}

func TestGainMessages(t *testing.T) {
	e, _ := newTestEngine(t)
	send(e, "/joy-left-gain", 40.0)
	send(e, "/joy-right-gain", int64(8))

	st := e.Status()
	if st.LeftGain != 40 || st.RightGain != 8 {
		t.Errorf("Expected gains 40/8, got %v/%v", st.LeftGain, st.RightGain)
	}
}

func TestApplyConfig(t *testing.T) {
	e, rec := newTestEngine(t)
	send(e, "/speed", 3.0)

	cfg := config.DefaultConfig()
	cfg.Cursor.Speed = 1.5
	cfg.Cursor.Curve = "quadratic"
	cfg.Joystick.LeftGain = 30
	cfg.General.ShortcutModifier = "ctrl"
	cfg.General.ShowNotifications = false
	e.ApplyConfig(cfg)

	st := e.Status()
	if st.Speed != 1.5 || st.Curve != "quadratic" || st.LeftGain != 30 || st.Modifier != "ctrl" {
		t.Errorf("Expected config applied, got %+v", st)
	}

	send(e, "/carry", "t")
	send(e, "/drop")
	var got []string
	for _, a := range rec.Actions() {
		got = append(got, a.String())
	}
	if want := []string{`clipboard("t")`, "hotkey(ctrl+v)"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.General.ShortcutModifier = "ctrl"
	cfg.Joystick.RateHz = 120
	cfg.Joystick.StopWhenIdle = true

	opts := OptionsFromConfig(cfg, 1920, 1080)
	if opts.ScreenWidth != 1920 || opts.ScreenHeight != 1080 {
		t.Errorf("Unexpected screen %dx%d", opts.ScreenWidth, opts.ScreenHeight)
	}
	if opts.Modifier != "ctrl" || opts.Integrator.RateHz != 120 || !opts.Integrator.StopWhenIdle {
		t.Errorf("Unexpected options %+v", opts)
	}
	if opts.Gesture.ScrollScale != 20 {
		t.Errorf("Expected gesture scale 20, got %v", opts.Gesture.ScrollScale)
	}
}
