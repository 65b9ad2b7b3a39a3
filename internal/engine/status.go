package engine

import "reachz/internal/carry"

// Status is a point-in-time view of the engine, shaped for the HTTP API
type Status struct {
	Carrying        bool     `json:"carrying"`
	Preview         string   `json:"preview,omitempty"`
	Speed           float64  `json:"speed"`
	Curve           string   `json:"curve"`
	LeftGain        float64  `json:"left_gain"`
	RightGain       float64  `json:"right_gain"`
	Deadzone        float64  `json:"deadzone"`
	JoystickRunning bool     `json:"joystick_running"`
	Modifier        string   `json:"modifier"`
	Addresses       []string `json:"addresses"`
}

// Status returns the current engine state
func (e *Engine) Status() Status {
	snap := e.settings.Snapshot()
	cs := e.carry.Status()
	st := Status{
		Carrying:        cs.Holding,
		Speed:           snap.Speed,
		Curve:           snap.Curve.String(),
		LeftGain:        snap.LeftGain,
		RightGain:       snap.RightGain,
		Deadzone:        snap.Deadzone,
		JoystickRunning: e.joystick.Running(),
		Modifier:        e.options().Modifier,
		Addresses:       e.Addresses(),
	}
	if cs.Holding {
		st.Preview = carry.Preview(cs.Text, notifyPreviewLen)
	}
	return st
}
