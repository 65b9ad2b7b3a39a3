package motion

import "sync"

// Default tuning values
const (
	DefaultSpeed     = 1.0
	DefaultDeadzone  = 0.1
	DefaultLeftGain  = 25.0
	DefaultRightGain = 5.0
	DefaultExponent  = 2.0
	DefaultRateHz    = 60
)

// Snapshot is a consistent copy of the runtime settings
type Snapshot struct {
	Speed     float64
	Curve     CurveType
	LeftGain  float64
	RightGain float64
	Deadzone  float64
	Exponent  float64
}

// Settings holds the process-wide tuning values. Each setter is last-writer-wins
// and every reader sees the latest write.
type Settings struct {
	mu sync.RWMutex
	s  Snapshot
}

// NewSettings returns settings with the default tuning
func NewSettings() *Settings {
	return &Settings{s: Snapshot{
		Speed:     DefaultSpeed,
		Curve:     Linear,
		LeftGain:  DefaultLeftGain,
		RightGain: DefaultRightGain,
		Deadzone:  DefaultDeadzone,
		Exponent:  DefaultExponent,
	}}
}

// Snapshot returns a copy of the current values
func (s *Settings) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.s
}

// Replace overwrites every value at once
func (s *Settings) Replace(snap Snapshot) {
	s.mu.Lock()
	s.s = snap
	s.mu.Unlock()
}

func (s *Settings) SetSpeed(v float64) {
	s.mu.Lock()
	s.s.Speed = v
	s.mu.Unlock()
}

func (s *Settings) SetCurve(c CurveType) {
	s.mu.Lock()
	s.s.Curve = c
	s.mu.Unlock()
}

func (s *Settings) SetLeftGain(v float64) {
	s.mu.Lock()
	s.s.LeftGain = v
	s.mu.Unlock()
}

func (s *Settings) SetRightGain(v float64) {
	s.mu.Lock()
	s.s.RightGain = v
	s.mu.Unlock()
}

func (s *Settings) SetDeadzone(v float64) {
	s.mu.Lock()
	s.s.Deadzone = v
	s.mu.Unlock()
}
