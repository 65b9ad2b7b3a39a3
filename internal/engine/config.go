package engine

import (
	log "github.com/sirupsen/logrus"

	"reachz/internal/config"
	"reachz/internal/gesture"
	"reachz/internal/motion"
)

// OptionsFromConfig builds engine options for a w×h screen from cfg
func OptionsFromConfig(cfg *config.Config, w, h int) Options {
	opts := DefaultOptions(w, h)
	if cfg.General.ShortcutModifier != "" {
		opts.Modifier = cfg.General.ShortcutModifier
	}
	opts.Notifications = cfg.General.ShowNotifications
	opts.Gesture = gestureConfig(cfg)
	opts.Integrator = motion.IntegratorOptions{
		RateHz:       cfg.Joystick.RateHz,
		StopWhenIdle: cfg.Joystick.StopWhenIdle,
	}
	return opts
}

// ApplyConfig replaces the tuning values with the ones in cfg.
// Runtime changes made over the wire (/speed, /curve, gains) are overwritten.
// The tick rate only takes effect on restart.
func (e *Engine) ApplyConfig(cfg *config.Config) {
	e.settings.Replace(motion.Snapshot{
		Speed:     cfg.Cursor.Speed,
		Curve:     motion.ParseCurve(cfg.Cursor.Curve),
		LeftGain:  cfg.Joystick.LeftGain,
		RightGain: cfg.Joystick.RightGain,
		Deadzone:  cfg.Joystick.Deadzone,
		Exponent:  cfg.Joystick.Exponent,
	})
	e.gesture.SetConfig(gestureConfig(cfg))

	e.mu.Lock()
	if cfg.General.ShortcutModifier != "" {
		e.opts.Modifier = cfg.General.ShortcutModifier
	}
	e.opts.Notifications = cfg.General.ShowNotifications
	modifier := e.opts.Modifier
	e.mu.Unlock()
	e.carry.SetModifier(modifier)

	log.WithFields(log.Fields{
		"speed":    cfg.Cursor.Speed,
		"curve":    cfg.Cursor.Curve,
		"modifier": modifier,
	}).Info("Engine: configuration applied")
}

func gestureConfig(cfg *config.Config) gesture.Config {
	gc := gesture.Config{
		ScrollThreshold: cfg.Gesture.ScrollThreshold,
		ScrollScale:     cfg.Gesture.ScrollScale,
		PinchThreshold:  cfg.Gesture.PinchThreshold,
	}
	if gc == (gesture.Config{}) {
		return gesture.DefaultConfig()
	}
	return gc
}
