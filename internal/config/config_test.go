package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.General.Port != 9000 {
		t.Errorf("Expected default port 9000, got %d", cfg.General.Port)
	}
	if cfg.Cursor.Curve != "linear" || cfg.Cursor.Speed != 1.0 {
		t.Errorf("Expected linear curve at speed 1, got %q at %v", cfg.Cursor.Curve, cfg.Cursor.Speed)
	}
	if cfg.Joystick.LeftGain != 25 || cfg.Joystick.RightGain != 5 || cfg.Joystick.Deadzone != 0.1 {
		t.Errorf("Unexpected joystick defaults: %+v", cfg.Joystick)
	}
	if cfg.Joystick.StopWhenIdle {
		t.Error("Expected the joystick loop to keep running by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	m := NewManagerAt(filepath.Join(t.TempDir(), "config.json"))
	if err := m.Load(); err != nil {
		t.Fatalf("Expected no error for missing file, got %v", err)
	}
	if m.Get().General.Port != 9000 {
		t.Errorf("Expected default port, got %d", m.Get().General.Port)
	}
}

func TestLoadJSONMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"general": {"port": 9100}, "joystick": {"left_gain": 40}}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManagerAt(path)
	called := 0
	m.RegisterChangeCallback(func() { called++ })
	if err := m.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cfg := m.Get()
	if cfg.General.Port != 9100 {
		t.Errorf("Expected port 9100, got %d", cfg.General.Port)
	}
	if cfg.Joystick.LeftGain != 40 {
		t.Errorf("Expected left gain 40, got %v", cfg.Joystick.LeftGain)
	}
	if cfg.Joystick.RightGain != 5 {
		t.Errorf("Expected unspecified right gain to keep default 5, got %v", cfg.Joystick.RightGain)
	}
	if called != 1 {
		t.Errorf("Expected change callback once, got %d", called)
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[general]
port = 9200
log_level = "debug"

[cursor]
curve = "smooth"
speed = 1.5
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManagerAt(path)
	if err := m.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg := m.Get()
	if cfg.General.Port != 9200 || cfg.General.LogLevel != "debug" {
		t.Errorf("Unexpected general section: %+v", cfg.General)
	}
	if cfg.Cursor.Curve != "smooth" || cfg.Cursor.Speed != 1.5 {
		t.Errorf("Unexpected cursor section: %+v", cfg.Cursor)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bad json":     `{"general": `,
		"bad deadzone": `{"joystick": {"deadzone": 1.5}}`,
		"bad port":     `{"general": {"port": 70000}}`,
		"bad level":    `{"general": {"log_level": "loud"}}`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(data), 0644); err != nil {
				t.Fatal(err)
			}
			m := NewManagerAt(path)
			if err := m.Load(); err == nil {
				t.Error("Expected an error")
			}
			if m.Get().General.Port != 9000 {
				t.Error("Expected defaults to survive a failed load")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"config.json", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			m := NewManagerAt(path)
			cfg := m.Get()
			cfg.General.APIEnabled = true
			cfg.Joystick.StopWhenIdle = true
			m.Set(cfg)
			if err := m.Save(); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			m2 := NewManagerAt(path)
			if err := m2.Load(); err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			got := m2.Get()
			if !got.General.APIEnabled || !got.Joystick.StopWhenIdle {
				t.Errorf("Expected saved values to load back, got %+v", got)
			}
		})
	}
}

func TestGetReturnsCopy(t *testing.T) {
	m := NewManagerAt(filepath.Join(t.TempDir(), "config.json"))
	cfg := m.Get()
	cfg.General.Port = 1
	if m.Get().General.Port != 9000 {
		t.Error("Expected Get to return an independent copy")
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"cursor": {"speed": 1}}`), 0644); err != nil {
		t.Fatal(err)
	}
	m := NewManagerAt(path)
	if err := m.Load(); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan struct{}, 1)
	m.RegisterChangeCallback(func() {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Watch(ctx)

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`{"cursor": {"speed": 3}}`), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloaded:
	case <-time.After(3 * time.Second):
		t.Fatal("Expected a reload after the file changed")
	}
	if got := m.Get().Cursor.Speed; got != 3 {
		t.Errorf("Expected reloaded speed 3, got %v", got)
	}
}
