// Package config provides configuration management for the reachz receiver.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	log "github.com/sirupsen/logrus"

	"reachz/internal/gesture"
	"reachz/internal/input"
	"reachz/internal/motion"
)

// Config represents the application configuration
type Config struct {
	// General contains listener and service settings
	General GeneralConfig `json:"general" toml:"general"`

	// Cursor contains trackpad mapping defaults
	Cursor CursorConfig `json:"cursor" toml:"cursor"`

	// Joystick contains the stick integrator tuning
	Joystick JoystickConfig `json:"joystick" toml:"joystick"`

	// Gesture contains the multi-touch thresholds
	Gesture GestureConfig `json:"gesture" toml:"gesture"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	// ListenIP is the address the OSC receiver binds to
	ListenIP string `json:"listen_ip" toml:"listen_ip"`

	// Port is the OSC UDP port (default: 9000)
	Port int `json:"port" toml:"port"`

	// APIEnabled enables the HTTP/WebSocket control server
	APIEnabled bool `json:"api_enabled" toml:"api_enabled"`

	// APIPort is the port for the API server (default: 9001)
	APIPort int `json:"api_port" toml:"api_port"`

	// APIToken is an optional bearer token for API requests
	APIToken string `json:"api_token,omitempty" toml:"api_token,omitempty"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `json:"log_level" toml:"log_level"`

	// TrayEnabled shows the system tray icon
	TrayEnabled bool `json:"tray_enabled" toml:"tray_enabled"`

	// ShowNotifications shows a desktop notification when text is carried
	ShowNotifications bool `json:"show_notifications" toml:"show_notifications"`

	// CancelHotkey is the global chord that cancels a carry (e.g. "Esc")
	CancelHotkey string `json:"cancel_hotkey,omitempty" toml:"cancel_hotkey,omitempty"`

	// ShortcutModifier is held for paste and zoom ("cmd" or "ctrl")
	ShortcutModifier string `json:"shortcut_modifier,omitempty" toml:"shortcut_modifier,omitempty"`

	// DryRun logs host actions instead of performing them
	DryRun bool `json:"dry_run" toml:"dry_run"`
}

// CursorConfig contains trackpad settings
type CursorConfig struct {
	Speed float64 `json:"speed" toml:"speed"`
	Curve string  `json:"curve" toml:"curve"`
}

// JoystickConfig contains the joystick integrator tuning
type JoystickConfig struct {
	Deadzone  float64 `json:"deadzone" toml:"deadzone"`
	LeftGain  float64 `json:"left_gain" toml:"left_gain"`
	RightGain float64 `json:"right_gain" toml:"right_gain"`
	Exponent  float64 `json:"exponent" toml:"exponent"`
	RateHz    int     `json:"rate_hz" toml:"rate_hz"`

	// StopWhenIdle ends the tick loop once both sticks are neutral
	StopWhenIdle bool `json:"stop_when_idle" toml:"stop_when_idle"`
}

// GestureConfig contains multi-touch thresholds
type GestureConfig struct {
	ScrollThreshold float64 `json:"scroll_threshold" toml:"scroll_threshold"`
	ScrollScale     float64 `json:"scroll_scale" toml:"scroll_scale"`
	PinchThreshold  float64 `json:"pinch_threshold" toml:"pinch_threshold"`
}

// DefaultConfig returns a new Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			ListenIP:          "0.0.0.0",
			Port:              9000,
			APIEnabled:        false,
			APIPort:           9001,
			LogLevel:          "info",
			TrayEnabled:       true,
			ShowNotifications: true,
			CancelHotkey:      "Esc",
			ShortcutModifier:  input.DefaultModifier(),
		},
		Cursor: CursorConfig{
			Speed: motion.DefaultSpeed,
			Curve: motion.Linear.String(),
		},
		Joystick: JoystickConfig{
			Deadzone:  motion.DefaultDeadzone,
			LeftGain:  motion.DefaultLeftGain,
			RightGain: motion.DefaultRightGain,
			Exponent:  motion.DefaultExponent,
			RateHz:    motion.DefaultRateHz,
		},
		Gesture: GestureConfig{
			ScrollThreshold: gesture.DefaultScrollThreshold,
			ScrollScale:     gesture.DefaultScrollScale,
			PinchThreshold:  gesture.DefaultPinchThreshold,
		},
	}
}

// Validate checks values that would break the engine
func (c *Config) Validate() error {
	if c.General.Port <= 0 || c.General.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.General.Port)
	}
	if c.General.APIEnabled && (c.General.APIPort <= 0 || c.General.APIPort > 65535) {
		return fmt.Errorf("invalid api_port %d", c.General.APIPort)
	}
	if c.Joystick.Deadzone < 0 || c.Joystick.Deadzone >= 1 {
		return fmt.Errorf("joystick deadzone %g must be in [0, 1)", c.Joystick.Deadzone)
	}
	if c.Joystick.RateHz <= 0 {
		return fmt.Errorf("joystick rate_hz %d must be positive", c.Joystick.RateHz)
	}
	if _, err := log.ParseLevel(c.General.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}

// Manager handles loading and saving configuration
type Manager struct {
	mu         sync.Mutex
	configPath string
	config     *Config
	onChanged  func()
}

// NewManager creates a configuration manager for the default path
func NewManager() (*Manager, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return NewManagerAt(configPath), nil
}

// NewManagerAt creates a configuration manager for path.
// A ".toml" extension selects TOML, anything else JSON.
func NewManagerAt(path string) *Manager {
	return &Manager{
		configPath: path,
		config:     DefaultConfig(),
	}
}

// getConfigPath returns the path to the configuration file
func getConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(dir, "reachz")

	// Create directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}

	return filepath.Join(configDir, "config.json"), nil
}

// Path returns the config file location
func (m *Manager) Path() string {
	return m.configPath
}

func (m *Manager) isTOML() bool {
	return strings.EqualFold(filepath.Ext(m.configPath), ".toml")
}

// Load reads the configuration from disk. A missing file keeps the defaults.
func (m *Manager) Load() error {
	m.mu.Lock()

	data, err := os.ReadFile(m.configPath)
	if os.IsNotExist(err) {
		m.mu.Unlock()
		return nil
	}
	if err != nil {
		m.mu.Unlock()
		return err
	}

	cfg := DefaultConfig()
	if m.isTOML() {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		m.mu.Unlock()
		return fmt.Errorf("parsing %s: %w", m.configPath, err)
	}
	if err := cfg.Validate(); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("validating %s: %w", m.configPath, err)
	}

	m.config = cfg
	onChanged := m.onChanged
	m.mu.Unlock()

	if onChanged != nil {
		onChanged()
	}
	return nil
}

// Save writes the configuration to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var (
		data []byte
		err  error
	)
	if m.isTOML() {
		data, err = toml.Marshal(m.config)
	} else {
		data, err = json.MarshalIndent(m.config, "", "  ")
	}
	if err != nil {
		return err
	}

	log.Printf("Config: Saving configuration to %s (%d bytes)", m.configPath, len(data))
	return os.WriteFile(m.configPath, data, 0644)
}

// Get returns a copy of the current configuration
func (m *Manager) Get() *Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg := *m.config
	return &cfg
}

// Set updates the configuration
func (m *Manager) Set(config *Config) {
	m.mu.Lock()
	m.config = config
	onChanged := m.onChanged
	m.mu.Unlock()
	if onChanged != nil {
		onChanged()
	}
}

// RegisterChangeCallback registers a function to be called when config changes
func (m *Manager) RegisterChangeCallback(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChanged = fn
}
