// Package autostart starts the receiver when the user logs in.
package autostart

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/template"
)

const label = "com.reachz.receiver"

const macLaunchAgentPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>{{.Label}}</string>
    <key>ProgramArguments</key>
    <array>
        <string>{{.ExecutablePath}}</string>{{range .Args}}
        <string>{{.}}</string>{{end}}
    </array>
    <key>RunAtLoad</key>
    <true/>
    <key>KeepAlive</key>
    <false/>
</dict>
</plist>
`

const xdgDesktopEntry = `[Desktop Entry]
Type=Application
Name=Reachz
Comment=Touch-surface receiver
Exec={{.Command}}
X-GNOME-Autostart-enabled=true
NoDisplay=true
`

// Entry describes the login item for one platform
type Entry struct {
	// GOOS selects the format; defaults to runtime.GOOS
	GOOS string
	// Home is the user home directory; defaults to os.UserHomeDir
	Home string
	// ExecutablePath defaults to os.Executable
	ExecutablePath string
	// Args are passed to the executable at login
	Args []string
}

// Default returns the entry for the running binary on this platform
func Default(args ...string) (*Entry, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Entry{GOOS: runtime.GOOS, Home: home, ExecutablePath: exe, Args: args}, nil
}

// Path returns the file the entry is written to. Windows uses the registry
// and returns an empty path.
func (e *Entry) Path() string {
	switch e.GOOS {
	case "darwin":
		return filepath.Join(e.Home, "Library", "LaunchAgents", label+".plist")
	case "linux", "freebsd", "openbsd", "netbsd":
		return filepath.Join(e.Home, ".config", "autostart", "reachz.desktop")
	}
	return ""
}

// Enable enables auto-start on login
func (e *Entry) Enable() error {
	if e.GOOS == "windows" {
		return enableWindows(e.command())
	}
	path := e.Path()
	if path == "" {
		return fmt.Errorf("unsupported platform: %s", e.GOOS)
	}

	contents := xdgDesktopEntry
	if e.GOOS == "darwin" {
		contents = macLaunchAgentPlist
	}
	tmpl, err := template.New("autostart").Parse(contents)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, struct {
		Label          string
		ExecutablePath string
		Args           []string
		Command        string
	}{label, e.ExecutablePath, e.Args, e.command()})
}

// Disable disables auto-start on login
func (e *Entry) Disable() error {
	if e.GOOS == "windows" {
		return disableWindows()
	}
	path := e.Path()
	if path == "" {
		return fmt.Errorf("unsupported platform: %s", e.GOOS)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// IsEnabled checks if auto-start is enabled
func (e *Entry) IsEnabled() bool {
	if e.GOOS == "windows" {
		return isEnabledWindows()
	}
	path := e.Path()
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// command is the quoted command line for desktop entries and the Run key
func (e *Entry) command() string {
	parts := make([]string, 0, len(e.Args)+1)
	for _, p := range append([]string{e.ExecutablePath}, e.Args...) {
		if strings.ContainsAny(p, " \t") {
			p = `"` + p + `"`
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, " ")
}
