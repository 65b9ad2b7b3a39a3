// Package osutils holds host setup helpers that differ per operating system.
package osutils

import (
	"fmt"
	"strings"
)

// FirewallRule is an inbound allow rule for one local port
type FirewallRule struct {
	Name     string
	Port     int
	Protocol string // "UDP" or "TCP"
}

// OSCRule is the rule for the OSC receiver port
func OSCRule(port int) FirewallRule {
	return FirewallRule{Name: "Reachz OSC", Port: port, Protocol: "UDP"}
}

// APIRule is the rule for the control server port
func APIRule(port int) FirewallRule {
	return FirewallRule{Name: "Reachz Control", Port: port, Protocol: "TCP"}
}

func (r FirewallRule) validate() error {
	if r.Port <= 0 || r.Port > 65535 {
		return fmt.Errorf("firewall rule %q: invalid port %d", r.Name, r.Port)
	}
	switch strings.ToUpper(r.Protocol) {
	case "UDP", "TCP":
	default:
		return fmt.Errorf("firewall rule %q: unsupported protocol %q", r.Name, r.Protocol)
	}
	if strings.ContainsAny(r.Name, `'"`) {
		return fmt.Errorf("firewall rule %q: name must not contain quotes", r.Name)
	}
	return nil
}

// script is the PowerShell command that replaces any rule of the same name.
// The rule is port-based, not program-based, so it survives rebuilds that move the binary.
func (r FirewallRule) script() string {
	return fmt.Sprintf(
		"Remove-NetFirewallRule -DisplayName '%s' -ErrorAction SilentlyContinue; "+
			"New-NetFirewallRule -DisplayName '%s' -Direction Inbound -LocalPort %d -Protocol %s -Action Allow -Profile Any",
		r.Name, r.Name, r.Port, strings.ToUpper(r.Protocol),
	)
}
