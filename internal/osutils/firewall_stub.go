//go:build !windows

package osutils

import log "github.com/sirupsen/logrus"

// EnsureFirewallRule is a no-op outside Windows
func EnsureFirewallRule(rule FirewallRule) error {
	if err := rule.validate(); err != nil {
		return err
	}
	log.Debugf("Firewall: automatic rule management is only supported on Windows (%s %d)", rule.Protocol, rule.Port)
	return nil
}
