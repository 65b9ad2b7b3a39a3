//go:build !windows && !darwin

package hotkey

import log "github.com/sirupsen/logrus"

func (m *Manager) startPlatform() error {
	log.Warn("Hotkey: global key hooks are not supported on this platform, use /carry-cancel instead")
	return nil
}
