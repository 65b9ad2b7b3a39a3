//go:build !darwin && !linux

package input

import (
	"fmt"
	"runtime"
)

// SystemNotify is a stub for platforms without a notification command
func SystemNotify(title, body string) error {
	return fmt.Errorf("notifications not supported on %s", runtime.GOOS)
}
