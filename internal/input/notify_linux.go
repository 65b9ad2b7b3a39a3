//go:build linux

package input

import (
	"os/exec"

	"github.com/godbus/dbus/v5"
)

const (
	notifyService = "org.freedesktop.Notifications"
	notifyPath    = "/org/freedesktop/Notifications"
)

// SystemNotify posts a desktop notification on the session bus, falling back
// to notify-send when no bus is reachable.
func SystemNotify(title, body string) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return exec.Command("notify-send", title, body).Run()
	}
	defer conn.Close()

	obj := conn.Object(notifyService, dbus.ObjectPath(notifyPath))
	call := obj.Call(notifyService+".Notify", 0,
		"Reachz", uint32(0), "", title, body,
		[]string{}, map[string]dbus.Variant{}, int32(5000))
	return call.Err
}
