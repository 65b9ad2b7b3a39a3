//go:build windows

package osutils

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"
)

// IsAdmin checks if the current process has administrative privileges
func IsAdmin() bool {
	var token windows.Token
	h, _ := windows.GetCurrentProcess()
	if err := windows.OpenProcessToken(h, windows.TOKEN_QUERY, &token); err != nil {
		return false
	}
	defer token.Close()

	var sid *windows.SID
	err := windows.AllocateAndInitializeSid(
		&windows.SECURITY_NT_AUTHORITY,
		2,
		windows.SECURITY_BUILTIN_DOMAIN_RID,
		windows.DOMAIN_ALIAS_RID_ADMINS,
		0, 0, 0, 0, 0, 0,
		&sid,
	)
	if err != nil {
		return false
	}
	defer windows.FreeSid(sid)

	member, err := token.IsMember(sid)
	return err == nil && member
}

// EnsureFirewallRule creates or updates an inbound allow rule, requesting UAC
// elevation when the process is not already elevated.
func EnsureFirewallRule(rule FirewallRule) error {
	if err := rule.validate(); err != nil {
		return err
	}

	out, err := exec.Command("netsh", "advfirewall", "firewall", "show", "rule", "name="+rule.Name).CombinedOutput()
	text := string(out)
	if err == nil && strings.Contains(text, rule.Name) &&
		strings.Contains(text, strconv.Itoa(rule.Port)) &&
		strings.Contains(strings.ToUpper(text), strings.ToUpper(rule.Protocol)) {
		log.Debugf("Firewall: rule '%s' already allows %s %d", rule.Name, rule.Protocol, rule.Port)
		return nil
	}
	log.Printf("Firewall: creating rule '%s' for %s %d", rule.Name, rule.Protocol, rule.Port)

	script := rule.script()
	if IsAdmin() {
		if out, err := exec.Command("powershell", "-NoProfile", "-Command", script).CombinedOutput(); err != nil {
			return fmt.Errorf("creating firewall rule: %w (output: %s)", err, out)
		}
		return nil
	}

	verb, _ := syscall.UTF16PtrFromString("runas")
	exe, _ := syscall.UTF16PtrFromString("powershell.exe")
	args, _ := syscall.UTF16PtrFromString(fmt.Sprintf("-NoProfile -WindowStyle Hidden -Command \"%s\"", script))
	if err := windows.ShellExecute(0, verb, exe, args, nil, windows.SW_HIDE); err != nil {
		return fmt.Errorf("launching elevated powershell: %w", err)
	}
	log.Println("Firewall: UAC prompt requested, check your taskbar")
	return nil
}
