//go:build darwin

package input

import (
	"fmt"
	"os/exec"
	"strings"
)

// SystemNotify posts a Notification Center banner through osascript
func SystemNotify(title, body string) error {
	script := fmt.Sprintf("display notification %s with title %s", appleQuote(body), appleQuote(title))
	return exec.Command("osascript", "-e", script).Run()
}

func appleQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
