package alert

import (
	"context"
	"os/exec"
	"runtime"
	"strings"

	"github.com/hammamikhairi/levain/internal/domain"
)

// Compile-time interface check.
var _ domain.AlertSink = (*Desktop)(nil)

// Desktop raises a system notification with notify-send on Linux and
// osascript on macOS. Other platforms are a no-op.
type Desktop struct {
	goos string
	run  func(ctx context.Context, name string, args ...string) error
}

// NewDesktop creates a desktop notification sink for the running OS.
func NewDesktop() *Desktop {
	return &Desktop{goos: runtime.GOOS, run: runCommand}
}

// Alert sends the notification.
func (d *Desktop) Alert(ctx context.Context, a domain.Alert) error {
	switch d.goos {
	case "darwin":
		script := `display notification "` + appleQuote(describe(a)) + `" with title "` + appleQuote(a.Title) + `"`
		return d.run(ctx, "osascript", "-e", script)
	case "linux":
		return d.run(ctx, "notify-send", "--urgency=critical", a.Title, describe(a))
	default:
		return nil
	}
}

func appleQuote(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}
