package conversation

import (
	"context"
	"fmt"

	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*CLINotifier)(nil)

// ANSI escape codes for terminal formatting.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	red    = "\033[31m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)

// PrintFunc prints one formatted line. Matches display.UI.Printf.
type PrintFunc func(format string, a ...any)

// NotifierOption configures the CLINotifier.
type NotifierOption func(*CLINotifier)

// WithBell rings the terminal bell on urgent messages.
func WithBell() NotifierOption {
	return func(n *CLINotifier) { n.bell = true }
}

// CLINotifier writes notifications to the terminal with ANSI formatting.
// Normal messages are cyan, urgent ones bold red.
type CLINotifier struct {
	log     *logger.Logger
	printFn PrintFunc
	bell    bool
}

// NewCLINotifier creates a terminal notifier. If printFn is nil, lines go
// to stdout.
func NewCLINotifier(log *logger.Logger, printFn PrintFunc, opts ...NotifierOption) *CLINotifier {
	if printFn == nil {
		printFn = func(format string, a ...any) {
			fmt.Printf(format+"\n", a...)
		}
	}
	n := &CLINotifier{log: log, printFn: printFn}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Notify prints a normal notification.
func (n *CLINotifier) Notify(ctx context.Context, message string) error {
	n.log.Debug("notify: %s", message)
	n.printFn("%s%s%s", cyan, message, reset)
	return nil
}

// NotifyUrgent prints an urgent notification.
func (n *CLINotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Debug("notify-urgent: %s", message)
	bell := ""
	if n.bell {
		bell = "\a"
	}
	n.printFn("%s%s%s%s%s", bell, red, bold, message, reset)
	return nil
}

// Hint prints a dim yellow hint, used for help lines and tips.
func (n *CLINotifier) Hint(message string) {
	n.printFn("%s%s%s", yellow, message, reset)
}
