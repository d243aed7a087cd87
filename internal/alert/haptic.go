package alert

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/logger"
)

// Compile-time interface check.
var _ domain.AlertSink = (*Haptic)(nil)

// Haptic stands in for a vibration motor. It logs the pattern and, when
// given a terminal, rings the bell once per pulse.
type Haptic struct {
	bell  io.Writer // nil disables the bell
	log   *logger.Logger
	sleep func(time.Duration)
}

// NewHaptic creates a haptic sink. bell may be nil.
func NewHaptic(bell io.Writer, log *logger.Logger) *Haptic {
	return &Haptic{bell: bell, log: log, sleep: time.Sleep}
}

// Alert plays the pattern. Blocks for the length of the pattern when a
// bell is attached.
func (h *Haptic) Alert(ctx context.Context, a domain.Alert) error {
	h.log.Info("alert: vibrate %s", pattern(a.Vibration))
	if h.bell == nil {
		return nil
	}
	for i, d := range a.Vibration {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if i%2 == 0 {
			if _, err := io.WriteString(h.bell, "\a"); err != nil {
				return err
			}
		}
		h.sleep(d)
	}
	return nil
}

func pattern(ds []time.Duration) string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = d.String()
	}
	return strings.Join(parts, ",")
}
