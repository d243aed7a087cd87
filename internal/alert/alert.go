// Package alert delivers the timer expiry signal through the devices a
// desktop has: speakers, the notification area and the terminal.
package alert

import (
	"context"
	"fmt"

	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/logger"
)

// Compile-time interface check.
var _ domain.AlertSink = (*Multi)(nil)

// Multi fans an alert out to several sinks. A failing sink is logged and
// the rest still run.
type Multi struct {
	sinks []named
	log   *logger.Logger
}

type named struct {
	name string
	sink domain.AlertSink
}

// NewMulti creates an empty fan-out sink.
func NewMulti(log *logger.Logger) *Multi {
	return &Multi{log: log}
}

// Add registers a sink under a name used in log lines. Nil sinks are
// ignored so callers can pass optional devices straight through.
func (m *Multi) Add(name string, sink domain.AlertSink) *Multi {
	if sink != nil {
		m.sinks = append(m.sinks, named{name: name, sink: sink})
	}
	return m
}

// Len returns the number of registered sinks.
func (m *Multi) Len() int { return len(m.sinks) }

// Alert delivers to every sink and always returns nil.
func (m *Multi) Alert(ctx context.Context, a domain.Alert) error {
	for _, s := range m.sinks {
		if err := s.sink.Alert(ctx, a); err != nil {
			m.log.Warn("alert: %s sink failed: %v", s.name, err)
			continue
		}
		m.log.Debug("alert: %s sink delivered %q", s.name, a.StepID)
	}
	return nil
}

// Func adapts a plain function to domain.AlertSink.
type Func func(ctx context.Context, a domain.Alert) error

// Alert calls f.
func (f Func) Alert(ctx context.Context, a domain.Alert) error { return f(ctx, a) }

func describe(a domain.Alert) string {
	if a.StepTitle == "" {
		return a.Body
	}
	return fmt.Sprintf("%s: %s", a.StepTitle, a.Body)
}
