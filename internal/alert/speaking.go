package alert

import (
	"context"

	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/speech"
)

// Compile-time interface check.
var _ domain.AlertSink = (*Speaking)(nil)

// Sayer queues text on the speech pipeline.
type Sayer interface {
	Say(text string, priority speech.Priority)
}

// Speaking announces the expired step out loud.
type Speaking struct {
	mouth Sayer
}

// NewSpeaking creates a spoken alert sink.
func NewSpeaking(mouth Sayer) *Speaking {
	return &Speaking{mouth: mouth}
}

// Alert queues the announcement at high priority. Never blocks.
func (s *Speaking) Alert(_ context.Context, a domain.Alert) error {
	s.mouth.Say(speech.LineStepDone(a.StepTitle), speech.PriorityHigh)
	return nil
}
