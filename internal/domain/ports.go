package domain

import (
	"context"
	"time"
)

// KVStore is a named-slot key-value store. Implementations can be in-memory,
// SQLite, or any other backend. Get returns ErrNotFound for a missing key.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// StateSaver persists process snapshots. The engine calls it after every
// state change.
type StateSaver interface {
	SaveState(ctx context.Context, state State) error
}

// Notifier delivers messages to the user. Implementations can write to
// stdout, a TUI, or use text-to-speech.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}

// Alert is the one-shot signal emitted when a step timer expires.
type Alert struct {
	StepID    string
	StepTitle string
	Title     string
	Body      string
	Vibration []time.Duration // on/off pattern, starting with "on"
}

// AlertSink delivers an expiry alert through one device channel (audio,
// desktop notification, vibration). The core does not depend on success.
type AlertSink interface {
	Alert(ctx context.Context, alert Alert) error
}

// TemperatureProvider returns the current ambient temperature in °C for
// the given coordinates.
type TemperatureProvider interface {
	CurrentTemperature(ctx context.Context, latitude, longitude float64) (float64, error)
}

// Assistant answers a free-form baking question given a context string.
// Implementations never fail: they return a fallback message instead.
type Assistant interface {
	Ask(ctx context.Context, query, bakeContext string) string
}

// IntentParser converts raw user input into structured intents.
type IntentParser interface {
	Parse(ctx context.Context, input string) (*Intent, error)
}

// SpeechProvider handles voice output. The no-op implementation is used
// when speech is disabled.
type SpeechProvider interface {
	Speak(ctx context.Context, text string) error
}
