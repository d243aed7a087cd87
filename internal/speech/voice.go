// Package speech reads steps aloud through Azure text-to-speech and takes
// short voice commands through a local Whisper model.
package speech

import "time"

// DefaultVoice reads the bake when config names no other voice.
const DefaultVoice = "en-GB-SoniaNeural"

// OutputFormat is what Levain asks Azure for. The player and the timer
// chime both assume the PCM layout it implies.
const OutputFormat = "riff-24khz-16bit-mono-pcm"

// SampleRate is the rate of every buffer handed to the speaker, spoken or
// synthesized by the chime.
const SampleRate = 24000

const (
	channels       = 1
	bytesPerSample = 2
)

// Credentials are read from the environment, never from levain.toml.
const (
	KeyEnv    = "AZURE_SPEECH_KEY"
	RegionEnv = "AZURE_SPEECH_REGION"
)

// Priority orders what the kitchen hears first. A higher level jumps the
// queue, and anything at PriorityNormal or above drops stale nudges.
type Priority int

const (
	PriorityLow    Priority = iota // watcher nudges, almost-done warnings
	PriorityNormal                 // step read-outs, confirmations, answers
	PriorityHigh                   // a timer has run out
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	}
	return "unknown"
}

// utterance is one line waiting in the mouth's queue.
type utterance struct {
	text     string
	priority Priority
	queued   time.Time
}
