package alert

import (
	"context"
	"encoding/binary"
	"math"
	"time"

	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/speech"
)

// PCMPlayer plays raw signed 16-bit little-endian mono samples.
type PCMPlayer interface {
	PlayPCM(pcm []byte) error
}

// Compile-time interface checks.
var (
	_ domain.AlertSink = (*Chime)(nil)
	_ PCMPlayer        = (*speech.Speaker)(nil)
)

// Chime plays a beep for every "on" segment of the alert's vibration
// pattern and silence for every "off" segment.
type Chime struct {
	player    PCMPlayer
	frequency float64
	volume    float64
}

// NewChime creates a chime sink at 880 Hz.
func NewChime(player PCMPlayer) *Chime {
	return &Chime{player: player, frequency: 880, volume: 0.4}
}

// Alert renders and plays the chime. Blocks until playback ends.
func (c *Chime) Alert(ctx context.Context, a domain.Alert) error {
	pattern := a.Vibration
	if len(pattern) == 0 {
		pattern = []time.Duration{400 * time.Millisecond}
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return c.player.PlayPCM(c.render(pattern))
}

// render builds the PCM buffer. Even indices are tones, odd are gaps.
// Each tone ramps in and out over 5 ms to avoid clicks.
func (c *Chime) render(pattern []time.Duration) []byte {
	total := 0
	for _, d := range pattern {
		total += samplesFor(d)
	}
	buf := make([]byte, 0, total*2)

	ramp := samplesFor(5 * time.Millisecond)
	for i, d := range pattern {
		n := samplesFor(d)
		for s := 0; s < n; s++ {
			var v float64
			if i%2 == 0 {
				env := 1.0
				if s < ramp {
					env = float64(s) / float64(ramp)
				} else if n-s < ramp {
					env = float64(n-s) / float64(ramp)
				}
				phase := 2 * math.Pi * c.frequency * float64(s) / speech.SampleRate
				v = math.Sin(phase) * c.volume * env
			}
			buf = binary.LittleEndian.AppendUint16(buf, uint16(int16(v*math.MaxInt16)))
		}
	}
	return buf
}

func samplesFor(d time.Duration) int {
	return int(d.Seconds() * speech.SampleRate)
}
