package speech

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/levain/internal/logger"
)

// AudioSink is where synthesized speech ends up. Play blocks until the clip
// ends or Stop cuts it off.
type AudioSink interface {
	Play(wav []byte) error
	Stop()
}

var _ AudioSink = (*Speaker)(nil)

// Speaker is the kitchen's one audio output. oto allows a single context per
// process, so spoken steps and the timer chime take turns on it.
type Speaker struct {
	otoCtx *oto.Context
	log    *logger.Logger

	mu      sync.Mutex
	current *oto.Player
	cut     chan struct{}
}

// OpenSpeaker claims the audio device. It fails on headless machines, and
// the caller then runs without sound.
func OpenSpeaker(log *logger.Logger) (*Speaker, error) {
	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	<-ready

	log.Debug("speaker: ready at %d Hz", SampleRate)
	return &Speaker{otoCtx: otoCtx, log: log}, nil
}

// Play speaks one synthesized WAV clip.
func (s *Speaker) Play(wav []byte) error {
	pcm, err := wavSamples(wav)
	if err != nil {
		return fmt.Errorf("reading speech audio: %w", err)
	}
	return s.PlayPCM(pcm)
}

// PlayPCM plays mono signed 16-bit little-endian samples at SampleRate. The
// chime calls it with tones it builds itself.
func (s *Speaker) PlayPCM(pcm []byte) error {
	p := s.otoCtx.NewPlayer(bytes.NewReader(pcm))
	cut := make(chan struct{})

	s.mu.Lock()
	s.current, s.cut = p, cut
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		if s.current == p {
			s.current, s.cut = nil, nil
		}
		s.mu.Unlock()
	}()

	p.Play()
	s.log.Debug("speaker: playing %s", clipLength(len(pcm)))

	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	for p.IsPlaying() {
		select {
		case <-cut:
			p.Pause()
			return p.Close()
		case <-tick.C:
		}
	}
	return p.Close()
}

// Stop cuts off whatever is playing. It is a no-op when the speaker is idle.
func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cut != nil {
		close(s.cut)
		s.cut = nil
		s.log.Debug("speaker: cut off")
	}
}

func clipLength(n int) time.Duration {
	samples := n / (bytesPerSample * channels)
	return (time.Duration(samples) * time.Second / SampleRate).Round(time.Millisecond)
}

var errNotWAV = errors.New("not a RIFF/WAVE clip")

// wavSamples returns the data chunk of a RIFF clip. A fmt chunk that
// disagrees with the speaker's layout is an error, since oto would play it at
// the wrong pitch.
func wavSamples(wav []byte) ([]byte, error) {
	if len(wav) < 12 || string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, errNotWAV
	}

	for pos := 12; pos+8 <= len(wav); {
		id := string(wav[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(wav[pos+4 : pos+8]))
		body := wav[pos+8 : min(pos+8+size, len(wav))]

		switch id {
		case "fmt ":
			if err := checkLayout(body); err != nil {
				return nil, err
			}
		case "data":
			return body, nil
		}

		// Chunks are padded to an even length.
		pos += 8 + size + size%2
	}
	return nil, fmt.Errorf("%w: no data chunk", errNotWAV)
}

func checkLayout(fmtChunk []byte) error {
	if len(fmtChunk) < 16 {
		return fmt.Errorf("%w: short fmt chunk", errNotWAV)
	}
	ch := int(binary.LittleEndian.Uint16(fmtChunk[2:4]))
	rate := int(binary.LittleEndian.Uint32(fmtChunk[4:8]))
	bits := int(binary.LittleEndian.Uint16(fmtChunk[14:16]))
	if ch != channels || rate != SampleRate || bits != bytesPerSample*8 {
		return fmt.Errorf("clip is %d ch, %d Hz, %d bit; speaker wants %s", ch, rate, bits, OutputFormat)
	}
	return nil
}
