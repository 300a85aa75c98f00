package player

import (
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
)

// resampleQuality is passed to beep.Resample when a file's rate differs from the output's.
const resampleQuality = 4

// Output is a shared mixer that BeepSinks play into, such as the system speaker.
// Lock must be held while a playing streamer is modified.
type Output interface {
	SampleRate() beep.SampleRate
	Play(s beep.Streamer)
	Lock()
	Unlock()
}

// DecodeFunc turns an encoded stream into samples.
type DecodeFunc func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

// BeepSink decodes MP3 with beep and plays it through an Output.
// Pause and volume are applied with beep.Ctrl and effects.Volume, so several
// sinks can share one Output.
type BeepSink struct {
	mu     sync.Mutex
	out    Output
	decode DecodeFunc

	stream beep.StreamSeekCloser
	ctrl   *beep.Ctrl
	gain   *effects.Volume
	volume float32
	paused bool
}

// NewBeepSink returns a sink playing MP3 into out.
func NewBeepSink(out Output) *BeepSink {
	return &BeepSink{out: out, decode: mp3.Decode, volume: 1}
}

// Load starts playing r, replacing anything loaded before. r is not closed.
func (s *BeepSink) Load(r io.Reader) error {
	s.Stop()

	// Hide io.Seeker so the decoder streams from the current position and
	// the Player's seeks move playback.
	stream, format, err := s.decode(io.NopCloser(r))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	var src beep.Streamer = stream
	if rate := s.out.SampleRate(); format.SampleRate != rate {
		src = beep.Resample(resampleQuality, format.SampleRate, rate, src)
	}

	s.mu.Lock()
	s.stream = stream
	s.ctrl = &beep.Ctrl{Streamer: src, Paused: s.paused}
	s.gain = &effects.Volume{Streamer: s.ctrl, Base: 2}
	applyGain(s.gain, s.volume)
	gain := s.gain
	s.mu.Unlock()

	s.out.Play(gain)
	return nil
}

func (s *BeepSink) Play() {
	s.setPaused(false)
}

func (s *BeepSink) Pause() {
	s.setPaused(true)
}

func (s *BeepSink) setPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = paused
	if s.ctrl == nil {
		return
	}
	s.out.Lock()
	s.ctrl.Paused = paused
	s.out.Unlock()
}

// Stop drains this sink's streamer from the Output and releases the decoder.
func (s *BeepSink) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctrl == nil {
		return
	}
	s.out.Lock()
	s.ctrl.Streamer = nil
	s.out.Unlock()

	_ = s.stream.Close()
	s.stream, s.ctrl, s.gain = nil, nil, nil
}

func (s *BeepSink) Volume() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// SetVolume sets a linear gain: 1 is unchanged, 0 is silent.
func (s *BeepSink) SetVolume(v float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = v
	if s.gain == nil {
		return
	}
	s.out.Lock()
	applyGain(s.gain, v)
	s.out.Unlock()
}

func applyGain(g *effects.Volume, v float32) {
	if v <= 0 {
		g.Silent = true
		g.Volume = 0
		return
	}
	g.Silent = false
	g.Volume = math.Log2(float64(v))
}
