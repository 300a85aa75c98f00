package player

import (
	"io"
	"sync"
)

// Sink is an audio output for one player. Load hands it the stream to play;
// the Player keeps the same file and moves its read position to seek.
type Sink interface {
	Load(r io.Reader) error
	Play()
	Pause()
	Stop()
	Volume() float32
	SetVolume(v float32)
}

// DiscardSink accepts every command and produces no sound. It never reads
// the stream, so the file position only moves when the Player seeks.
type DiscardSink struct {
	mu     sync.Mutex
	volume float32
	paused bool
	loaded bool
}

// NewDiscardSink returns a DiscardSink at full volume.
func NewDiscardSink() *DiscardSink {
	return &DiscardSink{volume: 1}
}

func (s *DiscardSink) Load(io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	return nil
}

func (s *DiscardSink) Play() {
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
}

func (s *DiscardSink) Pause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
}

func (s *DiscardSink) Stop() {
	s.mu.Lock()
	s.loaded = false
	s.mu.Unlock()
}

func (s *DiscardSink) Volume() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

func (s *DiscardSink) SetVolume(v float32) {
	s.mu.Lock()
	s.volume = v
	s.mu.Unlock()
}

// Paused reports whether the last command was Pause.
func (s *DiscardSink) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Loaded reports whether a stream was loaded and not stopped since.
func (s *DiscardSink) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}
