// Package player plays audio files for the music box: a Player drives one
// Sink and keeps a frame index for seeking, and a Registry names players.
package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/phenix/musicbox/internal/log"
)

// MaxFileSizeForSeekIndex is the largest file indexed on load. Bigger files
// still play and report a duration but cannot seek.
const MaxFileSizeForSeekIndex int64 = 50 << 20

// File is an open audio file. *os.File satisfies it.
type File interface {
	io.Reader
	io.ReaderAt
	io.Seeker
	io.Closer
	Stat() (fs.FileInfo, error)
}

// State is the playback state of a Player.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "stopped"
	}
}

// Status is a point-in-time view of a Player.
type Status struct {
	State    State
	Loaded   bool
	Seekable bool
	Volume   float32
	Duration time.Duration // zero when unknown
	Elapsed  time.Duration // zero when not seekable
}

// Player manages playback of one file at a time. It is safe for concurrent use.
type Player struct {
	mu     sync.Mutex
	sink   Sink
	logger zerolog.Logger

	file     File
	name     string
	duration time.Duration
	index    SeekIndex
	state    State
}

// New returns a stopped Player that plays through sink.
func New(sink Sink) *Player {
	return &Player{
		sink:   sink,
		logger: log.WithComponent("player"),
	}
}

// LoadPath opens path and loads it. Failure to open yields ErrOpenFile.
func (p *Player) LoadPath(ctx context.Context, path string) error {
	// #nosec G304 -- callers resolve path against the media directory
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOpenFile, err)
	}
	return p.LoadFile(ctx, f)
}

// LoadFile stops current playback, scans f for its duration and, when f is at
// most MaxFileSizeForSeekIndex bytes, its seek index, then starts playing f.
// The Player owns f from here on and closes it on Stop or the next load.
// A file whose duration cannot be read still plays.
func (p *Player) LoadFile(ctx context.Context, f File) error {
	p.Stop()

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: stat: %v", ErrOpenFile, err)
	}

	withIndex := info.Size() <= MaxFileSizeForSeekIndex
	// The section reader leaves f's own position alone.
	analysis, err := Analyze(ctx, io.NewSectionReader(f, 0, info.Size()), withIndex)
	if err != nil {
		if ctx.Err() != nil {
			_ = f.Close()
			return err
		}
		p.logger.Warn().Err(err).Str(log.FieldPath, info.Name()).Msg("audio analysis failed")
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %v", ErrNotSeekable, err)
	}
	if err := p.sink.Load(f); err != nil {
		_ = f.Close()
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.file = f
	p.name = info.Name()
	p.duration = analysis.Duration
	p.index = analysis.Index
	p.state = StatePlaying

	p.logger.Info().
		Str(log.FieldPath, p.name).
		Dur(log.FieldDuration, p.duration).
		Int("frames", analysis.Frames).
		Bool("seekable", p.index != nil).
		Msg("file loaded")
	return nil
}

// IsLoaded reports whether a file is loaded.
func (p *Player) IsLoaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.file != nil
}

// IsSeekable reports whether a file is loaded and has a seek index.
func (p *Player) IsSeekable() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seekableLocked()
}

func (p *Player) seekableLocked() bool {
	return p.file != nil && p.index != nil
}

// Seek moves playback to the frame containing t.
func (p *Player) Seek(t time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.index == nil {
		return ErrNoSeekIndex
	}
	if p.file == nil {
		return ErrNoFile
	}
	if t < 0 {
		t = 0
	}
	if _, err := p.file.Seek(p.index.OffsetForTime(t), io.SeekStart); err != nil {
		return fmt.Errorf("%w: %v", ErrNotSeekable, err)
	}
	return nil
}

// Elapsed maps the file's read position back to playback time.
func (p *Player) Elapsed() (time.Duration, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.elapsedLocked()
}

func (p *Player) elapsedLocked() (time.Duration, error) {
	if p.file == nil {
		return 0, ErrNoFile
	}
	pos, err := p.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNotSeekable, err)
	}
	if p.index == nil {
		return 0, ErrNoSeekIndex
	}
	return p.index.TimeForOffset(pos), nil
}

// Play resumes playback of the loaded file.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.file == nil {
		return ErrNoFile
	}
	p.sink.Play()
	p.state = StatePlaying
	return nil
}

// Pause holds playback at the current position.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.file == nil {
		return ErrNoFile
	}
	p.sink.Pause()
	p.state = StatePaused
	return nil
}

// Stop ends playback and forgets the file, its duration and its index.
// Stopping a stopped player does nothing.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sink.Stop()
	if p.file != nil {
		if err := p.file.Close(); err != nil && !errors.Is(err, fs.ErrClosed) {
			p.logger.Warn().Err(err).Str(log.FieldPath, p.name).Msg("close audio file")
		}
	}
	p.file = nil
	p.name = ""
	p.duration = 0
	p.index = nil
	p.state = StateStopped
}

// Duration returns the loaded file's length, if known.
func (p *Player) Duration() (time.Duration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration, p.file != nil && p.duration > 0
}

// Volume returns the sink's linear gain.
func (p *Player) Volume() float32 {
	return p.sink.Volume()
}

// SetVolume sets the linear gain; negative and NaN values mute.
func (p *Player) SetVolume(v float32) {
	if v < 0 || math.IsNaN(float64(v)) {
		v = 0
	}
	p.sink.SetVolume(v)
}

// State returns the playback state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Status returns a consistent snapshot of the player.
func (p *Player) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := Status{
		State:    p.state,
		Loaded:   p.file != nil,
		Seekable: p.seekableLocked(),
		Volume:   p.sink.Volume(),
		Duration: p.duration,
	}
	if st.Seekable {
		st.Elapsed, _ = p.elapsedLocked()
	}
	return st
}
