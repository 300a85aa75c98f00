//go:build audio

package player

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// SpeakerRate is the rate the system speaker is opened at.
const SpeakerRate beep.SampleRate = 44100

var (
	speakerOnce sync.Once
	speakerErr  error
)

type speakerOutput struct{}

// NewSpeakerOutput opens the system speaker once and returns it as an Output.
func NewSpeakerOutput() (Output, error) {
	speakerOnce.Do(func() {
		if err := speaker.Init(SpeakerRate, SpeakerRate.N(100*time.Millisecond)); err != nil {
			speakerErr = fmt.Errorf("%w: %v", ErrAudioUnavailable, err)
		}
	})
	if speakerErr != nil {
		return nil, speakerErr
	}
	return speakerOutput{}, nil
}

func (speakerOutput) SampleRate() beep.SampleRate { return SpeakerRate }
func (speakerOutput) Play(s beep.Streamer)        { speaker.Play(s) }
func (speakerOutput) Lock()                       { speaker.Lock() }
func (speakerOutput) Unlock()                     { speaker.Unlock() }
