//go:build !audio

package player

// NewSpeakerOutput reports ErrAudioUnavailable; build with -tags audio for
// speaker output (needs cgo and ALSA on Linux).
func NewSpeakerOutput() (Output, error) {
	return nil, ErrAudioUnavailable
}
