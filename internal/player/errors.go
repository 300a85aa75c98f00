package player

import "errors"

// Sentinel errors returned by Player and Registry. Callers match them with errors.Is.
var (
	ErrOpenFile         = errors.New("unable to open file")
	ErrNoFile           = errors.New("no file loaded")
	ErrNoSeekIndex      = errors.New("no seek index")
	ErrNotSeekable      = errors.New("not able to seek")
	ErrSeekIndex        = errors.New("unable to create seek index")
	ErrDuration         = errors.New("unable to get duration")
	ErrDecode           = errors.New("unable to decode audio")
	ErrAudioUnavailable = errors.New("audio output not built in")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrPlayerExists     = errors.New("player already exists")
	ErrInvalidID        = errors.New("invalid player id")
)
