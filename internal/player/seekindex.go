package player

import "time"

// SeekPoint marks the start of one audio frame.
type SeekPoint struct {
	Time   time.Duration // playback time at which the frame starts
	Offset int64         // byte offset of the frame header in the file
}

// SeekIndex lists frame starts in file order. Both Time and Offset are
// non-decreasing.
type SeekIndex []SeekPoint

// OffsetForTime returns the offset of the last frame starting at or before t,
// or 0 when t precedes the first frame.
func (idx SeekIndex) OffsetForTime(t time.Duration) int64 {
	var offset int64
	for _, p := range idx {
		if p.Time > t {
			break
		}
		offset = p.Offset
	}
	return offset
}

// TimeForOffset returns the start time of the last frame beginning at or
// before offset, or 0 when offset precedes the first frame.
func (idx SeekIndex) TimeForOffset(offset int64) time.Duration {
	var t time.Duration
	for _, p := range idx {
		if p.Offset > offset {
			break
		}
		t = p.Time
	}
	return t
}
