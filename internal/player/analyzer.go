package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tcolgate/mp3"
)

// ctxCheckEvery is how many frames are scanned between context checks.
const ctxCheckEvery = 256

// Analysis is the result of scanning an MP3 stream frame by frame.
type Analysis struct {
	Duration time.Duration
	Frames   int
	Index    SeekIndex // nil unless requested
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Analyze walks every frame in r, summing frame durations. With withIndex it
// also records where each frame starts. A truncated final frame ends the scan.
// A stream without a single frame yields ErrDuration.
func Analyze(ctx context.Context, r io.Reader, withIndex bool) (Analysis, error) {
	cr := &countingReader{r: r}
	dec := mp3.NewDecoder(cr)

	var (
		res     Analysis
		frame   mp3.Frame
		skipped int
	)
	for {
		if res.Frames%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return Analysis{}, err
			}
		}

		start := cr.n
		err := dec.Decode(&frame, &skipped)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return Analysis{}, fmt.Errorf("%w: frame %d: %v", ErrDuration, res.Frames, err)
		}

		if withIndex {
			res.Index = append(res.Index, SeekPoint{
				Time:   res.Duration,
				Offset: start + int64(skipped),
			})
		}
		res.Duration += frame.Duration()
		res.Frames++
	}

	if res.Frames == 0 {
		return Analysis{}, fmt.Errorf("%w: no mp3 frames found", ErrDuration)
	}
	return res, nil
}
