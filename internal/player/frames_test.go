package player

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// MPEG-1 Layer III, 128 kbit/s, 44.1 kHz, stereo, no CRC, no padding.
var frameHeader = []byte{0xFF, 0xFB, 0x90, 0x00}

const (
	frameSize = 417 // 144 * 128000 / 44100
	// 1152 samples at 44.1 kHz, truncated the way the decoder computes it.
	frameDurationApprox = 26122448 * time.Nanosecond
)

// mp3Frames returns n silent frames.
func mp3Frames(n int) []byte {
	frame := make([]byte, frameSize)
	copy(frame, frameHeader)
	return bytes.Repeat(frame, n)
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func openTemp(t *testing.T, name string, data []byte) *os.File {
	t.Helper()
	f, err := os.Open(writeTemp(t, name, data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}
