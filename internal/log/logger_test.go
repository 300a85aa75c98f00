package log

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	reset()
	Configure(Config{Level: level, Output: &buf, Service: "musicbox-test"})
	t.Cleanup(reset)
	return &buf
}

// reset lets the next Configure take effect.
func reset() {
	mu.Lock()
	configured = false
	mu.Unlock()
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal(line, &m))
		out = append(out, m)
	}
	return out
}

func TestWithComponent_AnnotatesEntries(t *testing.T) {
	buf := captureLogs(t, "info")

	l := WithComponent("view")
	l.Info().Int(FieldCount, 3).Msg("rendered")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "view", lines[0][FieldComponent])
	assert.Equal(t, "musicbox-test", lines[0][FieldService])
	assert.EqualValues(t, 3, lines[0][FieldCount])
	assert.Equal(t, "rendered", lines[0]["message"])
}

func TestConfigure_LevelFiltersDebug(t *testing.T) {
	buf := captureLogs(t, "warn")

	l := WithComponent("view")
	l.Debug().Msg("hidden")
	l.Info().Msg("hidden too")
	l.Warn().Msg("shown")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["message"])
}

func TestConfigure_FirstCallWins(t *testing.T) {
	buf := captureLogs(t, "info")

	var other bytes.Buffer
	Configure(Config{Level: "debug", Output: &other})

	l := WithComponent("view")
	l.Debug().Msg("still filtered")
	l.Info().Msg("kept")

	assert.Zero(t, other.Len(), "second Configure must not replace the writer")
	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "kept", lines[0]["message"])
}

func TestConfigure_ConcurrentWithLoggers(t *testing.T) {
	reset()
	t.Cleanup(reset)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			Configure(Config{Output: io.Discard})
		}()
		go func() {
			defer wg.Done()
			l := WithComponent("race")
			l.Debug().Msg("x")
		}()
	}
	wg.Wait()
}

func TestSetLevel(t *testing.T) {
	buf := captureLogs(t, "info")

	require.NoError(t, SetLevel("warn"))
	t.Cleanup(func() { _ = SetLevel("info") })

	l := WithComponent("view")
	l.Info().Msg("dropped")
	l.Warn().Msg("kept")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "kept", lines[0]["message"])

	assert.Error(t, SetLevel("loud"))
}

func TestMiddleware_LogsRequest(t *testing.T) {
	buf := captureLogs(t, "info")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(Middleware())
	r.Get("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "http", lines[0][FieldComponent])
	assert.Equal(t, "/missing", lines[0][FieldPath])
	assert.EqualValues(t, http.StatusNotFound, lines[0][FieldStatus])
	assert.NotEmpty(t, lines[0][FieldRequestID])
}
