package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenix/musicbox/internal/config"
	"github.com/phenix/musicbox/internal/player"
)

// silentMP3 returns n silent MPEG-1 Layer III frames (128 kbit/s, 44.1 kHz).
func silentMP3(n int) []byte {
	frame := make([]byte, 417)
	copy(frame, []byte{0xFF, 0xFB, 0x90, 0x00})
	return bytes.Repeat(frame, n)
}

func newPlayerServer(t *testing.T) (*Server, config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.AssetDir = t.TempDir()
	cfg.MediaDir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cfg.MediaDir, "song.mp3"), silentMP3(20), 0o600))

	srv, err := New(cfg, player.NewRegistry(nil))
	require.NoError(t, err)
	t.Cleanup(srv.players.Close)
	return srv, cfg
}

func call(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	h.ServeHTTP(rec, req)
	return rec
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) playerStatus {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var st playerStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st), rec.Body.String())
	return st
}

func TestPlayers_Lifecycle(t *testing.T) {
	srv, _ := newPlayerServer(t)
	h := srv.Handler()

	rec := call(t, h, http.MethodGet, "/api/players", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = call(t, h, http.MethodPut, "/api/players/main", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	st := decodeStatus(t, rec)
	assert.Equal(t, "main", st.ID)
	assert.Equal(t, "stopped", st.State)
	assert.False(t, st.Loaded)

	rec = call(t, h, http.MethodPut, "/api/players/main", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = call(t, h, http.MethodPost, "/api/players/main/play", "")
	assert.Equal(t, http.StatusConflict, rec.Code, "play without a file")

	rec = call(t, h, http.MethodPost, "/api/players/main/load", `{"path":"song.mp3"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	st = decodeStatus(t, rec)
	assert.Equal(t, "playing", st.State)
	assert.True(t, st.Loaded)
	assert.True(t, st.Seekable)
	assert.InDelta(t, 522, st.DurationMs, 1)

	rec = call(t, h, http.MethodPost, "/api/players/main/seek", `{"positionMs":100}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 78, decodeStatus(t, rec).ElapsedMs, "seek lands on the frame start at or before the position")

	rec = call(t, h, http.MethodPost, "/api/players/main/pause", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "paused", decodeStatus(t, rec).State)

	rec = call(t, h, http.MethodPut, "/api/players/main/volume", `{"volume":0.5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 0.5, decodeStatus(t, rec).Volume, 1e-6)

	rec = call(t, h, http.MethodGet, "/api/players", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []playerStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "paused", list[0].State)

	rec = call(t, h, http.MethodPost, "/api/players/main/stop", "")
	require.Equal(t, http.StatusOK, rec.Code)
	st = decodeStatus(t, rec)
	assert.Equal(t, "stopped", st.State)
	assert.False(t, st.Loaded)
	assert.Zero(t, st.DurationMs)

	rec = call(t, h, http.MethodDelete, "/api/players/main", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = call(t, h, http.MethodDelete, "/api/players/main", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.EqualValues(t, 1, testutil.ToFloat64(srv.metrics.playerCommands.WithLabelValues("pause", "ok")))
	assert.EqualValues(t, 1, testutil.ToFloat64(srv.metrics.playerCommands.WithLabelValues("play", "error")))
}

func TestPlayers_UnknownPlayer(t *testing.T) {
	srv, _ := newPlayerServer(t)

	for _, path := range []string{"/api/players/ghost", "/api/players/ghost/pause"} {
		method := http.MethodGet
		if strings.HasSuffix(path, "pause") {
			method = http.MethodPost
		}
		rec := call(t, srv.Handler(), method, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "player not found")
	}
}

func TestPlayers_LoadStaysInMediaDir(t *testing.T) {
	srv, cfg := newPlayerServer(t)
	h := srv.Handler()
	require.Equal(t, http.StatusCreated, call(t, h, http.MethodPut, "/api/players/main", "").Code)

	outside := filepath.Join(filepath.Dir(cfg.MediaDir), "outside.mp3")
	require.NoError(t, os.WriteFile(outside, silentMP3(2), 0o600))
	t.Cleanup(func() { _ = os.Remove(outside) })

	for _, body := range []string{
		`{"path":"../outside.mp3"}`,
		`{"path":"missing.mp3"}`,
	} {
		rec := call(t, h, http.MethodPost, "/api/players/main/load", body)
		assert.Equal(t, http.StatusNotFound, rec.Code, body)
	}

	p, ok := srv.players.Get("main")
	require.True(t, ok)
	assert.False(t, p.IsLoaded())
}

func TestPlayers_BadRequests(t *testing.T) {
	srv, _ := newPlayerServer(t)
	h := srv.Handler()
	require.Equal(t, http.StatusCreated, call(t, h, http.MethodPut, "/api/players/main", "").Code)

	cases := []struct {
		method, path, body string
	}{
		{http.MethodPost, "/api/players/main/load", `{}`},
		{http.MethodPost, "/api/players/main/load", `not json`},
		{http.MethodPut, "/api/players/main/volume", `{"level":1}`},
		{http.MethodPut, "/api/players/main/volume", `{}`},
		{http.MethodPost, "/api/players/main/seek", `{"positionMs":"soon"}`},
	}
	for _, tc := range cases {
		rec := call(t, h, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "%s %s", tc.path, tc.body)
	}

	// Seeking needs a loaded, indexed file.
	rec := call(t, h, http.MethodPost, "/api/players/main/seek", `{"positionMs":10}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPlayers_LoadRateLimited(t *testing.T) {
	srv, _ := newPlayerServer(t)
	h := srv.Handler()
	require.Equal(t, http.StatusCreated, call(t, h, http.MethodPut, "/api/players/main", "").Code)

	for i := 0; i < loadRequestLimit; i++ {
		rec := call(t, h, http.MethodPost, "/api/players/main/load", `{"path":"song.mp3"}`)
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}
	rec := call(t, h, http.MethodPost, "/api/players/main/load", `{"path":"song.mp3"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestPlayers_GaugeTracksRegistry(t *testing.T) {
	srv, _ := newPlayerServer(t)
	h := srv.Handler()

	call(t, h, http.MethodPut, "/api/players/a", "")
	call(t, h, http.MethodPut, "/api/players/b", "")

	body := call(t, h, http.MethodGet, "/metrics", "").Body.String()
	assert.Contains(t, body, "musicbox_players 2")
}
