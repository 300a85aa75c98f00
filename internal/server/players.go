package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"

	"github.com/phenix/musicbox/internal/log"
	"github.com/phenix/musicbox/internal/player"
)

// Loading scans the whole file, so it gets a tighter per-client budget.
const (
	loadRequestLimit = 30
	loadWindow       = time.Minute
)

type playerStatus struct {
	ID         string  `json:"id"`
	State      string  `json:"state"`
	Loaded     bool    `json:"loaded"`
	Seekable   bool    `json:"seekable"`
	Volume     float32 `json:"volume"`
	DurationMs int64   `json:"durationMs"`
	ElapsedMs  int64   `json:"elapsedMs"`
}

func statusOf(id string, p *player.Player) playerStatus {
	st := p.Status()
	return playerStatus{
		ID:         id,
		State:      st.State.String(),
		Loaded:     st.Loaded,
		Seekable:   st.Seekable,
		Volume:     st.Volume,
		DurationMs: st.Duration.Milliseconds(),
		ElapsedMs:  st.Elapsed.Milliseconds(),
	}
}

type loadRequest struct {
	Path string `json:"path"`
}

type volumeRequest struct {
	Volume *float32 `json:"volume"`
}

type seekRequest struct {
	PositionMs *int64 `json:"positionMs"`
}

func (s *Server) playerRoutes(r chi.Router) {
	r.Get("/", s.handleListPlayers)
	r.Route("/{id}", func(r chi.Router) {
		r.Put("/", s.handleCreatePlayer)
		r.Get("/", s.withPlayer(s.handleGetPlayer))
		r.Delete("/", s.handleDeletePlayer)
		r.With(httprate.Limit(loadRequestLimit, loadWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Retry-After", strconv.Itoa(int(loadWindow.Seconds())))
				writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate_limit_exceeded"})
			}),
		)).Post("/load", s.withPlayer(s.handleLoad))
		r.Post("/play", s.withPlayer(s.command("play", (*player.Player).Play)))
		r.Post("/pause", s.withPlayer(s.command("pause", (*player.Player).Pause)))
		r.Post("/stop", s.withPlayer(s.command("stop", func(p *player.Player) error {
			p.Stop()
			return nil
		})))
		r.Put("/volume", s.withPlayer(s.handleVolume))
		r.Post("/seek", s.withPlayer(s.handleSeek))
	})
}

type playerHandler func(w http.ResponseWriter, r *http.Request, id string, p *player.Player)

func (s *Server) withPlayer(next playerHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		p, ok := s.players.Get(id)
		if !ok {
			s.writePlayerError(w, r, fmt.Errorf("%w: %s", player.ErrPlayerNotFound, id))
			return
		}
		next(w, r, id, p)
	}
}

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	entries := s.players.List()
	out := make([]playerStatus, 0, len(entries))
	for _, e := range entries {
		out = append(out, statusOf(e.ID, e.Player))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := s.players.Create(id)
	if err != nil {
		s.writePlayerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, statusOf(id, p))
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request, id string, p *player.Player) {
	writeJSON(w, http.StatusOK, statusOf(id, p))
}

func (s *Server) handleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.players.Remove(id) {
		s.writePlayerError(w, r, fmt.Errorf("%w: %s", player.ErrPlayerNotFound, id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleLoad opens a file below the media directory; paths escaping it fail to open.
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request, id string, p *player.Player) {
	var req loadRequest
	if err := decodeBody(w, r, &req); err != nil || req.Path == "" {
		s.writeBadRequest(w, r, "body must be {\"path\": \"<file below the media directory>\"}")
		return
	}

	f, err := os.OpenInRoot(s.cfg.MediaDir, req.Path)
	if err != nil {
		s.metrics.playerCommands.WithLabelValues("load", "error").Inc()
		s.writePlayerError(w, r, fmt.Errorf("%w: %v", player.ErrOpenFile, err))
		return
	}
	if err := p.LoadFile(r.Context(), f); err != nil {
		s.metrics.playerCommands.WithLabelValues("load", "error").Inc()
		s.writePlayerError(w, r, err)
		return
	}
	s.metrics.playerCommands.WithLabelValues("load", "ok").Inc()
	writeJSON(w, http.StatusOK, statusOf(id, p))
}

func (s *Server) command(action string, fn func(*player.Player) error) playerHandler {
	return func(w http.ResponseWriter, r *http.Request, id string, p *player.Player) {
		if err := fn(p); err != nil {
			s.metrics.playerCommands.WithLabelValues(action, "error").Inc()
			s.writePlayerError(w, r, err)
			return
		}
		s.metrics.playerCommands.WithLabelValues(action, "ok").Inc()
		writeJSON(w, http.StatusOK, statusOf(id, p))
	}
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request, id string, p *player.Player) {
	var req volumeRequest
	if err := decodeBody(w, r, &req); err != nil || req.Volume == nil {
		s.writeBadRequest(w, r, "body must be {\"volume\": <number>}")
		return
	}
	s.command("volume", func(p *player.Player) error {
		p.SetVolume(*req.Volume)
		return nil
	})(w, r, id, p)
}

func (s *Server) handleSeek(w http.ResponseWriter, r *http.Request, id string, p *player.Player) {
	var req seekRequest
	if err := decodeBody(w, r, &req); err != nil || req.PositionMs == nil {
		s.writeBadRequest(w, r, "body must be {\"positionMs\": <integer>}")
		return
	}
	pos := time.Duration(*req.PositionMs) * time.Millisecond
	s.command("seek", func(p *player.Player) error {
		return p.Seek(pos)
	})(w, r, id, p)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeBadRequest(w http.ResponseWriter, r *http.Request, detail string) {
	s.logger.Debug().
		Str(log.FieldRequestID, middleware.GetReqID(r.Context())).
		Str(log.FieldPath, r.URL.Path).
		Msg("malformed player request")
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_request", "detail": detail})
}

// writePlayerError maps player errors onto HTTP statuses.
func (s *Server) writePlayerError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, player.ErrPlayerNotFound), errors.Is(err, player.ErrOpenFile):
		code = http.StatusNotFound
	case errors.Is(err, player.ErrInvalidID):
		code = http.StatusBadRequest
	case errors.Is(err, player.ErrPlayerExists),
		errors.Is(err, player.ErrNoFile),
		errors.Is(err, player.ErrNoSeekIndex):
		code = http.StatusConflict
	case errors.Is(err, player.ErrDecode):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, player.ErrAudioUnavailable):
		code = http.StatusServiceUnavailable
	}

	ev := s.logger.Warn()
	if code == http.StatusInternalServerError {
		ev = s.logger.Error()
	}
	ev.Err(err).
		Str(log.FieldRequestID, middleware.GetReqID(r.Context())).
		Str(log.FieldPlayerID, chi.URLParam(r, "id")).
		Int(log.FieldStatus, code).
		Msg("player request failed")

	writeJSON(w, code, map[string]string{"error": err.Error()})
}
