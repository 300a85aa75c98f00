// Package server hosts the music box during development: it serves the page
// shell with a server-side pre-render of the view, the WASM build assets, a
// JSON API over the audio players, health and metrics.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/phenix/musicbox/internal/app/components"
	"github.com/phenix/musicbox/internal/config"
	"github.com/phenix/musicbox/internal/log"
	"github.com/phenix/musicbox/internal/player"
	"github.com/phenix/musicbox/runtime"
	"github.com/phenix/musicbox/web"
)

const shutdownTimeout = 5 * time.Second

// Build assets served from the configured asset directory.
const (
	AssetWASM     = "main.wasm"
	AssetWASMExec = "wasm_exec.js"
)

type pageData struct {
	Title         string
	MountID       string // element id, without "#"
	MountGlobal   string
	MountSelector string
	Prerender     template.HTML
}

// Server is the development host.
type Server struct {
	cfg     config.Config
	logger  zerolog.Logger
	page    *template.Template
	static  fs.FS
	reg     *prometheus.Registry
	metrics *metrics
	players *player.Registry
	router  chi.Router
}

// New builds a Server from cfg. cfg is expected to be validated.
// players backs the player API; nil gives an empty registry of silent players.
func New(cfg config.Config, players *player.Registry) (*Server, error) {
	page, err := template.ParseFS(web.FS, "templates/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	if players == nil {
		players = player.NewRegistry(nil)
	}

	reg := prometheus.NewRegistry()
	s := &Server{
		cfg:     cfg,
		logger:  log.WithComponent("server"),
		page:    page,
		static:  static,
		reg:     reg,
		metrics: newMetrics(reg, players),
		players: players,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(s.metrics.middleware)
	r.Use(log.Middleware())

	r.Get("/", s.handlePage)
	r.Get("/"+AssetWASM, s.handleAsset(AssetWASM))
	r.Get("/"+AssetWASMExec, s.handleAsset(AssetWASMExec))
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(s.static))))
	r.Route("/api/players", s.playerRoutes)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	return r
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	return s.router
}

// RenderPage writes the page shell with a fresh view pre-rendered at its initial state.
func (s *Server) RenderPage(w io.Writer) error {
	prerender, err := runtime.RenderToString(&components.MusicBox{})
	if err != nil {
		return fmt.Errorf("prerender view: %w", err)
	}

	data := pageData{
		Title:         s.cfg.Title,
		MountID:       strings.TrimPrefix(s.cfg.MountID, "#"),
		MountGlobal:   runtime.MountGlobal,
		MountSelector: s.cfg.MountID,
		Prerender:     template.HTML(prerender), // #nosec G203 -- produced by x/net/html, escaped
	}
	if err := s.page.Execute(w, data); err != nil {
		return fmt.Errorf("execute page template: %w", err)
	}
	return nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.RenderPage(&buf); err != nil {
		s.metrics.pageRenderErrors.Inc()
		s.logger.Error().Err(err).Str(log.FieldRequestID, middleware.GetReqID(r.Context())).Msg("render page")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	s.metrics.pageRenders.Inc()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleAsset(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(s.cfg.AssetDir, name)
		if _, err := os.Stat(path); err != nil {
			s.metrics.assetMisses.WithLabelValues(name).Inc()
			s.logger.Warn().Err(err).Str(log.FieldPath, path).Msg("build asset missing")
			http.Error(w, name+" not built", http.StatusNotFound)
			return
		}
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, path)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info().Str("listen", s.cfg.Listen).Str("asset_dir", s.cfg.AssetDir).Msg("serving music box")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		s.players.Close()
		if err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.logger.Info().Msg("server stopped")
		return nil
	})
	return g.Wait()
}
