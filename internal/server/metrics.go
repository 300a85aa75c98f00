package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/phenix/musicbox/internal/player"
)

type metrics struct {
	pageRenders        prometheus.Counter
	pageRenderErrors   prometheus.Counter
	assetMisses        *prometheus.CounterVec
	httpRequestLatency *prometheus.HistogramVec
	playerCommands     *prometheus.CounterVec
}

func newMetrics(reg *prometheus.Registry, players *player.Registry) *metrics {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "musicbox_players",
		Help: "Players currently registered",
	}, func() float64 { return float64(players.Len()) })

	return &metrics{
		pageRenders: factory.NewCounter(prometheus.CounterOpts{
			Name: "musicbox_page_renders_total",
			Help: "Page shells served with a pre-rendered view",
		}),
		pageRenderErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "musicbox_page_render_errors_total",
			Help: "Page shells that failed to render",
		}),
		assetMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "musicbox_asset_misses_total",
			Help: "Requests for build assets missing from the asset directory",
		}, []string{"asset"}),
		httpRequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "musicbox_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		playerCommands: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "musicbox_player_commands_total",
			Help: "Player commands handled, by action and result",
		}, []string{"action", "result"}),
	}
}

// middleware records request latency keyed by the matched chi route pattern.
func (m *metrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequestLatency.
			WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
