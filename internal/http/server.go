// Package http serves health and Prometheus metrics endpoints for spotpick.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"spotpick/internal/core"
)

const serviceName = "spotpick"

type Server struct {
	config   *core.ServerConfig
	logger   *zap.Logger
	server   *http.Server
	registry *prometheus.Registry
	metrics  *Metrics
}

// Metrics implements core.MetricsRecorder on a private registry.
type Metrics struct {
	SearchesTotal        *prometheus.CounterVec
	SearchDuration       prometheus.Histogram
	DispatchTotal        *prometheus.CounterVec
	CommandFailuresTotal *prometheus.CounterVec
}

var _ core.MetricsRecorder = (*Metrics)(nil)

// NewMetrics creates the metric set and registers it on registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spotpick_searches_total",
				Help: "Total number of catalog searches",
			},
			[]string{"status"},
		),
		SearchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "spotpick_search_duration_seconds",
				Help:    "Time spent waiting for catalog searches",
				Buckets: prometheus.DefBuckets,
			},
		),
		DispatchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spotpick_playback_dispatch_total",
				Help: "Total number of playback requests by platform",
			},
			[]string{"platform", "status"},
		),
		CommandFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spotpick_command_failures_total",
				Help: "Total number of failed best-effort playback commands",
			},
			[]string{"platform"},
		),
	}

	registry.MustRegister(
		metrics.SearchesTotal,
		metrics.SearchDuration,
		metrics.DispatchTotal,
		metrics.CommandFailuresTotal,
	)

	return metrics
}

func (m *Metrics) RecordSearch(status string, duration time.Duration) {
	m.SearchesTotal.WithLabelValues(status).Inc()
	m.SearchDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordDispatch(platform, status string) {
	m.DispatchTotal.WithLabelValues(platform, status).Inc()
}

func (m *Metrics) RecordCommandFailure(platform string) {
	m.CommandFailuresTotal.WithLabelValues(platform).Inc()
}

func NewServer(config *core.ServerConfig, logger *zap.Logger) *Server {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	return &Server{
		config:   config,
		logger:   logger,
		server:   createHTTPServer(config, setupRoutes(registry, logger)),
		registry: registry,
		metrics:  metrics,
	}
}

func createHTTPServer(config *core.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
}

func setupRoutes(registry *prometheus.Registry, logger *zap.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", statusHandler("ok", logger))
	mux.HandleFunc("/readyz", statusHandler("ready", logger))
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	mux.HandleFunc("/", homeHandler(logger))
	return mux
}

func statusHandler(status string, logger *zap.Logger) http.HandlerFunc {
	body := fmt.Sprintf(`{"status":%q,"service":%q}`, status, serviceName)
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(body)); err != nil {
			logger.Debug("Failed to write status response", zap.Error(err))
		}
	}
}

func homeHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>spotpick</title>
</head>
<body>
    <h1>spotpick</h1>
    <p>Catalog search and local playback dispatch</p>
    <ul>
        <li><a href="/metrics">Metrics</a></li>
        <li><a href="/healthz">Health</a></li>
        <li><a href="/readyz">Ready</a></li>
    </ul>
</body>
</html>`)); err != nil {
			logger.Debug("Failed to write home page", zap.Error(err))
		}
	}
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.server.Addr))

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shutdown HTTP server gracefully", zap.Error(err))
		}
	}()

	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Metrics returns the recorder backed by this server's registry.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}
