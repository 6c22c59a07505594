package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/teemow/tilda/internal/instrumentation"
)

const (
	// DefaultMetricsAddr is where /metrics listens unless configured.
	DefaultMetricsAddr = ":9090"

	// DefaultShutdownTimeout bounds graceful shutdown of both HTTP servers.
	DefaultShutdownTimeout = 30 * time.Second

	metricsReadHeaderTimeout = 10 * time.Second
	metricsWriteTimeout      = 10 * time.Second
	metricsIdleTimeout       = 60 * time.Second
)

// MetricsServerConfig configures NewMetricsServer.
type MetricsServerConfig struct {
	// Addr defaults to DefaultMetricsAddr.
	Addr string

	// Provider must be enabled and export to Prometheus.
	Provider *instrumentation.Provider

	Logger *slog.Logger
}

// MetricsServer serves the global Prometheus registry on its own listener,
// apart from the MCP transport.
type MetricsServer struct {
	addr   string
	logger *slog.Logger

	mu         sync.Mutex
	httpServer *http.Server
	listenAddr string
}

// NewMetricsServer checks that there is something to scrape.
func NewMetricsServer(config MetricsServerConfig) (*MetricsServer, error) {
	switch {
	case config.Provider == nil:
		return nil, fmt.Errorf("instrumentation provider is required for metrics server")
	case !config.Provider.Enabled():
		return nil, fmt.Errorf("instrumentation provider is not enabled")
	case !config.Provider.HasPrometheusExporter():
		return nil, fmt.Errorf("metrics server requires the prometheus exporter")
	}

	s := &MetricsServer{addr: config.Addr, logger: config.Logger}
	if s.addr == "" {
		s.addr = DefaultMetricsAddr
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Start blocks serving /metrics until Shutdown.
func (s *MetricsServer) Start() error {
	return s.StartWithReadySignal(nil)
}

// StartWithReadySignal is Start, closing ready once the listener is bound.
func (s *MetricsServer) StartWithReadySignal(ready chan<- struct{}) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(probeOK))
	})

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
		WriteTimeout:      metricsWriteTimeout,
		IdleTimeout:       metricsIdleTimeout,
	}

	s.mu.Lock()
	s.httpServer = srv
	s.listenAddr = ln.Addr().String()
	s.mu.Unlock()

	s.logger.Info("starting metrics server", "addr", ln.Addr().String())
	if ready != nil {
		close(ready)
	}
	return srv.Serve(ln)
}

// Shutdown stops a started server; it is a no-op otherwise.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	s.logger.Info("shutting down metrics server")
	return srv.Shutdown(ctx)
}

// Addr returns the configured address.
func (s *MetricsServer) Addr() string {
	return s.addr
}

// ListenAddr returns the bound address once the server has started, or "".
func (s *MetricsServer) ListenAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listenAddr
}
