package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/tilda/internal/logging"
)

// MCPEndpointPath is where the streamable-HTTP transport is mounted.
const MCPEndpointPath = "/mcp"

// HTTPServer serves the MCP streamable-HTTP transport and the health endpoints.
type HTTPServer struct {
	mcpServer     *mcpserver.MCPServer
	serverContext *ServerContext
	health        *HealthChecker

	mu         sync.Mutex
	httpServer *http.Server
	listenAddr string
}

// NewHTTPServer creates a streamable-HTTP server for mcpServer.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, sc *ServerContext, version string) *HTTPServer {
	return &HTTPServer{
		mcpServer:     mcpServer,
		serverContext: sc,
		health:        NewHealthChecker(sc, version),
	}
}

// Health returns the health checker backing /healthz and /readyz.
func (s *HTTPServer) Health() *HealthChecker {
	return s.health
}

// Handler builds the routing for the server.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	s.health.RegisterHealthEndpoints(mux)

	streamable := mcpserver.NewStreamableHTTPServer(s.mcpServer,
		mcpserver.WithEndpointPath(MCPEndpointPath),
	)
	mux.Handle(MCPEndpointPath, streamable)

	return s.metricsMiddleware(mux)
}

// Start listens on addr and serves until Shutdown.
func (s *HTTPServer) Start(addr string) error {
	return s.StartWithReadySignal(addr, nil)
}

// StartWithReadySignal is Start, closing ready once the listener is bound.
func (s *HTTPServer) StartWithReadySignal(addr string, ready chan<- struct{}) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := s.newHTTPServer(addr)

	s.mu.Lock()
	s.httpServer = srv
	s.listenAddr = ln.Addr().String()
	s.mu.Unlock()

	s.logger().Info("starting streamable HTTP server",
		"addr", ln.Addr().String(),
		"endpoint", MCPEndpointPath)
	if ready != nil {
		close(ready)
	}

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newHTTPServer leaves WriteTimeout unset: title scans may outlast any fixed
// value, and a response cut off after the change was applied would hide it.
// Each Google API request is bounded by google.request_timeout instead.
func (s *HTTPServer) newHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// ListenAddr returns the bound address once the server has started, or "".
func (s *HTTPServer) ListenAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listenAddr
}

// Shutdown marks the server not ready and drains in-flight requests.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv != nil {
		return srv.Shutdown(ctx)
	}
	return nil
}

func (s *HTTPServer) logger() *slog.Logger {
	if s.serverContext != nil {
		return s.serverContext.Logger()
	}
	return slog.Default()
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (s *HTTPServer) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		if s.serverContext == nil {
			return
		}
		s.serverContext.Metrics().RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, rec.status, time.Since(start))
		if rec.status >= http.StatusInternalServerError {
			s.serverContext.Logger().WarnContext(r.Context(), "http request failed",
				"method", r.Method,
				"path", r.URL.Path,
				logging.Status(http.StatusText(rec.status)))
		}
	})
}
