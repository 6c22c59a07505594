package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/tilda/internal/config"
	"github.com/teemow/tilda/internal/instrumentation"
	"github.com/teemow/tilda/internal/resources"
	"github.com/teemow/tilda/internal/server"
	"github.com/teemow/tilda/internal/tools/calendar_tools"
)

// serveFlagKeys maps config keys to serve flags.
var serveFlagKeys = map[string]string{
	"server.transport": "transport",
	"server.http_addr": "http-addr",
	"server.read_only": "read-only",
	"metrics.enabled":  "metrics",
	"metrics.addr":     "metrics-addr",
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the MCP server exposing the calendar operations as tools.

Supports two transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP on /mcp, with /healthz and /readyz

Credentials are read from google.credentials_file; run "tilda auth" once to
create the user token for an installed-app client.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, serveFlagKeys)
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().String("transport", config.TransportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().String("http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().Bool("read-only", false, "Only register the list tools")
	cmd.Flags().Bool("metrics", true, "Serve Prometheus metrics (streamable-http transport only)")
	cmd.Flags().String("metrics-addr", server.DefaultMetricsAddr, "Metrics server address")

	return cmd
}

func runServe(cfg *config.Config) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	transport := cfg.Server.Transport

	// Initialize instrumentation provider
	instrConfig := instrumentationConfig(cfg)

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Warn("error during instrumentation shutdown", "error", err)
		}
	}()

	// Start metrics server if enabled and not in stdio mode
	var metricsServer *server.MetricsServer
	if transport != config.TransportStdio && cfg.Metrics.Enabled && provider.HasPrometheusExporter() {
		metricsServer, err = startMetricsServer(cfg.Metrics.Addr, provider, logger)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Warn("error during metrics server shutdown", "error", err)
			}
		}()
	}

	var metrics *instrumentation.Metrics
	if provider.Enabled() {
		metrics = provider.Metrics()
	}

	svc, err := newAgendaService(shutdownCtx, cfg, logger, metrics)
	if err != nil {
		return err
	}

	serverContext := server.NewServerContext(shutdownCtx, svc,
		server.WithLogger(logger),
		server.WithMetrics(metrics),
		server.WithAuditLogger(instrumentation.NewAuditLogger(logger, instrConfig.AuditLogging)),
		server.WithReadOnly(cfg.Server.ReadOnly),
	)
	defer func() {
		_ = serverContext.Shutdown()
	}()

	mcpSrv, err := newMCPServer(serverContext)
	if err != nil {
		return err
	}

	logger.Info("starting tilda MCP server",
		"version", version,
		"transport", transport,
		"read_only", cfg.Server.ReadOnly,
		"timezone", svc.Location().String(),
		"default_calendar", svc.DefaultCalendar())

	switch transport {
	case config.TransportStdio:
		return runStdioServer(shutdownCtx, mcpSrv)
	case config.TransportStreamableHTTP:
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, cfg.Server.HTTPAddr)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", transport)
	}
}

// instrumentationConfig maps the telemetry and audit sections onto the
// OpenTelemetry provider settings.
func instrumentationConfig(cfg *config.Config) instrumentation.Config {
	c := instrumentation.DefaultConfig()
	c.ServiceVersion = version
	c.ServiceInstanceID = cfg.Telemetry.InstanceID
	c.Enabled = cfg.Telemetry.Enabled
	c.MetricsExporter = cfg.Telemetry.MetricsExporter
	c.TracingExporter = cfg.Telemetry.TracingExporter
	c.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	c.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	c.TraceSamplingRate = cfg.Telemetry.TraceSamplingRate
	c.DetailedLabels = cfg.Telemetry.DetailedLabels
	c.AuditLogging = instrumentation.AuditLoggingConfig{
		Enabled:          cfg.Audit.Enabled,
		IncludeArguments: cfg.Audit.IncludeArguments,
	}
	return c
}

func startMetricsServer(addr string, provider *instrumentation.Provider, logger *slog.Logger) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:     addr,
		Provider: provider,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	metricsReady := make(chan struct{})
	metricsErr := make(chan error, 1)
	go func() {
		if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && !errors.Is(err, http.ErrServerClosed) {
			metricsErr <- err
		}
		close(metricsErr)
	}()

	select {
	case <-metricsReady:
		logger.Info("metrics server started", "addr", metricsServer.ListenAddr())
		return metricsServer, nil
	case err := <-metricsErr:
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("metrics server startup timed out")
	}
}

// newMCPServer creates the MCP server with every tool and resource registered.
func newMCPServer(sc *server.ServerContext) (*mcpserver.MCPServer, error) {
	mcpSrv := mcpserver.NewMCPServer("tilda", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
	)

	if err := registerAll(mcpSrv, sc); err != nil {
		return nil, err
	}
	return mcpSrv, nil
}

// registerAll registers all MCP tools and resources
func registerAll(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext) error {
	type registration struct {
		name     string
		register func() error
	}

	registrations := []registration{
		{
			name: "Calendar tools",
			register: func() error {
				return calendar_tools.RegisterCalendarTools(mcpSrv, sc)
			},
		},
		{
			name: "Calendar resources",
			register: func() error {
				return resources.RegisterCalendarResources(mcpSrv, sc)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}

func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	select {
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
		return nil
	case <-ctx.Done():
		return nil
	}
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, addr string) error {
	httpServer := server.NewHTTPServer(mcpSrv, sc, version)

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(addr); err != nil {
			serverDone <- err
		}
	}()

	select {
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
		return nil
	case <-ctx.Done():
		sc.Logger().Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error during server shutdown: %w", err)
		}
		return nil
	}
}
