package cmd

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/tilda/internal/config"
	"github.com/teemow/tilda/internal/server"
)

func toolNames(t *testing.T, readOnly bool) []string {
	t.Helper()
	sc := server.NewServerContext(context.Background(), nil, server.WithReadOnly(readOnly))
	t.Cleanup(func() { _ = sc.Shutdown() })

	mcpSrv, err := newMCPServer(sc)
	require.NoError(t, err)

	names := make([]string, 0)
	for name := range mcpSrv.ListTools() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func TestNewMCPServer(t *testing.T) {
	assert.Equal(t, []string{
		"create_calendar",
		"delete_event_by_title",
		"insert_events",
		"list_calendars",
		"list_events_on_day",
		"update_event",
	}, toolNames(t, false))
}

func TestNewMCPServer_ReadOnly(t *testing.T) {
	assert.Equal(t, []string{"list_calendars", "list_events_on_day"}, toolNames(t, true))
}

func TestLoadConfig_Flags(t *testing.T) {
	cmd := newServeCmd()
	addPersistentFlags(cmd.Flags())
	require.NoError(t, cmd.ParseFlags([]string{
		"--transport", "streamable-http",
		"--http-addr", "127.0.0.1:9999",
		"--read-only",
		"--timezone", "Europe/Berlin",
		"--log-format", "json",
	}))

	cfg, err := loadConfig(cmd, serveFlagKeys)
	require.NoError(t, err)

	assert.Equal(t, config.TransportStreamableHTTP, cfg.Server.Transport)
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.HTTPAddr)
	assert.True(t, cfg.Server.ReadOnly)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.Equal(t, "json", cfg.Log.Format)

	// Unset flags keep the defaults.
	assert.Equal(t, "Tilda", cfg.Calendar.DefaultName)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
}

func TestLoadConfig_InvalidTransport(t *testing.T) {
	cmd := newServeCmd()
	addPersistentFlags(cmd.Flags())
	require.NoError(t, cmd.ParseFlags([]string{"--transport", "carrier-pigeon"}))

	_, err := loadConfig(cmd, serveFlagKeys)
	assert.ErrorContains(t, err, "unsupported transport type")
}

func TestInstrumentationConfig(t *testing.T) {
	cfg := &config.Config{
		Telemetry: config.TelemetryConfig{
			Enabled:           true,
			MetricsExporter:   "prometheus",
			TracingExporter:   "otlp",
			OTLPEndpoint:      "collector:4318",
			TraceSamplingRate: 0.5,
			InstanceID:        "tilda-0",
		},
		Audit: config.AuditConfig{Enabled: true, IncludeArguments: true},
	}

	c := instrumentationConfig(cfg)
	assert.Equal(t, "tilda", c.ServiceName)
	assert.Equal(t, version, c.ServiceVersion)
	assert.Equal(t, "tilda-0", c.ServiceInstanceID)
	assert.Equal(t, "otlp", c.TracingExporter)
	assert.Equal(t, "collector:4318", c.OTLPEndpoint)
	assert.Equal(t, 0.5, c.TraceSamplingRate)
	assert.True(t, c.AuditLogging.IncludeArguments)
	assert.NoError(t, c.Validate())
}
