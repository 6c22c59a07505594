package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIsolated(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tilda.yaml")
	return path
}

func TestLoad_Defaults(t *testing.T) {
	// Point at a file that does not exist so no ambient config is picked up.
	v := New(newIsolated(t))

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "America/Los_Angeles", cfg.Timezone)
	assert.Equal(t, "Tilda", cfg.Calendar.DefaultName)
	assert.Equal(t, int64(50), cfg.Calendar.ScanLimit)
	assert.Equal(t, time.Duration(0), cfg.Calendar.DirectoryCacheTTL)
	assert.Equal(t, 128, cfg.Calendar.DirectoryCacheSize)
	assert.Equal(t, 5.0, cfg.Google.RequestsPerSecond)
	assert.Equal(t, 10, cfg.Google.Burst)
	assert.Equal(t, 30*time.Second, cfg.Google.RequestTimeout)
	assert.Equal(t, TransportStdio, cfg.Server.Transport)
	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.False(t, cfg.Server.ReadOnly)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "prometheus", cfg.Telemetry.MetricsExporter)
	assert.Equal(t, "none", cfg.Telemetry.TracingExporter)
	assert.Equal(t, 0.1, cfg.Telemetry.TraceSamplingRate)
	assert.True(t, cfg.Audit.Enabled)
	assert.False(t, cfg.Audit.IncludeArguments)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_File(t *testing.T) {
	path := newIsolated(t)
	content := `
timezone: Europe/Berlin
calendar:
  default_name: Assistant
  scan_limit: 20
  directory_cache_ttl: 1m
server:
  transport: streamable-http
  read_only: true
log:
  level: debug
  format: json
telemetry:
  tracing_exporter: otlp
  otlp_endpoint: collector:4318
audit:
  include_arguments: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(New(path))
	require.NoError(t, err)

	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.Equal(t, "Assistant", cfg.Calendar.DefaultName)
	assert.Equal(t, int64(20), cfg.Calendar.ScanLimit)
	assert.Equal(t, time.Minute, cfg.Calendar.DirectoryCacheTTL)
	assert.Equal(t, TransportStreamableHTTP, cfg.Server.Transport)
	assert.True(t, cfg.Server.ReadOnly)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "otlp", cfg.Telemetry.TracingExporter)
	assert.Equal(t, "collector:4318", cfg.Telemetry.OTLPEndpoint)
	assert.True(t, cfg.Audit.IncludeArguments)
	assert.Equal(t, "Europe/Berlin", cfg.Location().String())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TILDA_CALENDAR_DEFAULT_NAME", "FromEnv")
	t.Setenv("TILDA_TIMEZONE", "UTC")
	t.Setenv("TILDA_TELEMETRY_ENABLED", "false")

	cfg, err := Load(New(newIsolated(t)))
	require.NoError(t, err)

	assert.Equal(t, "FromEnv", cfg.Calendar.DefaultName)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := newIsolated(t)
	require.NoError(t, os.WriteFile(path, []byte("calendar: [unterminated"), 0o600))

	_, err := Load(New(path))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestBindFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("timezone", "", "")
	flags.Bool("read-only", false, "")
	require.NoError(t, flags.Parse([]string{"--timezone=Asia/Tokyo", "--read-only"}))

	v := New(newIsolated(t))
	require.NoError(t, BindFlags(v, flags, map[string]string{
		"timezone":         "timezone",
		"server.read_only": "read-only",
	}))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", cfg.Timezone)
	assert.True(t, cfg.Server.ReadOnly)
}

func TestBindFlags_UnknownFlag(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	err := BindFlags(New(""), flags, map[string]string{"timezone": "tz"})
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Timezone: "UTC",
			Google:   GoogleConfig{RequestsPerSecond: 5, Burst: 10},
			Calendar: CalendarConfig{DefaultName: "Tilda", ScanLimit: 50, DirectoryCacheSize: 128},
			Server:   ServerConfig{Transport: TransportStdio},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, true},
		{"empty default calendar", func(c *Config) { c.Calendar.DefaultName = "  " }, true},
		{"zero scan limit", func(c *Config) { c.Calendar.ScanLimit = 0 }, true},
		{"negative cache ttl", func(c *Config) { c.Calendar.DirectoryCacheTTL = -time.Second }, true},
		{"cache without size", func(c *Config) {
			c.Calendar.DirectoryCacheTTL = time.Minute
			c.Calendar.DirectoryCacheSize = 0
		}, true},
		{"rate without burst", func(c *Config) { c.Google.Burst = 0 }, true},
		{"rate limiting disabled", func(c *Config) {
			c.Google.RequestsPerSecond = 0
			c.Google.Burst = 0
		}, false},
		{"unknown transport", func(c *Config) { c.Server.Transport = "sse" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
