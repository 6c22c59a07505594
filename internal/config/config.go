package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable override,
// e.g. TILDA_CALENDAR_DEFAULT_NAME.
const EnvPrefix = "TILDA"

// Config is the fully resolved runtime configuration.
type Config struct {
	// Timezone is the IANA zone used for day boundaries and new events.
	Timezone string

	Google    GoogleConfig
	Calendar  CalendarConfig
	Server    ServerConfig
	Metrics   MetricsConfig
	Telemetry TelemetryConfig
	Audit     AuditConfig
	Log       LogConfig
}

// GoogleConfig locates credential material and tunes the API client.
type GoogleConfig struct {
	CredentialsFile   string
	TokenFile         string
	RequestsPerSecond float64
	Burst             int
	RequestTimeout    time.Duration
}

// CalendarConfig tunes the calendar operations.
type CalendarConfig struct {
	// DefaultName is the calendar used when insert_events gets no calendar name.
	DefaultName string
	// ScanLimit caps events fetched per calendar during title scans.
	ScanLimit int64
	// DirectoryCacheTTL enables the calendar directory cache when > 0.
	DirectoryCacheTTL  time.Duration
	DirectoryCacheSize int
}

// ServerConfig selects the MCP transport.
type ServerConfig struct {
	Transport string
	HTTPAddr  string
	ReadOnly  bool
}

// MetricsConfig holds configuration for the metrics server.
type MetricsConfig struct {
	Enabled bool
	Addr    string
}

// TelemetryConfig selects the OpenTelemetry exporters.
type TelemetryConfig struct {
	Enabled           bool
	MetricsExporter   string
	TracingExporter   string
	OTLPEndpoint      string
	OTLPInsecure      bool
	TraceSamplingRate float64
	DetailedLabels    bool
	InstanceID        string
}

// AuditConfig controls the per tool call audit record.
type AuditConfig struct {
	Enabled          bool
	IncludeArguments bool
}

// LogConfig holds the slog level and format.
type LogConfig struct {
	Level  string
	Format string
}

// Transports
const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable-http"
)

// SetDefaults registers every key with its default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("timezone", "America/Los_Angeles")

	v.SetDefault("google.credentials_file", "credential.json")
	v.SetDefault("google.token_file", defaultTokenFile())
	v.SetDefault("google.requests_per_second", 5.0)
	v.SetDefault("google.burst", 10)
	v.SetDefault("google.request_timeout", 30*time.Second)

	v.SetDefault("calendar.default_name", "Tilda")
	v.SetDefault("calendar.scan_limit", 50)
	v.SetDefault("calendar.directory_cache_ttl", time.Duration(0))
	v.SetDefault("calendar.directory_cache_size", 128)

	v.SetDefault("server.transport", TransportStdio)
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("server.read_only", false)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.addr", ":9090")

	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("telemetry.metrics_exporter", "prometheus")
	v.SetDefault("telemetry.tracing_exporter", "none")
	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.otlp_insecure", false)
	v.SetDefault("telemetry.trace_sampling_rate", 0.1)
	v.SetDefault("telemetry.detailed_labels", false)
	v.SetDefault("telemetry.instance_id", "")

	v.SetDefault("audit.enabled", true)
	v.SetDefault("audit.include_arguments", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// New returns a viper instance wired for tilda: defaults, TILDA_* env
// overrides and the config search path. If configFile is non-empty it is
// used instead of the search path.
func New(configFile string) *viper.Viper {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("tilda")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "tilda"))
		}
		v.AddConfigPath("/etc/tilda/")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	return v
}

// BindFlags binds command line flags to config keys. Flags only override
// when explicitly set on the command line.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for key, flag := range keys {
		f := flags.Lookup(flag)
		if f == nil {
			return fmt.Errorf("unknown flag %q for config key %q", flag, key)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %q: %w", flag, err)
		}
	}
	return nil
}

// Load reads the config file (a missing file is not an error) and
// returns the validated configuration.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Timezone: v.GetString("timezone"),
		Google: GoogleConfig{
			CredentialsFile:   v.GetString("google.credentials_file"),
			TokenFile:         v.GetString("google.token_file"),
			RequestsPerSecond: v.GetFloat64("google.requests_per_second"),
			Burst:             v.GetInt("google.burst"),
			RequestTimeout:    v.GetDuration("google.request_timeout"),
		},
		Calendar: CalendarConfig{
			DefaultName:        v.GetString("calendar.default_name"),
			ScanLimit:          v.GetInt64("calendar.scan_limit"),
			DirectoryCacheTTL:  v.GetDuration("calendar.directory_cache_ttl"),
			DirectoryCacheSize: v.GetInt("calendar.directory_cache_size"),
		},
		Server: ServerConfig{
			Transport: v.GetString("server.transport"),
			HTTPAddr:  v.GetString("server.http_addr"),
			ReadOnly:  v.GetBool("server.read_only"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics.enabled"),
			Addr:    v.GetString("metrics.addr"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			MetricsExporter:   v.GetString("telemetry.metrics_exporter"),
			TracingExporter:   v.GetString("telemetry.tracing_exporter"),
			OTLPEndpoint:      v.GetString("telemetry.otlp_endpoint"),
			OTLPInsecure:      v.GetBool("telemetry.otlp_insecure"),
			TraceSamplingRate: v.GetFloat64("telemetry.trace_sampling_rate"),
			DetailedLabels:    v.GetBool("telemetry.detailed_labels"),
			InstanceID:        v.GetString("telemetry.instance_id"),
		},
		Audit: AuditConfig{
			Enabled:          v.GetBool("audit.enabled"),
			IncludeArguments: v.GetBool("audit.include_arguments"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the operations cannot run with.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	if strings.TrimSpace(c.Calendar.DefaultName) == "" {
		return fmt.Errorf("calendar.default_name must not be empty")
	}
	if c.Calendar.ScanLimit <= 0 {
		return fmt.Errorf("calendar.scan_limit must be positive, got %d", c.Calendar.ScanLimit)
	}
	if c.Calendar.DirectoryCacheTTL < 0 {
		return fmt.Errorf("calendar.directory_cache_ttl must not be negative")
	}
	if c.Calendar.DirectoryCacheTTL > 0 && c.Calendar.DirectoryCacheSize <= 0 {
		return fmt.Errorf("calendar.directory_cache_size must be positive when the cache is enabled")
	}
	if c.Google.RequestsPerSecond < 0 {
		return fmt.Errorf("google.requests_per_second must not be negative")
	}
	if c.Google.RequestsPerSecond > 0 && c.Google.Burst <= 0 {
		return fmt.Errorf("google.burst must be positive when rate limiting is enabled")
	}
	switch c.Server.Transport {
	case TransportStdio, TransportStreamableHTTP:
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", c.Server.Transport)
	}
	return nil
}

// Location returns the configured timezone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func defaultTokenFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "token.json"
	}
	return filepath.Join(dir, "tilda", "token.json")
}
