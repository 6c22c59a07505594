package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/tilda/internal/agenda"
	"github.com/teemow/tilda/internal/calendar"
	"github.com/teemow/tilda/internal/config"
	"github.com/teemow/tilda/internal/google"
	"github.com/teemow/tilda/internal/instrumentation"
	"github.com/teemow/tilda/internal/logging"
)

// persistentFlagKeys maps config keys to the flags every command inherits.
var persistentFlagKeys = map[string]string{
	"timezone":   "timezone",
	"log.level":  "log-level",
	"log.format": "log-format",
}

// loadConfig reads the configuration, letting explicitly set flags win
// over the config file and TILDA_* environment variables.
func loadConfig(cmd *cobra.Command, flagKeys map[string]string) (*config.Config, error) {
	v := config.New(configFile)

	keys := make(map[string]string, len(persistentFlagKeys)+len(flagKeys))
	for k, f := range persistentFlagKeys {
		keys[k] = f
	}
	for k, f := range flagKeys {
		keys[k] = f
	}

	if err := config.BindFlags(v, cmd.Flags(), keys); err != nil {
		return nil, err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger on stderr, leaving stdout to the
// stdio transport, and installs it as the slog default.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	slog.SetDefault(logger)
	return logger, nil
}

// newAgendaService wires the Google Calendar client into the calendar
// operations. metrics may be nil.
func newAgendaService(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *instrumentation.Metrics) (*agenda.Service, error) {
	client, err := calendar.NewClient(ctx,
		google.ClientOptions{
			CredentialsFile: cfg.Google.CredentialsFile,
			TokenFile:       cfg.Google.TokenFile,
			Timeout:         cfg.Google.RequestTimeout,
		},
		calendar.WithRateLimit(cfg.Google.RequestsPerSecond, cfg.Google.Burst),
		calendar.WithMetrics(metrics),
		calendar.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar client: %w", err)
	}

	return agenda.NewService(client, agenda.Options{
		Location:        cfg.Location(),
		DefaultCalendar: cfg.Calendar.DefaultName,
		ScanLimit:       cfg.Calendar.ScanLimit,
		CacheTTL:        cfg.Calendar.DirectoryCacheTTL,
		CacheSize:       cfg.Calendar.DirectoryCacheSize,
		Logger:          logging.NewSlogAdapter(logger),
		Metrics:         metrics,
	}), nil
}
