// Package admin parses admin console flags and launches the console server.
package admin

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	entrypoint "github.com/louisbranch/cardapp/internal/platform/cmd"
	"github.com/louisbranch/cardapp/internal/platform/logging"
	"github.com/louisbranch/cardapp/internal/platform/otel"
	"github.com/louisbranch/cardapp/internal/services/admin"
)

// Config holds the admin command configuration.
type Config struct {
	HTTPAddr       string        `env:"CARDAPP_ADMIN_ADDR" envDefault:":3000"`
	BackendURL     string        `env:"CARDAPP_BACKEND_URL" envDefault:"http://localhost:8080"`
	APIBasePath    string        `env:"CARDAPP_API_BASE_PATH" envDefault:"/api/v1"`
	RequestTimeout time.Duration `env:"CARDAPP_REQUEST_TIMEOUT" envDefault:"10s"`
	DevProxy       bool          `env:"CARDAPP_DEV_PROXY" envDefault:"true"`
	DBPath         string        `env:"CARDAPP_ADMIN_DB_PATH" envDefault:"data/admin.db"`
	LogLevel       string        `env:"CARDAPP_LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"CARDAPP_LOG_FORMAT" envDefault:"text"`
	Telemetry      otel.Config
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.BackendURL, "backend-url", cfg.BackendURL, "card application backend origin")
	fs.StringVar(&cfg.APIBasePath, "api-base-path", cfg.APIBasePath, "REST base path on the backend")
	fs.DurationVar(&cfg.RequestTimeout, "request-timeout", cfg.RequestTimeout, "per-request backend timeout")
	fs.BoolVar(&cfg.DevProxy, "dev-proxy", cfg.DevProxy, "forward /api/ to the backend")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "preference store path (empty keeps preferences in memory)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the admin console server.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.Configure(logging.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: entrypoint.ServiceAdmin,
	}, os.Stderr)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceAdmin, entrypoint.RunOptions{Telemetry: cfg.Telemetry}, func(ctx context.Context) error {
		server, err := admin.NewServer(ctx, admin.Config{
			HTTPAddr:       cfg.HTTPAddr,
			BackendURL:     cfg.BackendURL,
			APIBasePath:    cfg.APIBasePath,
			RequestTimeout: cfg.RequestTimeout,
			DevProxy:       cfg.DevProxy,
			DBPath:         cfg.DBPath,
			Logger:         logger,
		})
		if err != nil {
			return fmt.Errorf("init admin server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve admin: %w", err)
		}
		return nil
	})
}
