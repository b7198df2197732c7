// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	// FormatText renders human-readable key=value lines.
	FormatText = "text"
	// FormatJSON renders one JSON object per line.
	FormatJSON = "json"
)

// Config selects the logger level and output format.
type Config struct {
	Level  string
	Format string
	// Service is attached as a field to every entry when set.
	Service string
}

// Configure applies cfg to the standard logrus logger and returns the entry
// callers should log through.
func Configure(cfg Config, out io.Writer) (*log.Entry, error) {
	logger := log.StandardLogger()
	if err := apply(logger, cfg, out); err != nil {
		return nil, err
	}
	return entry(logger, cfg.Service), nil
}

// New builds an isolated logger, used where tests need to capture output.
func New(cfg Config, out io.Writer) (*log.Entry, error) {
	logger := log.New()
	if err := apply(logger, cfg, out); err != nil {
		return nil, err
	}
	return entry(logger, cfg.Service), nil
}

func apply(logger *log.Logger, cfg Config, out io.Writer) error {
	if out == nil {
		out = os.Stderr
	}
	logger.SetOutput(out)

	level := strings.TrimSpace(cfg.Level)
	if level == "" {
		level = log.InfoLevel.String()
	}
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	logger.SetLevel(parsed)

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", FormatText:
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case FormatJSON:
		logger.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("unsupported log format %q", cfg.Format)
	}
	return nil
}

func entry(logger *log.Logger, service string) *log.Entry {
	service = strings.TrimSpace(service)
	if service == "" {
		return log.NewEntry(logger)
	}
	return logger.WithField("service", service)
}
