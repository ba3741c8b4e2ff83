package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// config is read from the environment; flags override it.
type config struct {
	LogLevel    string `env:"DOCURGENT_LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"DOCURGENT_LOG_FORMAT" envDefault:"text"`
	EventBuffer int    `env:"DOCURGENT_EVENT_BUFFER" envDefault:"100"`
}

func loadConfig() (config, error) {
	var c config
	if err := env.Parse(&c); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

// newLogger builds the operator logger. verbose forces debug level.
func (c config) newLogger(w io.Writer, verbose bool) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(c.LogFormat) {
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", c.LogFormat)
	}
}
