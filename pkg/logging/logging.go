// Package logging builds the zerolog logger shared by the command line and
// the HTTP service.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Gianuzzi/DeepSpyce/pkg/config"
	"github.com/Gianuzzi/DeepSpyce/pkg/header"
)

// New returns a logger writing to w (stderr when nil) and installs it as the
// global zerolog logger. An unknown level falls back to info.
func New(cfg config.Logging, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if cfg.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(w).Level(level).With().Timestamp().Str("app", "deepspyce").Logger()
	log.Logger = logger
	return logger
}

// Diagnostics logs each diagnostic at warn level.
func Diagnostics(logger zerolog.Logger, source string, diags []header.Diagnostic) {
	for _, d := range diags {
		ev := logger.Warn().Str("kind", string(d.Kind)).Str("source", source)
		if d.Key != "" {
			ev = ev.Str("key", d.Key)
		}
		ev.Msg(d.Message)
	}
}
