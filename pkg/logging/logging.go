// Package logging builds the zerolog loggers used by the CLI and handed to
// library constructors through their WithLogger options.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Canonical field names.
const (
	FieldComponent = "component"
	FieldImageID   = "image_id"
	FieldWidget    = "widget"
	FieldRoute     = "route"
)

// DefaultService names the process in every entry.
const DefaultService = "imagechooser"

// Config captures logger options.
type Config struct {
	Level   string    // "debug", "info", ...; falls back to LOG_LEVEL then info
	Output  io.Writer // defaults to os.Stderr
	Service string
	Console bool // human readable output instead of JSON
}

// New returns a logger configured from cfg. It does not touch the zerolog
// global level, so several loggers can coexist in tests.
func New(cfg Config) zerolog.Logger {
	writer := cfg.Output
	if writer == nil {
		writer = os.Stderr
	}
	if cfg.Console {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.RFC3339, NoColor: true}
	}

	service := strings.TrimSpace(cfg.Service)
	if service == "" {
		service = DefaultService
	}

	return zerolog.New(writer).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}

// ParseLevel resolves level, then LOG_LEVEL, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	for _, candidate := range []string{level, os.Getenv("LOG_LEVEL")} {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if parsed, err := zerolog.ParseLevel(strings.ToLower(candidate)); err == nil {
			return parsed
		}
	}
	return zerolog.InfoLevel
}

// WithComponent returns a child logger annotated with component.
func WithComponent(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str(FieldComponent, component).Logger()
}
