// Package logging builds the zerolog loggers handed to engine components.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum level: trace, debug, info, warn or error. Empty means info.
	Level string

	// Console renders human-readable output instead of JSON.
	Console bool

	// Out is the destination; nil means stderr.
	Out io.Writer

	// File, if set, receives JSON output in addition to Out.
	File string
}

// Logger is a zerolog logger plus the file it may own.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New creates a logger from cfg.
//
// Parameters:
//   - cfg: the logger configuration
//
// Returns:
//   - *Logger: the logger
//   - error: error if the level is unknown or the log file cannot be opened
func New(cfg Config) (*Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		level = l
	}

	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	if cfg.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	l := &Logger{}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logging: opening %s: %w", cfg.File, err)
		}
		l.file = f
		out = zerolog.MultiLevelWriter(out, f)
	}

	l.Logger = zerolog.New(out).Level(level).With().Timestamp().Str("app", "oxy-toon").Logger()
	return l, nil
}

// Component returns a child logger tagged with the component name.
func (l *Logger) Component(name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
