// Package zerolog adapts rs/zerolog to cacheaside.Logger.
package zerolog

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/unkn0wn-root/cacheaside"
)

type Logger struct{ L zerolog.Logger }

var _ cacheaside.Logger = Logger{}

// Config describes a zerolog logger.
type Config struct {
	Level  string    // debug, info, warn, error; anything else is info
	Pretty bool      // console output instead of JSON
	Output io.Writer // default os.Stderr
}

// New builds a timestamped zerolog logger from cfg. Unlike zerolog's global
// setup it does not touch package-level state.
func New(cfg Config) Logger {
	var out io.Writer = cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out}
	}
	l := zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Timestamp().Logger()
	return Logger{L: l}
}

// ParseLevel converts a level name to zerolog.Level.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (z Logger) Debug(msg string, f cacheaside.Fields) { z.L.Debug().Fields(map[string]any(f)).Msg(msg) }
func (z Logger) Info(msg string, f cacheaside.Fields)  { z.L.Info().Fields(map[string]any(f)).Msg(msg) }
func (z Logger) Warn(msg string, f cacheaside.Fields)  { z.L.Warn().Fields(map[string]any(f)).Msg(msg) }
func (z Logger) Error(msg string, f cacheaside.Fields) { z.L.Error().Fields(map[string]any(f)).Msg(msg) }
