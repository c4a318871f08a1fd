package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var (
	base zerolog.Logger
)

// Init configures the global JSON logger.
//
// Environment variables (optional):
//   - LOG_LEVEL: debug|info|warn|error (default: info)
//   - LOG_PRETTY: true|false (default: false)
func Init() {
	InitWithWriter(os.Stdout)
}

// InitWithWriter configures the global logger to write to w instead of stdout.
// Tests use it to capture log lines.
func InitWithWriter(out io.Writer) {
	level := parseLevel(getenv("LOG_LEVEL", "info"))
	pretty := strings.EqualFold(getenv("LOG_PRETTY", "false"), "true")

	zerolog.TimeFieldFormat = time.RFC3339Nano
	w := out
	if pretty {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	base = zerolog.New(w).With().Timestamp().Str("service", "stockdash").Logger().Level(level)
}

// L returns the global logger. Call Init() once on startup.
func L() *zerolog.Logger {
	if base.GetLevel() == zerolog.NoLevel {
		Init()
	}
	return &base
}

// Component returns a child of the global logger tagged with the component name.
func Component(name string) *zerolog.Logger {
	l := L().With().Str("component", name).Logger()
	return &l
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
