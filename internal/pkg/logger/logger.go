// Package logger wraps zerolog behind a small package-level API so the
// rest of the codebase never touches the global zerolog state directly.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var base zerolog.Logger

// LogLevel names a zerolog level in configuration.
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// Config controls the process-wide logger.
type Config struct {
	// Level below which events are discarded. Unknown values fall back to info.
	Level LogLevel
	// Pretty switches from JSON lines to a human-readable console format.
	Pretty bool
	// Service is stamped on every event when set.
	Service string
	// Output defaults to os.Stdout.
	Output io.Writer
}

// Configure replaces the process-wide logger. Safe to call again, e.g.
// after configuration has been loaded.
func Configure(config Config) {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(strings.ToLower(string(config.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	writer := config.Output
	if config.Pretty {
		writer = zerolog.ConsoleWriter{
			Out:        config.Output,
			TimeFormat: "15:04:05",
		}
	}

	ctx := zerolog.New(writer).With().Timestamp()
	if config.Service != "" {
		ctx = ctx.Str("service", config.Service)
	}
	base = ctx.Logger()
	log.Logger = base
}

func Debug() *zerolog.Event { return base.Debug() }

func Info() *zerolog.Event { return base.Info() }

func Warn() *zerolog.Event { return base.Warn() }

func Error() *zerolog.Event { return base.Error() }

// init gives early startup code (config loading) a working logger before
// Configure runs with real settings.
func init() {
	Configure(Config{Level: InfoLevel, Pretty: true})
}
