// Package logger configures the process-wide zerolog root and exposes the
// level helpers used before dependency wiring hands each component its own
// contextual logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel selects the minimum level the root logger emits.
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// Config holds the root logger settings taken from the logging section of
// the application config.
type Config struct {
	Level LogLevel
	// Pretty switches to the human-readable console writer; JSON otherwise.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

// root is what the package-level helpers write through.
var root zerolog.Logger

// Configure rebuilds the root logger and returns it so callers can hand
// contextual children to their components. Also installs it as the zerolog
// global for libraries logging through zerolog/log.
func Configure(config Config) zerolog.Logger {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339

	switch config.Level {
	case DebugLevel:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case WarnLevel:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case ErrorLevel:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	var writer io.Writer = config.Output
	if config.Pretty {
		writer = zerolog.ConsoleWriter{
			Out:        config.Output,
			TimeFormat: time.RFC3339,
		}
	}

	root = zerolog.New(writer).With().Timestamp().Logger()
	log.Logger = root
	return root
}

// Info logs an informational message
func Info() *zerolog.Event {
	return root.Info()
}

// Warn logs a warning message
func Warn() *zerolog.Event {
	return root.Warn()
}

// Error logs an error message
func Error() *zerolog.Event {
	return root.Error()
}

// init installs a sane root so anything logged before Configure runs, such
// as config loading failures, still comes out structured.
func init() {
	Configure(Config{
		Level:  InfoLevel,
		Pretty: true,
	})
}
