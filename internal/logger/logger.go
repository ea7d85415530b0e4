package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// Logger is the process wide logger. It discards output until
	// Initialize is called, so library use stays quiet.
	Logger = zerolog.Nop()
)

// Initialize sets up the global logger writing JSON to stderr, or a
// console format when GAMMA_LOG_PRETTY is set.
func Initialize(logLevel string) {
	InitializeWithWriter(logLevel, output())
}

// InitializeWithWriter is Initialize with an explicit sink.
func InitializeWithWriter(logLevel string, w io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339

	Logger = zerolog.New(w).
		With().
		Timestamp().
		Logger()

	zerolog.SetGlobalLevel(ParseLevel(logLevel))

	log.Logger = Logger
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(logLevel string) zerolog.Level {
	switch strings.ToLower(logLevel) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func output() io.Writer {
	if os.Getenv("GAMMA_LOG_PRETTY") != "" {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "2006-01-02 15:04:05",
		}
	}
	return os.Stderr
}

// Get returns the global logger instance
func Get() *zerolog.Logger {
	return &Logger
}

// GetForComponent returns a logger with a component field for better filtering
func GetForComponent(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}
