package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a logger writing to stderr so that report output on stdout
// stays clean for piping.
func New(level string) zerolog.Logger {
	return NewWriter(os.Stderr, level)
}

func NewWriter(w io.Writer, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Logger()

	return logger.Level(ParseLevel(level))
}

// ParseLevel maps a config level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
