package siteconf

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog logger writing to w. pretty selects
// human-readable console output instead of JSON lines.
func NewLogger(w io.Writer, pretty bool, level zerolog.Level) zerolog.Logger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// DefaultLogger logs info and above to stderr.
func DefaultLogger() zerolog.Logger {
	return NewLogger(os.Stderr, false, zerolog.InfoLevel)
}
