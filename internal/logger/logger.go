// Package logger builds the zerolog logger shared by the server.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger at the given level. Outside production it writes
// human friendly console lines, in production plain JSON.
func New(level string, production bool) zerolog.Logger {
	return NewWithWriter(os.Stdout, level, production)
}

func NewWithWriter(out io.Writer, level string, production bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	w := out
	if !production {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "medium-blog").
		Logger()
}
