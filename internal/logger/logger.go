package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. dev gets a console writer, everything else JSON.
func New(env, level string) zerolog.Logger {
	return NewWithWriter(os.Stdout, env, level)
}

func NewWithWriter(w io.Writer, env, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	out := w
	if env == "dev" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// Bootstrap is the logger used before config has loaded: JSON on stderr at
// info level. It is returned addressable so Fatal can be called on it.
func Bootstrap() *zerolog.Logger {
	return BootstrapWithWriter(os.Stderr)
}

func BootstrapWithWriter(w io.Writer) *zerolog.Logger {
	l := NewWithWriter(w, "", zerolog.InfoLevel.String())
	return &l
}
