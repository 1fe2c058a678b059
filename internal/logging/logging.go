package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New builds the process logger. level is any zerolog level name
// ("debug", "info", ...); format is FormatConsole or FormatJSON.
func New(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	switch format {
	case FormatConsole, "":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	case FormatJSON:
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q", format)
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}
