// Package logger builds the zerolog loggers used by the command line tools.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Format selects how log lines are rendered.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// ParseLevel maps a flag value such as "debug" or "warn" to a zerolog level.
// An empty string means info.
func ParseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatConsole, "":
		return FormatConsole, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown log format %q (want console or json)", s)
}

// New returns a timestamped logger writing to stderr.
func New(level zerolog.Level, format Format) zerolog.Logger {
	return NewWithWriter(os.Stderr, level, format)
}

func NewWithWriter(w io.Writer, level zerolog.Level, format Format) zerolog.Logger {
	if format != FormatJSON {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
