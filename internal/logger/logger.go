// Where: internal/logger/logger.go
// What: zerolog construction for the serve and fetch commands.
// Why: Container logs end up in CloudWatch; keep level and format switchable.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds a logger writing to out. format "json" emits JSON lines, anything
// else uses the console writer. Unknown levels fall back to info.
func New(out io.Writer, level, format string) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}
	var z zerolog.Logger
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		z = zerolog.New(out)
	} else {
		z = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: true})
	}
	return z.Level(ParseLevel(level)).With().Timestamp().Logger()
}

// ParseLevel maps a case-insensitive level name to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
