// Package obs contains observability helpers: the structured logger and
// request-scoped identifiers.
package obs

import (
	"log/slog"
	"os"
	"strings"
)

// Logger is the global structured logger used by the service.
var Logger = slog.Default()

// InitLogger replaces Logger with a JSON handler writing to stdout at the given level.
// Unknown levels fall back to info.
func InitLogger(level string) {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(level)})
	Logger = slog.New(h)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
