package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogConfig selects the handler for InitLogger.
type LogConfig struct {
	Level  string // debug, info, warn or error; anything else is info
	Format string // json or text
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service, when set, is attached to every record as "service".
	Service string
}

// InitLogger builds the process logger and installs it with slog.SetDefault.
func InitLogger(cfg LogConfig) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler = slog.NewTextHandler(out, opts)
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	}

	logger := slog.New(handler)
	if cfg.Service != "" {
		logger = logger.With(slog.String("service", cfg.Service))
	}
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a level name, case-insensitively, to a slog.Level.
// "warning" is accepted for warn. Unknown names map to info.
func ParseLevel(level string) slog.Level {
	name := strings.TrimSpace(level)
	if strings.EqualFold(name, "warning") {
		name = "warn"
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return l
}
