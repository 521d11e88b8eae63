package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/andrescamacho/amalgam-go/internal/infrastructure/config"
)

// New builds a slog logger from the logging config. The returned closer
// releases the log file when output is "file"; otherwise it is a no-op.
func New(cfg config.LoggingConfig) (*slog.Logger, io.Closer, error) {
	var (
		out    io.Writer
		closer io.Closer = nopCloser{}
	)

	switch cfg.Output {
	case "", "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	case "discard":
		out = io.Discard
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out, closer = f, f
	default:
		return nil, nil, fmt.Errorf("unknown log output %q", cfg.Output)
	}

	return slog.New(newHandler(out, cfg)), closer, nil
}

func newHandler(w io.Writer, cfg config.LoggingConfig) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: cfg.IncludeCaller,
	}
	if cfg.Format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// ParseLevel maps debug/info/warn/error onto slog levels, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// GameLogger adapts a slog logger to the application GameLogger port
type GameLogger struct {
	logger *slog.Logger
}

// NewGameLogger wraps logger; a nil logger falls back to slog.Default()
func NewGameLogger(logger *slog.Logger) *GameLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &GameLogger{logger: logger}
}

// Log emits message at the named level with metadata as attributes
func (l *GameLogger) Log(level, message string, metadata map[string]interface{}) {
	attrs := make([]slog.Attr, 0, len(metadata))
	for k, v := range metadata {
		attrs = append(attrs, slog.Any(k, v))
	}
	l.logger.LogAttrs(context.Background(), ParseLevel(level), message, attrs...)
}
