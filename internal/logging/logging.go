// Package logging carries a run-scoped slog logger through context.Context.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// contextKey is unexported so other packages cannot collide with it.
type contextKey string

const loggerKey = contextKey("logger")

// New builds the JSON logger used by the binary. Unknown levels fall back to info.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// ParseLevel maps debug/info/warn/error (any case) to a slog level.
func ParseLevel(level string) slog.Level {
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

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default() when there is none.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// WithRun enriches base with a fresh run ID and the command name and stores it in ctx.
// Every operator command runs under one of these so its log lines can be correlated.
func WithRun(ctx context.Context, base *slog.Logger, command string) (context.Context, *slog.Logger) {
	runLogger := base.With(
		slog.String("run_id", uuid.NewString()),
		slog.String("command", command),
	)
	return WithLogger(ctx, runLogger), runLogger
}
