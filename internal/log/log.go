// Package log builds the process logger and carries it through contexts.
package log

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/samber/lo"
)

type contextKey struct{}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// New returns a JSON or text logger at the given level. Unknown levels
// fall back to info.
func New(w io.Writer, format, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// ParseLevel maps debug, info, warn and error to slog levels.
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

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, if any.
func FromContext(ctx context.Context) (*slog.Logger, bool) {
	v, ok := ctx.Value(contextKey{}).(*slog.Logger)
	return v, ok && v != nil
}

// FromContextOrDiscard returns the logger stored in ctx or one that drops
// every record.
func FromContextOrDiscard(ctx context.Context) *slog.Logger {
	logger, ok := FromContext(ctx)
	return lo.Ternary(ok, logger, discardLogger)
}
