package relax

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with relax-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithJob adds a job ID field to the logger.
func (l *Logger) WithJob(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("job", id),
	}
}

// WithMode adds a relaxation mode field to the logger.
func (l *Logger) WithMode(mode Mode) *Logger {
	return &Logger{
		Logger: l.Logger.With("mode", mode.String()),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// LogRelax logs a finished relaxation run.
func (l *Logger) LogRelax(ctx context.Context, mode Mode, points, iterations int, converged bool, took time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "relaxation failed",
			"mode", mode.String(),
			"points", points,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "relaxation completed",
		"mode", mode.String(),
		"points", points,
		"iterations", iterations,
		"converged", converged,
		"duration", took,
	)
}

// LogBatch logs a finished batch.
func (l *Logger) LogBatch(ctx context.Context, count, failed int, took time.Duration) {
	if failed > 0 {
		l.WarnContext(ctx, "batch completed with failures",
			"total", count,
			"failed", failed,
			"success", count-failed,
			"duration", took,
		)
		return
	}
	l.InfoContext(ctx, "batch completed",
		"count", count,
		"duration", took,
	)
}

// LogSave logs a snapshot write.
func (l *Logger) LogSave(ctx context.Context, name, key string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot save failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot saved",
		"name", name,
		"key", key,
		"bytes", size,
	)
}

// LogLoad logs a snapshot read.
func (l *Logger) LogLoad(ctx context.Context, name, key string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot load failed",
			"name", name,
			"key", key,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "snapshot loaded",
		"name", name,
		"key", key,
	)
}
