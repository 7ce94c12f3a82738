// Package logging provides structured logging using Go's slog package.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// RunIDKey is the context key for ingestion run IDs.
	RunIDKey ContextKey = "run_id"
	// BookKey is the context key for the book being ingested.
	BookKey ContextKey = "book"
)

var (
	// defaultLogger is the global logger instance.
	defaultLogger *slog.Logger
)

func init() {
	// Initialize with a default logger (JSON format, Info level)
	InitLogger(LevelInfo, FormatJSON)
}

// Level represents a log level.
type Level int

const (
	// LevelDebug is for debug messages.
	LevelDebug Level = iota
	// LevelInfo is for informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// Format represents a log output format.
type Format int

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON Format = iota
	// FormatText outputs logs in human-readable text format.
	FormatText
)

// ParseLevel maps a configuration string to a Level. Empty means info.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// ParseFormat maps a configuration string to a Format. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return FormatJSON, nil
	case "text":
		return FormatText, nil
	}
	return FormatJSON, fmt.Errorf("unknown log format %q", s)
}

// InitLogger initializes the global logger with the specified level and
// format, writing to stderr so stdout stays free for command output.
func InitLogger(level Level, format Format) {
	InitLoggerTo(os.Stderr, level, format)
}

// InitLoggerTo initializes the global logger writing to w.
func InitLoggerTo(w io.Writer, level Level, format Format) {
	var slogLevel slog.Level
	switch level {
	case LevelDebug:
		slogLevel = slog.LevelDebug
	case LevelInfo:
		slogLevel = slog.LevelInfo
	case LevelWarn:
		slogLevel = slog.LevelWarn
	case LevelError:
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Customize timestamp format
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// WithRunID adds an ingestion run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// WithBook adds the book code being ingested to the context.
func WithBook(ctx context.Context, book string) context.Context {
	return context.WithValue(ctx, BookKey, book)
}

// fromContext returns the global logger with the run ID and book code
// carried by ctx attached.
func fromContext(ctx context.Context) *slog.Logger {
	logger := defaultLogger
	if runID, ok := ctx.Value(RunIDKey).(string); ok && runID != "" {
		logger = logger.With("run_id", runID)
	}
	if book, ok := ctx.Value(BookKey).(string); ok && book != "" {
		logger = logger.With("book", book)
	}
	return logger
}

// DebugContext logs a debug message with context.
func DebugContext(ctx context.Context, msg string, args ...any) {
	fromContext(ctx).Debug(msg, args...)
}

// InfoContext logs an info message with context.
func InfoContext(ctx context.Context, msg string, args ...any) {
	fromContext(ctx).Info(msg, args...)
}

// WarnContext logs a warning message with context.
func WarnContext(ctx context.Context, msg string, args ...any) {
	fromContext(ctx).Warn(msg, args...)
}

// RunStarted logs the start of a translation ingestion.
func RunStarted(ctx context.Context, dblID, revision, name string, args ...any) {
	allArgs := []any{
		"dbl_id", dblID,
		"revision", revision,
		"name", name,
	}
	allArgs = append(allArgs, args...)
	fromContext(ctx).Info("run_started", allArgs...)
}

// BookIngested logs a committed book with its counts.
func BookIngested(ctx context.Context, book string, chapters, verses, notes int, duration time.Duration, args ...any) {
	allArgs := []any{
		"book", book,
		"chapters", chapters,
		"verses", verses,
		"notes", notes,
		"duration_ms", duration.Milliseconds(),
	}
	allArgs = append(allArgs, args...)
	fromContext(ctx).Info("book_ingested", allArgs...)
}

// BookFailed logs a book whose transaction was rolled back.
func BookFailed(ctx context.Context, book string, err error, args ...any) {
	allArgs := []any{
		"book", book,
		"error", err.Error(),
	}
	allArgs = append(allArgs, args...)
	fromContext(ctx).Error("book_failed", allArgs...)
}

// ChapterSkipped logs a chapter or verse span dropped during segmentation.
func ChapterSkipped(ctx context.Context, ref, reason string, args ...any) {
	allArgs := []any{
		"ref", ref,
		"reason", reason,
	}
	allArgs = append(allArgs, args...)
	fromContext(ctx).Warn("chapter_skipped", allArgs...)
}

// ReferenceRejected logs reference text that did not classify.
func ReferenceRejected(ctx context.Context, input string, err error, args ...any) {
	allArgs := []any{
		"input", input,
		"error", err.Error(),
	}
	allArgs = append(allArgs, args...)
	fromContext(ctx).Warn("reference_rejected", allArgs...)
}

// ArtifactStored logs an archived support file.
func ArtifactStored(ctx context.Context, key, digest string, size int64, args ...any) {
	allArgs := []any{
		"key", key,
		"digest", digest,
		"size", size,
	}
	allArgs = append(allArgs, args...)
	fromContext(ctx).Info("artifact_stored", allArgs...)
}
