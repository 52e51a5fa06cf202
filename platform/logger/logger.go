// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Context key types for storing values in context
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// ActorIDKey is the context key for the acting advisor ID
	ActorIDKey contextKey = "actor_id"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithContext returns a logger with context values extracted.
// Supports request_id and actor_id from context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	newLogger := l

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		newLogger = &Logger{
			Logger: newLogger.With(slog.String("request_id", requestID)),
		}
	}

	if actorID, ok := ctx.Value(ActorIDKey).(int64); ok && actorID != 0 {
		newLogger = &Logger{
			Logger: newLogger.With(slog.Int64("actor_id", actorID)),
		}
	}

	return newLogger
}

// StatusTransition logs an accepted lead status transition.
func (l *Logger) StatusTransition(leadID int64, dimension string, oldMain, newMain *int16, logEntryID int64) {
	l.Info("status_transition",
		slog.Int64("lead_id", leadID),
		slog.String("dimension", dimension),
		slog.Any("old_status_id", oldMain),
		slog.Any("new_status_id", newMain),
		slog.Int64("log_entry_id", logEntryID),
	)
}

// TransitionRejected logs a rejected lead status transition.
func (l *Logger) TransitionRejected(leadID int64, dimension string, reason string) {
	l.Warn("transition_rejected",
		slog.Int64("lead_id", leadID),
		slog.String("dimension", dimension),
		slog.String("reason", reason),
	)
}

// DatabaseError logs database errors
func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// CacheMiss logs a taxonomy cache miss that fell back to the database.
func (l *Logger) CacheMiss(key string) {
	l.Debug("cache_miss", slog.String("key", key))
}
