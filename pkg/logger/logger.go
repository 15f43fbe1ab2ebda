// Package logger builds the structured, levelled logger used across the
// marketplace, on top of log/slog.
//
// The key extension over plain slog is WithCtx: the request logger
// middleware stores a logger pre-tagged with the request ID in the context,
// so every log line from a handler or service is correlated:
//
//	log := logger.WithCtx(ctx)
//	log.Info("order placed", "order_id", order.ID)
//	// → time=... level=INFO msg="order placed" request_id=1f0c... order_id=12
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/marketplace/config"
)

// New returns a JSON logger when jsonOutput is set (log aggregators) and a
// human-readable text logger otherwise.
func New(w io.Writer, level slog.Level, jsonOutput bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if jsonOutput {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// FromConfig builds the process logger: text in DEV, JSON in PROD.
func FromConfig(cfg *config.Config) *slog.Logger {
	return New(os.Stdout, cfg.SlogLevel(), !cfg.Debug).With("app", cfg.AppName)
}

// Discard is a logger that drops everything; handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the request-scoped logger stored in ctx, or the process
// default when there is none.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return slog.Default()
}

// InjectLogger stores log into ctx. Called by the request logger
// middleware; application code rarely needs it.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}
