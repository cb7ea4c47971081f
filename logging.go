package ygggo_mongo

import (
	"context"
	"log/slog"
	"os"
	"time"
)

var (
	defaultLogger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
)

// EnableLogging enables or disables structured logging for this registry
func (r *Registry[C, D]) EnableLogging(enabled bool) {
	if r == nil {
		return
	}
	r.loggingEnabled = enabled
	if enabled && r.logger == nil {
		r.logger = defaultLogger
	}
}

// SetLogger sets a custom logger for this registry
func (r *Registry[C, D]) SetLogger(logger *slog.Logger) {
	if r == nil {
		return
	}
	r.logger = logger
}

// logEvent logs a registry lifecycle event with structured fields
func (r *Registry[C, D]) logEvent(ctx context.Context, level slog.Level, msg, alias string, duration time.Duration, err error, extra ...slog.Attr) {
	if r == nil || !r.loggingEnabled || r.logger == nil {
		return
	}

	attrs := []slog.Attr{
		slog.String("alias", alias),
		slog.String("driver_version", r.driver.Version().String()),
	}
	if duration > 0 {
		attrs = append(attrs, slog.Float64("duration_ms", float64(duration.Nanoseconds())/1e6))
	}

	if err != nil {
		attrs = append(attrs,
			slog.String("status", "error"),
			slog.String("error", err.Error()),
		)
	} else {
		attrs = append(attrs, slog.String("status", "success"))
	}
	attrs = append(attrs, extra...)

	r.logger.LogAttrs(ctx, level, msg, attrs...)
}
