// Package logger wires the process-wide zap logger.
package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/localgov-gh/revhub/internal/config"
)

// New builds the root logger: production encoding in production,
// development encoding elsewhere.
func New(cfg config.Config) (*zap.Logger, error) {
	var log *zap.Logger
	var err error
	if cfg.IsProduction() {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)
	return log, nil
}

// FromContext returns the global logger annotated with the active
// span's trace_id/span_id when one is recording.
func FromContext(ctx context.Context) *zap.Logger {
	log := zap.L()
	span := trace.SpanContextFromContext(ctx)
	if !span.IsValid() {
		return log
	}
	return log.With(
		zap.String("trace_id", span.TraceID().String()),
		zap.String("span_id", span.SpanID().String()),
	)
}

var Module = fx.Module("logger",
	fx.Provide(New),
)
