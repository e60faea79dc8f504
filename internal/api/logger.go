package api

import (
	"context"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

// OtelHandler stamps every record logged under an active span with its trace and span ids.
type OtelHandler struct {
	next slog.Handler
}

func NewOtelHandler(next slog.Handler) *OtelHandler {
	return &OtelHandler{next: next}
}

func (h *OtelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *OtelHandler) Handle(ctx context.Context, r slog.Record) error {
	spanCtx := trace.SpanContextFromContext(ctx)

	if spanCtx.IsValid() {
		r.AddAttrs(slog.String("trace_id", spanCtx.TraceID().String()))
		r.AddAttrs(slog.String("span_id", spanCtx.SpanID().String()))
	}

	return h.next.Handle(ctx, r)
}

func (h *OtelHandler) WithGroup(name string) slog.Handler {
	return NewOtelHandler(h.next.WithGroup(name))
}

func (h *OtelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewOtelHandler(h.next.WithAttrs(attrs))
}

func NewLogger(w io.Writer, serviceName string, level slog.Level) *slog.Logger {
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewOtelHandler(jsonHandler)).With(slog.String("service", serviceName))
}

// SetupGlobalHandler logs JSON to stdout. Debug records are kept outside production.
func SetupGlobalHandler(serviceName string, production bool) {
	level := slog.LevelDebug
	if production {
		level = slog.LevelInfo
	}

	slog.SetDefault(NewLogger(os.Stdout, serviceName, level))

	slog.Info("Logger initialized", "service", serviceName)
}
