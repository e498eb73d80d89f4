package bapp

import (
	"context"
	"net/http"

	"github.com/advdv/bbasis"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type loggerKey struct{}

// WithLogger returns a context that carries the logger returned by [Log]. The server sets it for
// every request, use it to call handlers directly in tests.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// Log returns the request logger. When ctx carries a recording span its trace and span id are
// attached, so the entries can be found from the trace.
func Log(ctx context.Context) *zap.Logger {
	logger, ok := ctx.Value(loggerKey{}).(*zap.Logger)
	if !ok {
		panic("bapp: no logger in context, was the request served by the app?")
	}

	return logger.With(traceFields(ctx)...)
}

// Span returns the span of the request.
func Span(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

func withLogger(logger *zap.Logger) bbasis.Middleware {
	return func(next bbasis.BareHandler) bbasis.BareHandler {
		return bbasis.BareHandlerFunc(func(w bbasis.ResponseWriter, r *http.Request) error {
			return next.ServeBareBHTTP(w, r.WithContext(WithLogger(r.Context(), logger)))
		})
	}
}

func traceFields(ctx context.Context) []zap.Field {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}

	return []zap.Field{
		zap.Stringer("trace_id", sc.TraceID()),
		zap.Stringer("span_id", sc.SpanID()),
	}
}
