package bapp

import (
	"context"
	"sort"

	"github.com/advdv/bbasis"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the JSON production logger at BB_LOG_LEVEL. Entries are timestamped in ISO8601
// under the "timestamp" key.
func NewLogger(env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.logLevel())
	cfg.EncoderConfig.TimeKey, cfg.EncoderConfig.EncodeTime = "timestamp", zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// serveLogger reports the failures of the buffered serving layer through zap.
type serveLogger struct{ logs *zap.Logger }

func newServeLogger(logs *zap.Logger) bbasis.Logger {
	return serveLogger{logs: logs.Named("bbasis").Named("bapp")}
}

func (l serveLogger) LogUnhandledServeError(err error) {
	l.logs.Error("unhandled server error", zap.Error(err))
}

func (l serveLogger) LogImplicitFlushError(err error) {
	l.logs.Error("error while flushing implicitly", zap.Error(err))
}

// LogError writes every detail as a normalized field, in key order, next to the trace of ctx.
func (l serveLogger) LogError(ctx context.Context, msg string, details map[string]any) {
	keys := lo.Keys(details)
	sort.Strings(keys)

	l.logs.Error(msg, append(traceFields(ctx), lo.Map(keys, func(k string, _ int) zap.Field {
		return zap.Any(k, bbasis.Normalize(details[k]))
	})...)...)
}
