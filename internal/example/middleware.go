// Package example implements example middleware in an outside package.
package example

import (
	"net/http"

	"github.com/advdv/bbasis"
	"go.uber.org/zap"
)

const attrLogger = "example.logger"

// Middleware stores a logger, named after the request's method and path, in the request attributes.
func Middleware(logs *zap.Logger) bbasis.Middleware {
	return func(next bbasis.BareHandler) bbasis.BareHandler {
		return bbasis.BareHandlerFunc(func(w bbasis.ResponseWriter, r *http.Request) error {
			return next.ServeBareBHTTP(w, bbasis.WithAttribute(r, attrLogger, logs.With(
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)))
		})
	}
}

// Log returns the logger stored by [Middleware], or a no-op logger for requests it did not see.
func Log(r *http.Request) *zap.Logger {
	if v, ok := bbasis.Attribute(r, attrLogger); ok {
		if logs, ok := v.(*zap.Logger); ok {
			return logs
		}
	}

	return zap.NewNop()
}
