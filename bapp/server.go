package bapp

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/advdv/bbasis"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ServerConfig holds optional configuration for the HTTP server.
type ServerConfig struct {
	HealthHandler   func(http.ResponseWriter, *http.Request)
	NotFoundHandler bbasis.Handler
	Renderer        bbasis.Renderer
	ErrorListeners  []bbasis.ErrorListener
	Middleware      []bbasis.Middleware
}

// ServerParams holds the dependencies for creating an HTTP server.
type ServerParams struct {
	fx.In

	Env          Environment
	Mux          *Mux
	Logger       *zap.Logger
	TracerProv   trace.TracerProvider
	Propagator   propagation.TextMapPropagator
	ErrorHandler *bbasis.ErrorHandler
	Renderer     bbasis.Renderer
}

// NewServer creates an HTTP server with all middleware and routing configured.
func NewServer(params ServerParams, cfg ServerConfig) *http.Server {
	// Content-Length is set last so it also covers generated error responses.
	params.Mux.Use(
		bbasis.ContentLength(),
		params.ErrorHandler.Middleware(),
		withLogger(params.Logger),
		WithRequestDeadline(params.Env.requestTimeout()),
		bbasis.BodyParams(
			bbasis.WithMaxBodyBytes(params.Env.maxBodyBytes()),
			bbasis.WithEmptyBodyKept(params.Env.keepEmptyBody()),
		),
	)
	params.Mux.Use(cfg.Middleware...)

	// Tracing is disabled for the health path to avoid noisy orphan traces from probes.
	healthPath := params.Env.healthCheckPath()
	healthHandler := cfg.HealthHandler
	if healthHandler == nil {
		healthHandler = defaultHealthHandler
	}
	params.Mux.HandleFunc(healthPath, func(_ context.Context, w bbasis.ResponseWriter, r *http.Request) error {
		healthHandler(w, r)
		return nil
	})

	notFound := cfg.NotFoundHandler
	if notFound == nil {
		notFound = NewNotFoundHandler(params.Env, params.Renderer)
	}
	params.Mux.NotFound(notFound)

	// Add tracing with explicit provider injection (no globals).
	handler := traceInbound(params.TracerProv, params.Propagator, params.Env.serviceName(), healthPath)(params.Mux)

	srv := &http.Server{Addr: fmt.Sprintf(":%d", params.Env.port()), Handler: handler}
	NewServerTimeouts(params.Env.requestTimeout(), 0).Apply(srv)

	return srv
}

// startServerHook registers lifecycle hooks for the HTTP server. The listener is opened on start so
// the app is ready to serve once started.
func startServerHook(lc fx.Lifecycle, server *http.Server, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var lcfg net.ListenConfig
			ln, err := lcfg.Listen(ctx, "tcp", server.Addr)
			if err != nil {
				return errors.Wrapf(err, "listen on %s", server.Addr)
			}

			logger.Info("starting server", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server")
			return server.Shutdown(ctx)
		},
	})
}

func defaultHealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
