package bapp

import (
	"context"
	"net/http"

	"github.com/advdv/bbasis"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// App runs the fx graph of a service.
type App struct {
	app *fx.App
}

// AppConfig collects what the options change about the app.
type AppConfig struct {
	ServerConfig
	FxOptions []fx.Option
	EnvParser any
}

// Option configures the App.
type Option func(*AppConfig)

// WithFx adds fx options for dependency injection.
func WithFx(fxOpts ...fx.Option) Option {
	return func(c *AppConfig) {
		c.FxOptions = append(c.FxOptions, fxOpts...)
	}
}

// WithHealthHandler sets a custom health check handler.
// If not set, a default handler returning 200 OK is used.
func WithHealthHandler(h func(http.ResponseWriter, *http.Request)) Option {
	return func(c *AppConfig) {
		c.HealthHandler = h
	}
}

// WithNotFoundHandler replaces the handler for requests that match no route.
func WithNotFoundHandler(h bbasis.Handler) Option {
	return func(c *AppConfig) {
		c.NotFoundHandler = h
	}
}

// WithRenderer replaces the embedded views used for html error responses.
func WithRenderer(r bbasis.Renderer) Option {
	return func(c *AppConfig) {
		c.Renderer = r
	}
}

// WithErrorListener adds listeners that are triggered for every caught error, regardless of
// BB_LOGGED_STATUS_CODES.
func WithErrorListener(l ...bbasis.ErrorListener) Option {
	return func(c *AppConfig) {
		c.ErrorListeners = append(c.ErrorListeners, l...)
	}
}

// WithMiddleware adds middleware that runs inside the built-in middleware, so its errors are
// rendered and the request body is already parsed.
func WithMiddleware(mw ...bbasis.Middleware) Option {
	return func(c *AppConfig) {
		c.Middleware = append(c.Middleware, mw...)
	}
}

// WithEnvParser replaces [ParseEnv], for example with [ParseEnvWithRequiredStatusCodes].
func WithEnvParser[E Environment](parse func() (E, error)) Option {
	return func(c *AppConfig) {
		c.EnvParser = parse
	}
}

// FxOptions returns the options of the app's fx graph. The built-in components live in the "bapp"
// module, routing and the options added through [WithFx] are invoked after it. [NewApp] and the
// bapptest package build on the same graph.
func FxOptions[E Environment](routing any, opts ...Option) []fx.Option {
	var cfg AppConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	parseEnv := cfg.EnvParser
	if parseEnv == nil {
		parseEnv = ParseEnv[E]()
	}

	return append([]fx.Option{
		fx.NopLogger,
		fx.Module("bapp",
			fx.Supply(cfg.ServerConfig),
			fx.Provide(
				parseEnv,
				func(e E) Environment { return e },
				func(e E) (*zap.Logger, error) { return NewLogger(e) },
				NewMux,
				NewTracerProvider,
				NewPropagator,
				NewTransport,
				newRenderer,
				NewErrorResponseGenerator,
				NewErrorHandler,
				NewServer,
				NewRuntime[E],
			),
			fx.Invoke(startServerHook),
		),
		fx.Invoke(routing),
	}, cfg.FxOptions...)
}

// NewApp creates the app. The routing function is invoked with any types of the graph, usually the
// [Mux] and the handlers provided through [WithFx]:
//
//	bapp.NewApp[Env](func(m *bapp.Mux, h *Handlers) {
//	    m.HandleFunc("GET /items", h.ListItems)
//	},
//	    bapp.WithFx(fx.Provide(NewHandlers)),
//	).Run()
func NewApp[E Environment](routing any, opts ...Option) *App {
	return &App{
		app: fx.New(FxOptions[E](routing, opts...)...),
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() {
	a.app.Run()
}

// Start starts the application and blocks until ctx is done, then stops it.
func (a *App) Start(ctx context.Context) error {
	if err := a.app.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.app.StopTimeout())
	defer cancel()

	return a.app.Stop(stopCtx)
}
