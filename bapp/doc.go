// Package bapp provides a batteries-included application for serving [bbasis] handlers.
//
// # Overview
//
// bapp handles the boilerplate of running a bbasis mux as a service: environment parsing,
// structured logging, OpenTelemetry tracing, error responses and graceful shutdown. A complete
// application can be created in a single call:
//
//	bapp.NewApp[Env](func(m *bapp.Mux, h *Handlers) {
//	    m.HandleFunc("GET /items", h.ListItems)
//	    m.HandleFunc("GET /items/{id}", h.GetItem)
//	},
//	    bapp.WithFx(fx.Provide(NewHandlers)),
//	).Run()
//
// # Environment Configuration
//
// Define your environment by embedding [BaseEnvironment]:
//
//	type Env struct {
//	    bapp.BaseEnvironment
//	    ItemsURL string `env:"ITEMS_URL,required"`
//	}
//
// BaseEnvironment provides the following environment variables:
//
//	| Variable               | Required | Default   | Description                                      |
//	|------------------------|----------|-----------|--------------------------------------------------|
//	| BB_PORT                | Yes      | -         | Port the HTTP server listens on                  |
//	| BB_SERVICE_NAME        | Yes      | -         | Service name for logging and tracing             |
//	| BB_HEALTH_CHECK_PATH   | No       | /health   | Health check endpoint path                       |
//	| BB_LOG_LEVEL           | No       | info      | Log level (debug, info, warn, error)             |
//	| BB_OTEL_EXPORTER       | No       | none      | Trace exporter: "stdout" or "none"               |
//	| BB_DEBUG               | No       | false     | Include diagnostics in error responses           |
//	| BB_ERROR_FORMAT        | No       | json      | Error responses as "json" or "html"              |
//	| BB_ERROR_VIEW          | No       | error     | View rendering html error responses              |
//	| BB_NOT_FOUND_VIEW      | No       | not-found | View rendering html not found responses          |
//	| BB_BUFFER_LIMIT        | No       | -1        | Response buffer limit in bytes, -1 is unlimited  |
//	| BB_MAX_BODY_BYTES      | No       | 10485760  | Largest request body that is parsed              |
//	| BB_KEEP_EMPTY_BODY     | No       | false     | Keep empty parsed bodies instead of nil          |
//	| BB_LOGGED_STATUS_CODES | No       | 400-599   | Statuses of errors that are logged               |
//	| BB_REQUEST_TIMEOUT     | No       | 30s       | Deadline of the request context                  |
//
// # Runtime
//
// [Runtime] provides access to app-scoped dependencies and should be injected into handler
// constructors via fx:
//   - [Runtime.Env] returns the typed environment configuration
//   - [Runtime.NewRequest] starts a traced outbound request
//   - [Runtime.Client] returns an http.Client on the same traced transport
//
// Request-scoped values are read from the context: [Log] returns a logger correlated with the
// current trace, [Span] the current span.
//
// # Error Responses
//
// Every route is wrapped in the following middleware, outer most first:
//
//   - [bbasis.ContentLength]
//   - the [bbasis.ErrorHandler], generating responses in BB_ERROR_FORMAT
//   - the request logger for [Log]
//   - [WithRequestDeadline], turning deadline errors into 504 Gateway Timeout
//   - [bbasis.BodyParams]
//
// followed by middleware added through [WithMiddleware]. Requests that match no route are answered by
// the not found handler, see [WithNotFoundHandler]. Html responses render the embedded "error" and
// "not-found" views unless [WithRenderer] provides others.
//
// # Logged Status Codes
//
// Caught errors are logged when their status is covered by BB_LOGGED_STATUS_CODES. The format
// supports comma-separated values and ranges:
//   - Single codes: "500,502,504"
//   - Ranges: "500-599"
//   - Mixed: "500,502-504,599"
//
// The expression is validated at startup and must cover [DefaultRequiredLoggedStatusCodes], so
// unclassified errors and timeouts are never silent. To customize which codes are required, use
// [ParseEnvWithRequiredStatusCodes]:
//
//	bapp.NewApp[Env](routes,
//	    bapp.WithEnvParser(bapp.ParseEnvWithRequiredStatusCodes[Env](500)),
//	)
//
// Listeners added with [WithErrorListener] see every error.
//
// # Testing
//
// The companion bapptest package simplifies testing. bapptest.CallHandler invokes a
// [bbasis.HandlerFunc] and returns the recorded response. Combine it with [WithLogger] to unit-test
// handlers that call [Log]:
//
//	ctx := bapp.WithLogger(context.Background(), zap.NewNop())
//	req := httptest.NewRequest(http.MethodGet, "/items", nil).WithContext(ctx)
//	rec := bapptest.CallHandler(h.ListItems, req)
//
// For integration tests that need the full DI graph, use bapptest.New:
//
//	bapptest.SetBaseEnv(t, 18081)
//	app := bapptest.New[Env](t, routing)
//	app.RequireStart()
//	t.Cleanup(app.RequireStop)
//
// # Dependency Injection
//
// bapp uses [go.uber.org/fx] for dependency injection. Add custom providers with [WithFx]:
//
//	bapp.WithFx(
//	    fx.Provide(NewHandlers),
//	    fx.Provide(NewRepository),
//	)
package bapp
