package bbasis

import (
	"context"
	"log"
	"net/http"
)

// ServeMux routes requests like [http.ServeMux] and serves every route through buffered responses
// and a shared middleware chain. All middleware must be added before the first route.
type ServeMux struct {
	base     *http.ServeMux
	logs     Logger
	bufLimit int
	chain    []Middleware
	sealed   bool
}

// NewServeMux returns a mux with unlimited buffers that logs to the standard logger.
func NewServeMux() *ServeMux {
	return NewServeMuxWith(-1, NewStdLogger(log.Default()), http.NewServeMux())
}

// NewServeMuxWith returns a mux that routes on base. Response buffers hold at most bufLimit bytes,
// a negative limit means unlimited.
func NewServeMuxWith(bufLimit int, logger Logger, base *http.ServeMux) *ServeMux {
	return &ServeMux{base: base, logs: logger, bufLimit: bufLimit}
}

// Use appends middleware to the chain. It panics once a route was registered, since registered
// routes have already captured the chain.
func (m *ServeMux) Use(mw ...Middleware) {
	if m.sealed {
		panic("bbasis: cannot call Use() after calling Handle")
	}

	m.chain = append(m.chain, mw...)
}

// Handle registers handler for the pattern.
func (m *ServeMux) Handle(pattern string, handler Handler) {
	m.route(pattern, ToBare(handler))
}

// HandleFunc registers a handler function for the pattern.
func (m *ServeMux) HandleFunc(pattern string, handler HandlerFunc) {
	m.Handle(pattern, handler)
}

// HandleStd registers a standard library [http.Handler] behind the middleware chain. The handler owns
// its error responses, see "Standard library handlers and error ownership" in the package docs.
func (m *ServeMux) HandleStd(pattern string, handler http.Handler) {
	m.HandleFunc(pattern, func(_ context.Context, w ResponseWriter, r *http.Request) error {
		handler.ServeHTTP(w, r)
		return nil
	})
}

// NotFound registers the handler for requests that match no other pattern. It runs behind the
// middleware chain like any route.
func (m *ServeMux) NotFound(handler Handler) {
	m.Handle("/", handler)
}

// ServeHTTP implements [http.Handler].
func (m *ServeMux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.base.ServeHTTP(w, r)
}

// route registers h behind the chain for each of the patterns.
func (m *ServeMux) route(pattern string, h BareHandler, more ...string) {
	m.sealed = true

	std := ToStd(wrapBare(h, m.chain...), m.bufLimit, m.logs)
	for _, p := range append([]string{pattern}, more...) {
		m.base.Handle(p, std)
	}
}
