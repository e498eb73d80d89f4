package bapp

import (
	"net/http"

	"github.com/carlmjohnson/requests"
)

// Runtime gives handlers the app-scoped dependencies: the parsed environment, the mux and traced
// outbound HTTP. Request-scoped values, like the logger, come from the context instead. Inject it
// into handler constructors:
//
//	type Handlers struct {
//	    rt *bapp.Runtime[Env]
//	}
//
//	func (h *Handlers) GetItem(ctx context.Context, w bbasis.ResponseWriter, r *http.Request) error {
//	    var item Item
//	    err := h.rt.NewRequest().
//	        BaseURL(h.rt.Env().ItemsURL).
//	        Pathf("/items/%s", r.PathValue("id")).
//	        ToJSON(&item).
//	        Fetch(ctx)
//	    if err != nil {
//	        return bbasis.NewError(bbasis.CodeBadGateway, "", err)
//	    }
//	    return bbasis.WriteJSON(w, bbasis.Code(http.StatusOK), item)
//	}
type Runtime[E Environment] struct {
	env       E
	mux       *Mux
	transport http.RoundTripper
}

// NewRuntime creates the runtime. A nil transport means [http.DefaultTransport], outbound requests
// are then not traced.
func NewRuntime[E Environment](env E, mux *Mux, transport http.RoundTripper) *Runtime[E] {
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &Runtime[E]{env: env, mux: mux, transport: transport}
}

// Env returns the parsed environment.
func (r *Runtime[E]) Env() E { return r.env }

// Mux returns the mux the app routes on.
func (r *Runtime[E]) Mux() *Mux { return r.mux }

// Client returns an [http.Client] that sends through the traced transport, for libraries that take
// a client.
func (r *Runtime[E]) Client() *http.Client {
	return &http.Client{Transport: r.transport}
}

// NewRequest starts an outbound request. It is sent through the traced transport, identifies the
// service in its User-Agent and fails on any non-2xx status unless the caller adds its own
// validators. Fetch it with the handler's ctx so the trace context is propagated.
func (r *Runtime[E]) NewRequest() *requests.Builder {
	return requests.New().
		Transport(r.transport).
		UserAgent(r.env.serviceName())
}
