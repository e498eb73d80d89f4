package bbasis

import (
	"context"
	"net/http"
)

// ResponseWriter is an [http.ResponseWriter] that holds the response in memory until it is flushed,
// so middleware can discard it and answer with something else.
type ResponseWriter interface {
	http.ResponseWriter
	Reset()
	Free()
	FlushBuffer() error
	Size() (int, bool)
}

// Handler serves a request into a buffered response and may fail with an error.
type Handler interface {
	ServeBHTTP(ctx context.Context, w ResponseWriter, r *http.Request) error
}

// HandlerFunc is a function that implements [Handler].
type HandlerFunc func(context.Context, ResponseWriter, *http.Request) error

// ServeBHTTP calls f.
func (f HandlerFunc) ServeBHTTP(ctx context.Context, w ResponseWriter, r *http.Request) error {
	return f(ctx, w, r)
}

// BareHandler is what middleware wraps. Unlike [Handler] it takes no separate context, the request
// carries it.
type BareHandler interface {
	ServeBareBHTTP(w ResponseWriter, r *http.Request) error
}

// BareHandlerFunc is a function that implements [BareHandler].
type BareHandlerFunc func(ResponseWriter, *http.Request) error

// ServeBareBHTTP calls f.
func (f BareHandlerFunc) ServeBareBHTTP(w ResponseWriter, r *http.Request) error {
	return f(w, r)
}

// ToBare adapts h to a [BareHandler], passing it the request's context.
func ToBare(h Handler) BareHandler {
	return BareHandlerFunc(func(w ResponseWriter, r *http.Request) error {
		return h.ServeBHTTP(r.Context(), w, r)
	})
}

// ToStd adapts h to an [http.Handler]. Every request is served into a fresh buffer of at most bufLimit
// bytes that is flushed once h returns. An error that no middleware turned into a response is logged
// and, if the response is still buffered, answered with the error's status and reason phrase.
func ToStd(h BareHandler, bufLimit int, logs Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := NewResponseWriter(w, bufLimit)
		defer buf.Free()

		if err := h.ServeBareBHTTP(buf, r); err != nil {
			logs.LogUnhandledServeError(err)
			writeFallback(buf, err)
		}

		if err := buf.FlushBuffer(); err != nil {
			logs.LogImplicitFlushError(err)
		}
	})
}

// writeFallback replaces a still buffered response with the bare status line of err.
func writeFallback(w ResponseWriter, err error) {
	if _, buffered := w.Size(); !buffered {
		return
	}

	w.Reset()
	code := StatusCodeOf(err)
	http.Error(w, PhraseOf(code), int(code))
}
