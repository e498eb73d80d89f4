package bbasis

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

// ErrorHandler turns errors returned by handlers, and panics raised by them, into error responses.
// Every caught error is passed to the listeners before the response is generated.
type ErrorHandler struct {
	generator ErrorResponseGenerator
	listeners []ErrorListener
}

// NewErrorHandler inits the error handler.
func NewErrorHandler(generator ErrorResponseGenerator, listeners ...ErrorListener) *ErrorHandler {
	return &ErrorHandler{generator: generator, listeners: listeners}
}

// Middleware returns the error handler as middleware. It should be the outer most middleware so it
// sees the errors of all others.
func (h *ErrorHandler) Middleware() Middleware {
	return func(next BareHandler) BareHandler {
		return BareHandlerFunc(func(w ResponseWriter, r *http.Request) error {
			err := serveRecovered(next, w, r)
			if err == nil {
				return nil
			}

			return h.Handle(w, r, err)
		})
	}
}

// Handle informs the listeners about err and replaces the response with the generated error
// response. An error is returned when no response could be generated, the caller then owns err.
func (h *ErrorHandler) Handle(w ResponseWriter, r *http.Request, err error) error {
	for _, l := range h.listeners {
		l.Trigger(err, r)
	}

	if _, buffered := w.Size(); !buffered {
		return errors.Wrap(err, "response was flushed before the error")
	}

	if gerr := h.generator.Generate(w, r, err); gerr != nil {
		return errors.WithSecondaryError(err, errors.Wrap(gerr, "generate error response"))
	}

	return nil
}

func serveRecovered(next BareHandler, w ResponseWriter, r *http.Request) (err error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}

		if v == http.ErrAbortHandler { //nolint:errorlint,goerr113
			panic(v)
		}

		if e, ok := v.(error); ok {
			err = errors.Wrap(e, "recovered")
			return
		}

		err = errors.Newf("recovered: %v", v)
	}()

	return next.ServeBareBHTTP(w, r)
}
