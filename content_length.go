package bbasis

import (
	"net/http"
	"strconv"
)

// ContentLength returns middleware that sets the Content-Length header to the size of the buffered
// response. An existing header is never touched, and nothing is set once the response was flushed
// since the size is unknown by then.
func ContentLength() Middleware {
	return func(next BareHandler) BareHandler {
		return BareHandlerFunc(func(w ResponseWriter, r *http.Request) error {
			if err := next.ServeBareBHTTP(w, r); err != nil {
				return err
			}

			size, known := w.Size()
			if !known || w.Header().Get("Content-Length") != "" {
				return nil
			}

			w.Header().Set("Content-Length", strconv.Itoa(size))

			return nil
		})
	}
}
