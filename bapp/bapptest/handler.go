package bapptest

import (
	"net/http"
	"net/http/httptest"

	"github.com/advdv/bbasis"
)

// CallHandler invokes a [bbasis.HandlerFunc] with a buffered response writer and
// returns the recorded response. It handles the boilerplate of wrapping
// [httptest.ResponseRecorder] in a [bbasis.ResponseWriter] and flushing the
// buffer afterward.
func CallHandler(handler bbasis.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	w := bbasis.NewResponseWriter(rec, -1)

	if err := handler(req.Context(), w, req); err != nil {
		panic("bapptest: handler returned error: " + err.Error())
	}

	if err := w.FlushBuffer(); err != nil {
		panic("bapptest: FlushBuffer failed: " + err.Error())
	}

	return rec
}

// CallHandlerErr is like [CallHandler] but returns the handler's error instead of panicking. The
// response is only flushed when the handler succeeded.
func CallHandlerErr(handler bbasis.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, error) {
	rec := httptest.NewRecorder()
	w := bbasis.NewResponseWriter(rec, -1)

	if err := handler(req.Context(), w, req); err != nil {
		return rec, err
	}

	return rec, w.FlushBuffer()
}
