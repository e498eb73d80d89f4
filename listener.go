package bbasis

import "net/http"

// ErrorListener is informed about errors caught while serving a request. Listeners observe, they
// never influence the response.
type ErrorListener interface {
	Trigger(err error, r *http.Request)
}

// ErrorListenerFunc allows casting a function to implement [ErrorListener].
type ErrorListenerFunc func(error, *http.Request)

// Trigger implements [ErrorListener].
func (f ErrorListenerFunc) Trigger(err error, r *http.Request) { f(err, r) }

// LogErrorListener logs caught errors together with the diagnostic records of the error and the
// request.
type LogErrorListener struct {
	logs Logger
}

// NewLogErrorListener inits the listener.
func NewLogErrorListener(logs Logger) *LogErrorListener {
	return &LogErrorListener{logs: logs}
}

// Trigger implements [ErrorListener].
func (l *LogErrorListener) Trigger(err error, r *http.Request) {
	l.logs.LogError(r.Context(), messageOf(err), map[string]any{
		"exception": ExtractException(err),
		"request":   ExtractRequest(r),
	})
}

var (
	_ ErrorListener = &LogErrorListener{}
	_ ErrorListener = ErrorListenerFunc(nil)
)
