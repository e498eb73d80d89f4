package bapp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/advdv/bbasis"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewViews(t *testing.T) {
	views, err := NewViews()
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/missing", nil)

	t.Run("error view without debug", func(t *testing.T) {
		out, err := views.Render("error", map[string]any{
			"request":   r,
			"exception": bbasis.Forbidden("", errors.New("secret")),
			"debug":     false,
		})
		require.NoError(t, err)
		assert.Contains(t, out, "<h1>403 Forbidden</h1>")
		assert.NotContains(t, out, "secret")
	})

	t.Run("error view with its own reason phrase", func(t *testing.T) {
		out, err := views.Render("error", map[string]any{
			"request":   r,
			"exception": bbasis.BadRequest("Error when parsing JSON request body: Syntax error", nil),
			"debug":     false,
		})
		require.NoError(t, err)
		assert.Contains(t, out, "<title>400 Error when parsing JSON request body: Syntax error</title>")
		assert.Contains(t, out, "<h1>400 Error when parsing JSON request body: Syntax error</h1>")
	})

	t.Run("error view with debug", func(t *testing.T) {
		out, err := views.Render("error", map[string]any{
			"request":   r,
			"exception": errors.New("secret"),
			"debug":     true,
		})
		require.NoError(t, err)
		assert.Contains(t, out, "<h1>500 Internal Server Error</h1>")
		assert.Contains(t, out, "secret")
		assert.Contains(t, out, "GET http://example.com/missing")
	})

	t.Run("not found view", func(t *testing.T) {
		out, err := views.Render("not-found", map[string]any{"request": r, "debug": true})
		require.NoError(t, err)
		assert.Contains(t, out, "<h1>404 Not Found</h1>")
		assert.Contains(t, out, "No route matches GET http://example.com/missing")
	})
}

func TestNewErrorResponseGenerator(t *testing.T) {
	views, err := NewViews()
	require.NoError(t, err)

	generate := func(env testEnv) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		w := bbasis.NewResponseWriter(rec, -1)
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		require.NoError(t, NewErrorResponseGenerator(env, views).Generate(w, r, bbasis.BadRequest("", nil)))
		require.NoError(t, w.FlushBuffer())
		return rec
	}

	t.Run("json", func(t *testing.T) {
		rec := generate(testEnv{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Bad Request", gjson.Get(rec.Body.String(), "message").String())
	})

	t.Run("html", func(t *testing.T) {
		rec := generate(testEnv{format: ErrorFormatHTML})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "text/html; charset=UTF-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "<h1>400 Bad Request</h1>")
	})
}

func TestNewNotFoundHandler(t *testing.T) {
	views, err := NewViews()
	require.NoError(t, err)

	assert.IsType(t, &bbasis.NotFoundJSONHandler{}, NewNotFoundHandler(testEnv{}, views))
	assert.IsType(t, &bbasis.NotFoundHandler{}, NewNotFoundHandler(testEnv{format: ErrorFormatHTML}, views))
}

func TestNewErrorHandler(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)

	var triggered []error
	eh, err := NewErrorHandler(ErrorHandlerParams{
		Env:       testEnv{loggedCodes: "500-599"},
		Logger:    zap.New(core),
		Generator: bbasis.NewJSONErrorGenerator(false),
		Config: ServerConfig{ErrorListeners: []bbasis.ErrorListener{
			bbasis.ErrorListenerFunc(func(err error, _ *http.Request) { triggered = append(triggered, err) }),
		}},
	})
	require.NoError(t, err)

	handle := func(herr error) {
		w := bbasis.NewResponseWriter(httptest.NewRecorder(), -1)
		require.NoError(t, eh.Handle(w, httptest.NewRequest(http.MethodGet, "/", nil), herr))
	}

	handle(bbasis.NotFound("", nil))
	assert.Empty(t, logs.All(), "404 is not covered by the logged status codes")

	handle(errors.New("boom"))
	entries := logs.TakeAll()
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].Message)
	assert.Equal(t, "bbasis.bapp", entries[0].LoggerName)
	assert.Contains(t, entries[0].ContextMap(), "exception")
	assert.Contains(t, entries[0].ContextMap(), "request")

	assert.Len(t, triggered, 2, "configured listeners see every error")

	t.Run("invalid expression", func(t *testing.T) {
		_, err := NewErrorHandler(ErrorHandlerParams{Env: testEnv{loggedCodes: "x"}, Logger: zap.NewNop()})
		require.Error(t, err)
	})
}
