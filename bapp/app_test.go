package bapp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/advdv/bbasis"
	"github.com/advdv/bbasis/bapp"
	"github.com/advdv/bbasis/bapp/bapptest"
	"github.com/carlmjohnson/requests"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/fx"
)

// TestEnv is a test environment with app-specific fields beyond BaseEnvironment.
type TestEnv struct {
	bapp.BaseEnvironment
	TableName string `env:"TABLE_NAME,required"`
}

// Handlers demonstrates injecting the runtime into handlers.
type Handlers struct {
	rt *bapp.Runtime[TestEnv]
}

func NewHandlers(rt *bapp.Runtime[TestEnv]) *Handlers {
	return &Handlers{rt: rt}
}

func (h *Handlers) GetItem(ctx context.Context, w bbasis.ResponseWriter, r *http.Request) error {
	id := r.PathValue("id")
	if id == "missing" {
		return bbasis.NotFound("", errors.Newf("item %q does not exist", id))
	}

	bapp.Log(ctx).Info("getting item")
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"id":         id,
		"table":      h.rt.Env().TableName,
		"span_valid": bapp.Span(ctx).SpanContext().IsValid(),
	})
}

func (h *Handlers) CreateItem(_ context.Context, w bbasis.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	return json.NewEncoder(w).Encode(map[string]any{"data": bbasis.ParsedBody(r)})
}

func (h *Handlers) Fail(context.Context, bbasis.ResponseWriter, *http.Request) error {
	return errors.New("database is down")
}

func (h *Handlers) Panic(context.Context, bbasis.ResponseWriter, *http.Request) error {
	panic("unexpected")
}

func (h *Handlers) Proxy(ctx context.Context, w bbasis.ResponseWriter, _ *http.Request) error {
	var item map[string]any
	if err := h.rt.NewRequest().
		BaseURL("http://localhost:" + strconv.Itoa(h.rt.Env().Port)).
		Path("/items/from-proxy").
		ToJSON(&item).
		Fetch(ctx); err != nil {
		return bbasis.NewError(bbasis.CodeBadGateway, "", err)
	}

	return bbasis.WriteJSON(w, bbasis.Code(http.StatusOK), item)
}

func routing(m *bapp.Mux, h *Handlers) {
	m.HandleFunc("GET /items/{id}", h.GetItem)
	m.HandleFunc("POST /items", h.CreateItem)
	m.HandleFunc("GET /fail", h.Fail)
	m.HandleFunc("GET /panic", h.Panic)
	m.HandleFunc("GET /proxy", h.Proxy)
}

type recordedErrors struct {
	mu   sync.Mutex
	errs []error
}

func (r *recordedErrors) Trigger(err error, _ *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recordedErrors) All() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}

func TestApp_JSON(t *testing.T) {
	bapptest.SetBaseEnv(t, 18181).ServiceName("items").MaxBodyBytes(64)
	t.Setenv("TABLE_NAME", "items-table")

	var listened recordedErrors
	app := bapptest.New[TestEnv](t, routing,
		bapp.WithFx(fx.Provide(NewHandlers)),
		bapp.WithErrorListener(&listened),
	)
	app.RequireStart()
	t.Cleanup(app.RequireStop)

	ctx := context.Background()
	base := "http://localhost:18181"

	t.Run("health", func(t *testing.T) {
		err := requests.URL(base + "/health").CheckStatus(http.StatusOK).Fetch(ctx)
		require.NoError(t, err)
	})

	t.Run("get item", func(t *testing.T) {
		var body string
		headers := http.Header{}
		err := requests.URL(base + "/items/42").CopyHeaders(headers).ToString(&body).Fetch(ctx)
		require.NoError(t, err)

		assert.Equal(t, "42", gjson.Get(body, "id").String())
		assert.Equal(t, "items-table", gjson.Get(body, "table").String())
		assert.True(t, gjson.Get(body, "span_valid").Bool())
		assert.Equal(t, strconv.Itoa(len(body)), headers.Get("Content-Length"))
	})

	t.Run("json body is parsed", func(t *testing.T) {
		var body string
		err := requests.URL(base + "/items").
			BodyJSON(map[string]any{"name": "Test", "tags": []string{"a", "b"}}).
			CheckStatus(http.StatusCreated).
			ToString(&body).
			Fetch(ctx)
		require.NoError(t, err)

		assert.Equal(t, "Test", gjson.Get(body, "data.name").String())
		assert.Equal(t, "b", gjson.Get(body, "data.tags.1").String())
	})

	t.Run("form body is parsed", func(t *testing.T) {
		var body string
		err := requests.URL(base + "/items").
			BodyBytes([]byte("a[]=1&a[]=2&b[c]=3")).
			ContentType("application/x-www-form-urlencoded").
			CheckStatus(http.StatusCreated).
			ToString(&body).
			Fetch(ctx)
		require.NoError(t, err)

		assert.Equal(t, "2", gjson.Get(body, "data.a.1").String())
		assert.Equal(t, "3", gjson.Get(body, "data.b.c").String())
	})

	t.Run("malformed json", func(t *testing.T) {
		var body string
		err := requests.URL(base + "/items").
			BodyBytes([]byte(`{"name":`)).
			ContentType("application/json").
			CheckStatus(http.StatusBadRequest).
			ToString(&body).
			Fetch(ctx)
		require.NoError(t, err)

		assert.JSONEq(t, `{"name":"Error","code":400,"message":"Bad Request"}`, body)
	})

	t.Run("body too large", func(t *testing.T) {
		err := requests.URL(base + "/items").
			BodyJSON(map[string]string{"name": strings.Repeat("x", 128)}).
			CheckStatus(http.StatusRequestEntityTooLarge).
			Fetch(ctx)
		require.NoError(t, err)
	})

	t.Run("not found error", func(t *testing.T) {
		var body string
		err := requests.URL(base + "/items/missing").
			CheckStatus(http.StatusNotFound).
			ToString(&body).
			Fetch(ctx)
		require.NoError(t, err)

		assert.JSONEq(t, `{"name":"Error","code":404,"message":"Not Found"}`, body)
		assert.NotContains(t, body, "does not exist", "causes are not revealed without debug")
	})

	t.Run("unmatched route", func(t *testing.T) {
		var body string
		err := requests.URL(base + "/nowhere").
			CheckStatus(http.StatusNotFound).
			ToString(&body).
			Fetch(ctx)
		require.NoError(t, err)

		assert.JSONEq(t, `{"name":"Error","code":404,"message":"Not Found"}`, body)
	})

	t.Run("unclassified error", func(t *testing.T) {
		var body string
		err := requests.URL(base + "/fail").
			CheckStatus(http.StatusInternalServerError).
			ToString(&body).
			Fetch(ctx)
		require.NoError(t, err)

		assert.Equal(t, int64(500), gjson.Get(body, "code").Int())
		assert.NotContains(t, body, "database is down")
	})

	t.Run("panic", func(t *testing.T) {
		err := requests.URL(base + "/panic").
			CheckStatus(http.StatusInternalServerError).
			Fetch(ctx)
		require.NoError(t, err)
	})

	t.Run("outbound request", func(t *testing.T) {
		var body string
		err := requests.URL(base + "/proxy").ToString(&body).Fetch(ctx)
		require.NoError(t, err)

		assert.Equal(t, "from-proxy", gjson.Get(body, "id").String())
	})

	t.Run("listeners see every error", func(t *testing.T) {
		codes := make([]int, 0)
		for _, err := range listened.All() {
			codes = append(codes, int(bbasis.StatusCodeOf(err)))
		}

		assert.Contains(t, codes, http.StatusBadRequest)
		assert.Contains(t, codes, http.StatusRequestEntityTooLarge)
		assert.Contains(t, codes, http.StatusNotFound)
		assert.Contains(t, codes, http.StatusInternalServerError)
	})
}

func TestApp_HTMLDebug(t *testing.T) {
	bapptest.SetBaseEnv(t, 18182).ErrorFormat("html").Debug(true)
	t.Setenv("TABLE_NAME", "items-table")

	app := bapptest.New[TestEnv](t, routing, bapp.WithFx(fx.Provide(NewHandlers)))
	app.RequireStart()
	t.Cleanup(app.RequireStop)

	ctx := context.Background()
	base := "http://localhost:18182"

	t.Run("error view", func(t *testing.T) {
		var body string
		headers := http.Header{}
		err := requests.URL(base + "/fail").
			CheckStatus(http.StatusInternalServerError).
			CopyHeaders(headers).
			ToString(&body).
			Fetch(ctx)
		require.NoError(t, err)

		assert.Equal(t, "text/html; charset=UTF-8", headers.Get("Content-Type"))
		assert.Contains(t, body, "<h1>500 Internal Server Error</h1>")
		assert.Contains(t, body, "database is down")
	})

	t.Run("not found view", func(t *testing.T) {
		var body string
		err := requests.URL(base + "/nowhere").
			CheckStatus(http.StatusNotFound).
			ToString(&body).
			Fetch(ctx)
		require.NoError(t, err)

		assert.Contains(t, body, "No route matches GET")
	})
}

func TestApp_CustomHandlers(t *testing.T) {
	bapptest.SetBaseEnv(t, 18183).HealthCheckPath("/ready")
	t.Setenv("TABLE_NAME", "items-table")

	app := bapptest.New[TestEnv](t, routing,
		bapp.WithFx(fx.Provide(NewHandlers)),
		bapp.WithHealthHandler(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		}),
		bapp.WithNotFoundHandler(bbasis.HandlerFunc(func(_ context.Context, w bbasis.ResponseWriter, _ *http.Request) error {
			w.WriteHeader(http.StatusGone)
			return nil
		})),
		bapp.WithMiddleware(func(next bbasis.BareHandler) bbasis.BareHandler {
			return bbasis.BareHandlerFunc(func(w bbasis.ResponseWriter, r *http.Request) error {
				w.Header().Set("X-Custom", "yes")
				return next.ServeBareBHTTP(w, r)
			})
		}),
	)
	app.RequireStart()
	t.Cleanup(app.RequireStop)

	ctx := context.Background()

	headers := http.Header{}
	err := requests.URL("http://localhost:18183/ready").
		CheckStatus(http.StatusAccepted).
		CopyHeaders(headers).
		Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "yes", headers.Get("X-Custom"))

	err = requests.URL("http://localhost:18183/nowhere").CheckStatus(http.StatusGone).Fetch(ctx)
	require.NoError(t, err)
}

func TestApp_InvalidEnv(t *testing.T) {
	bapptest.SetBaseEnv(t, 18184).LoggedStatusCodes("400-499")
	t.Setenv("TABLE_NAME", "items-table")

	app := fx.New(bapp.FxOptions[TestEnv](routing, bapp.WithFx(fx.Provide(NewHandlers)))...)
	require.Error(t, app.Err())
	assert.Contains(t, app.Err().Error(), "missing: [500 504]")
}

func TestApp_EnvParser(t *testing.T) {
	bapptest.SetBaseEnv(t, 18185).LoggedStatusCodes("500")
	t.Setenv("TABLE_NAME", "items-table")

	app := fx.New(bapp.FxOptions[TestEnv](routing,
		bapp.WithFx(fx.Provide(NewHandlers)),
		bapp.WithEnvParser(bapp.ParseEnvWithRequiredStatusCodes[TestEnv](500)),
	)...)
	require.NoError(t, app.Err())
}
