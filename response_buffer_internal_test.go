package bbasis

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func BenchmarkResponseBuffer(b *testing.B) {
	for _, size := range []int{1 << 10, 64 << 10} {
		dat := make([]byte, size)
		b.Run(strconv.Itoa(size), func(b *testing.B) {
			b.ReportAllocs()
			for range b.N {
				resp := newBufferResponse(httptest.NewRecorder(), -1)
				if _, err := resp.Write(dat); err != nil {
					b.Fatal(err)
				}

				if err := resp.FlushBuffer(); err != nil {
					b.Fatal(err)
				}

				resp.Free()
			}
		})
	}
}

// TestBufferMatchesUnbuffered runs each handler against a plain recorder and against a buffered
// response that is flushed afterwards; both must end up the same.
func TestBufferMatchesUnbuffered(t *testing.T) {
	for name, handler := range map[string]func(http.ResponseWriter){
		"implicit status": func(http.ResponseWriter) {},
		"explicit status": func(w http.ResponseWriter) { w.WriteHeader(http.StatusCreated) },
		"header only": func(w http.ResponseWriter) {
			w.Header().Set("Rab", "dar")
			w.Header().Set("Dar", "tab")
		},
		"header and body": func(w http.ResponseWriter) {
			w.Header().Set("Rab", "dar")
			fmt.Fprint(w, "foo")
		},
		"status after body": func(w http.ResponseWriter) {
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, "bar")
			w.WriteHeader(http.StatusAccepted)
		},
		"header after status": func(w http.ResponseWriter) {
			w.Header().Set("Rab", "dar")
			w.WriteHeader(http.StatusAccepted)
			w.Header().Set("Dar", "tab")
		},
		"header after explicit flush": func(w http.ResponseWriter) {
			w.Header().Set("Rab", "dar")
			fmt.Fprint(w, "aaa")
			_ = http.NewResponseController(w).Flush()
			w.Header().Set("Dar", "tab")
		},
	} {
		t.Run(name, func(t *testing.T) {
			plain := httptest.NewRecorder()
			handler(plain)

			rec := httptest.NewRecorder()
			buffered := newBufferResponse(rec, 10)
			handler(buffered)
			require.NoError(t, buffered.FlushBuffer())

			assert.Equal(t, plain.Code, rec.Code)
			assert.Equal(t, plain.Body.String(), rec.Body.String())
			assert.Equal(t, plain.Result().Header.Get("Rab"), rec.Result().Header.Get("Rab"))
		})
	}
}

func TestBufferLimit(t *testing.T) {
	for _, tt := range []struct {
		name   string
		limit  int
		writes [][]byte
		full   bool
	}{
		{"exact fit", 1, [][]byte{{0x01}}, false},
		{"second write overflows", 1, [][]byte{{0x01}, {0x02}}, true},
		{"single write overflows", 1, [][]byte{{0x01, 0x02}}, true},
		{"unlimited", -1, [][]byte{{0x01, 0x02}, {0x03}}, false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			resp := newBufferResponse(rec, tt.limit)

			var err error
			for _, w := range tt.writes {
				if _, err = resp.Write(w); err != nil {
					break
				}
			}

			if tt.full {
				require.ErrorIs(t, err, ErrBufferFull)
			} else {
				require.NoError(t, err)
			}

			assert.Zero(t, rec.Body.Len(), "nothing reaches the client before a flush")
		})
	}

	t.Run("limit applies per flush", func(t *testing.T) {
		rec := httptest.NewRecorder()
		resp := newBufferResponse(rec, 2)
		for range 3 {
			_, err := resp.Write([]byte("ab"))
			require.NoError(t, err)
			require.NoError(t, resp.FlushError())
		}

		assert.Equal(t, "ababab", rec.Body.String())
	})

	t.Run("limit applies per reset", func(t *testing.T) {
		rec := httptest.NewRecorder()
		resp := newBufferResponse(rec, 2)
		for range 3 {
			resp.Reset()
			_, err := resp.Write([]byte("fo"))
			require.NoError(t, err)
		}

		require.NoError(t, resp.FlushError())
		assert.Equal(t, "fo", rec.Body.String())
	})
}

func TestBufferReset(t *testing.T) {
	rec := httptest.NewRecorder()
	resp := newBufferResponse(rec, -1)
	resp.Header().Set("X-Before", "before")
	resp.WriteHeader(http.StatusCreated)
	fmt.Fprint(resp, "foo")

	resp.Reset()
	resp.Header().Set("X-After", "after")
	fmt.Fprint(resp, "bar")
	require.NoError(t, resp.FlushError())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bar", rec.Body.String())
	assert.Equal(t, "after", rec.Header().Get("X-After"))
	assert.Empty(t, rec.Header().Values("X-Before"))

	t.Run("not after an explicit flush", func(t *testing.T) {
		resp := newBufferResponse(httptest.NewRecorder(), -1)
		require.NoError(t, http.NewResponseController(resp).Flush())
		assert.PanicsWithValue(t, "bbasis: cannot reset response, it was already flushed", resp.Reset)
	})
}

func TestBufferPassThrough(t *testing.T) {
	rec := httptest.NewRecorder()
	assert.Equal(t, http.ResponseWriter(rec), newBufferResponse(rec, 0).Unwrap())

	resp := newBufferResponse(failingResponseWriter{rec}, -1)
	fmt.Fprint(resp, "foo")
	require.ErrorContains(t, resp.FlushError(), "write fail")
}

func TestResponseSize(t *testing.T) {
	rec := httptest.NewRecorder()
	resp := newBufferResponse(rec, -1)
	defer resp.Free()

	size, known := resp.Size()
	require.True(t, known)
	require.Zero(t, size)

	fmt.Fprint(resp, "1234567")
	size, known = resp.Size()
	require.True(t, known)
	require.Equal(t, 7, size)

	require.NoError(t, resp.FlushError())
	_, known = resp.Size()
	require.False(t, known, "size is unknown once streamed")

	resp.Header().Set("X-Late", "yes")
	require.Equal(t, "yes", rec.Header().Get("X-Late"), "headers go to the underlying writer after flush")
}

func TestResponseFactory(t *testing.T) {
	t.Run("defaults to html", func(t *testing.T) {
		rec := httptest.NewRecorder()
		resp := newBufferResponse(rec, -1)
		resp.Header().Set("X-Stale", "1")
		fmt.Fprint(resp, "stale")

		NewResponseFactory(nil).CreateResponse(resp, CodeNotFound)
		fmt.Fprint(resp, "fresh")
		require.NoError(t, resp.FlushBuffer())

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "text/html; charset=UTF-8", rec.Header().Get("Content-Type"))
		assert.Empty(t, rec.Header().Get("X-Stale"))
		assert.Equal(t, "fresh", rec.Body.String())
	})

	t.Run("custom headers", func(t *testing.T) {
		rec := httptest.NewRecorder()
		resp := newBufferResponse(rec, -1)

		NewResponseFactory(http.Header{"Content-Type": {"application/json; charset=UTF-8"}}).
			CreateResponse(resp, CodeBadGateway)
		require.NoError(t, resp.FlushBuffer())

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "application/json; charset=UTF-8", rec.Header().Get("Content-Type"))
	})
}

type failingResponseWriter struct {
	http.ResponseWriter
}

func (failingResponseWriter) Write([]byte) (int, error) {
	return 0, errors.New("write fail")
}
