package bbasis

import (
	"bytes"
	"maps"
	"net/http"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrBufferFull is returned when a write would grow the response buffer past its limit.
var ErrBufferFull = errors.New("bbasis: response buffer is full")

var bufPool = sync.Pool{New: func() any { return new(bytes.Buffer) }}

// ResponseBuffer holds the status, headers and body of a response until it is flushed. Until then
// the response can be reset and rewritten completely.
type ResponseBuffer struct {
	resp   http.ResponseWriter
	buf    *bytes.Buffer
	limit  int
	header http.Header
	status int

	wroteHeader bool
	flushed     bool
}

// NewResponseWriter buffers writes to resp. A negative limit disables the size limit.
func NewResponseWriter(resp http.ResponseWriter, limit int) *ResponseBuffer {
	return newBufferResponse(resp, limit)
}

func newBufferResponse(resp http.ResponseWriter, limit int) *ResponseBuffer {
	buf, _ := bufPool.Get().(*bytes.Buffer)
	buf.Reset()

	return &ResponseBuffer{
		resp:   resp,
		buf:    buf,
		limit:  limit,
		header: http.Header{},
		status: http.StatusOK,
	}
}

// Header returns the buffered headers, or the underlying headers once the response was flushed.
func (w *ResponseBuffer) Header() http.Header {
	if w.flushed {
		return w.resp.Header()
	}

	return w.header
}

// Write buffers p. Once the response was flushed, writes go straight to the underlying writer.
func (w *ResponseBuffer) Write(p []byte) (int, error) {
	if w.flushed {
		return w.resp.Write(p)
	}

	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}

	if w.limit >= 0 && w.buf.Len()+len(p) > w.limit {
		return 0, errors.Wrapf(ErrBufferFull, "writing %d bytes with %d of %d buffered", len(p), w.buf.Len(), w.limit)
	}

	return w.buf.Write(p)
}

// WriteHeader records the status code. Only the first call after construction or a reset has effect.
func (w *ResponseBuffer) WriteHeader(statusCode int) {
	if w.flushed || w.wroteHeader {
		return
	}

	w.status = statusCode
	w.wroteHeader = true
}

// StatusCode returns the status the response will be sent with.
func (w *ResponseBuffer) StatusCode() int { return w.status }

// Size returns the number of buffered body bytes. The size is unknown once the response has been
// flushed, since the body is then streamed.
func (w *ResponseBuffer) Size() (int, bool) {
	if w.flushed {
		return 0, false
	}

	return w.buf.Len(), true
}

// Reset discards the buffered status, headers and body. It panics when the response was already
// flushed to the client.
func (w *ResponseBuffer) Reset() {
	if w.flushed {
		panic("bbasis: cannot reset response, it was already flushed")
	}

	w.buf.Reset()
	w.header = http.Header{}
	w.status = http.StatusOK
	w.wroteHeader = false
}

// FlushBuffer writes the status, headers and buffered body to the underlying writer.
func (w *ResponseBuffer) FlushBuffer() error {
	if !w.flushed {
		dst := w.resp.Header()
		for k, vs := range w.header {
			dst[k] = slices.Clone(vs)
		}

		w.resp.WriteHeader(w.status)
		w.flushed = true
	}

	if w.buf.Len() == 0 {
		return nil
	}

	defer w.buf.Reset()
	if _, err := w.resp.Write(w.buf.Bytes()); err != nil {
		return errors.Wrap(err, "write buffered body")
	}

	return nil
}

// FlushError flushes the buffer and then the underlying writer. It makes [http.ResponseController]
// flushes work on the buffered response.
func (w *ResponseBuffer) FlushError() error {
	if err := w.FlushBuffer(); err != nil {
		return err
	}

	err := http.NewResponseController(w.resp).Flush()
	if errors.Is(err, http.ErrNotSupported) {
		return nil
	}

	return err
}

// Flush implements [http.Flusher].
func (w *ResponseBuffer) Flush() { _ = w.FlushError() }

// Unwrap returns the underlying writer.
func (w *ResponseBuffer) Unwrap() http.ResponseWriter { return w.resp }

// Free returns the buffer to the pool. The response must not be used afterwards.
func (w *ResponseBuffer) Free() {
	if w.buf == nil {
		return
	}

	w.buf.Reset()
	bufPool.Put(w.buf)
	w.buf = nil
}

// ResponseFactory prepares a buffered response to carry a fresh response with the given status.
type ResponseFactory interface {
	CreateResponse(w ResponseWriter, code Code)
}

// HeaderResponseFactory resets the response and applies a fixed set of default headers.
type HeaderResponseFactory struct {
	headers http.Header
}

// NewResponseFactory inits a factory applying headers to every response it creates. With nil headers
// responses default to html.
func NewResponseFactory(headers http.Header) *HeaderResponseFactory {
	if headers == nil {
		headers = http.Header{"Content-Type": {"text/html; charset=UTF-8"}}
	}

	return &HeaderResponseFactory{headers: maps.Clone(headers)}
}

// CreateResponse implements [ResponseFactory].
func (f *HeaderResponseFactory) CreateResponse(w ResponseWriter, code Code) {
	w.Reset()
	for k, vs := range f.headers {
		w.Header()[k] = slices.Clone(vs)
	}

	w.WriteHeader(int(code))
}

var (
	_ ResponseWriter  = &ResponseBuffer{}
	_ ResponseFactory = &HeaderResponseFactory{}
)
