package bbasis

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
)

// ErrorResponseGenerator turns a caught error into a response. Implementations must not fail for
// any error value, a returned error means the response itself could not be produced.
type ErrorResponseGenerator interface {
	Generate(w ResponseWriter, r *http.Request, err error) error
}

// ErrorPayload is the body of JSON error responses. Exception and Request are only set in debug mode.
type ErrorPayload struct {
	Name      string `json:"name"`
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Exception any    `json:"exception,omitempty"`
	Request   any    `json:"request,omitempty"`
}

// TemplateErrorGenerator renders errors through a view. The view receives the response, the request,
// the error as "exception" and the debug flag, and decides what to reveal.
type TemplateErrorGenerator struct {
	factory  ResponseFactory
	renderer Renderer
	view     string
	debug    bool
}

// NewTemplateErrorGenerator inits the generator.
func NewTemplateErrorGenerator(factory ResponseFactory, renderer Renderer, view string, debug bool) *TemplateErrorGenerator {
	return &TemplateErrorGenerator{factory: factory, renderer: renderer, view: view, debug: debug}
}

// Generate implements [ErrorResponseGenerator].
func (g *TemplateErrorGenerator) Generate(w ResponseWriter, r *http.Request, err error) error {
	g.factory.CreateResponse(w, StatusCodeOf(err))

	out, rerr := g.renderer.Render(g.view, map[string]any{
		"response":  w,
		"request":   r,
		"exception": err,
		"debug":     g.debug,
	})
	if rerr != nil {
		return errors.Wrap(rerr, "render error view")
	}

	if _, werr := io.WriteString(w, out); werr != nil {
		return errors.Wrap(werr, "write error view")
	}

	return nil
}

// JSONErrorGenerator answers errors with an [ErrorPayload].
type JSONErrorGenerator struct {
	debug bool
}

// NewJSONErrorGenerator inits the generator. In debug mode the payload includes the diagnostic records
// of the error and the request.
func NewJSONErrorGenerator(debug bool) *JSONErrorGenerator {
	return &JSONErrorGenerator{debug: debug}
}

// Generate implements [ErrorResponseGenerator].
func (g *JSONErrorGenerator) Generate(w ResponseWriter, r *http.Request, err error) error {
	code := StatusCodeOf(err)
	payload := ErrorPayload{Name: "Error", Code: int(code), Message: PhraseOf(code)}

	if g.debug {
		payload.Exception = Normalize(ExtractException(err))
		payload.Request = Normalize(ExtractRequest(r))
	}

	return WriteJSON(w, code, payload)
}

// WriteJSON replaces the response with v encoded as JSON. Slashes, unicode and html characters are
// written as is.
func WriteJSON(w ResponseWriter, code Code, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "encode json response")
	}

	w.Reset()
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(int(code))

	if _, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))); err != nil {
		return errors.Wrap(err, "write json response")
	}

	return nil
}

var (
	_ ErrorResponseGenerator = &TemplateErrorGenerator{}
	_ ErrorResponseGenerator = &JSONErrorGenerator{}
)
