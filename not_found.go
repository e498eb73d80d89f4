package bbasis

import (
	"context"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
)

// NotFoundHandler renders a view for requests that matched no route. The view receives the request
// and the debug flag.
type NotFoundHandler struct {
	factory  ResponseFactory
	renderer Renderer
	view     string
	debug    bool
}

// NewNotFoundHandler inits the handler.
func NewNotFoundHandler(factory ResponseFactory, renderer Renderer, view string, debug bool) *NotFoundHandler {
	return &NotFoundHandler{factory: factory, renderer: renderer, view: view, debug: debug}
}

// ServeBHTTP implements [Handler].
func (h *NotFoundHandler) ServeBHTTP(_ context.Context, w ResponseWriter, r *http.Request) error {
	h.factory.CreateResponse(w, CodeNotFound)

	out, err := h.renderer.Render(h.view, map[string]any{
		"debug":   h.debug,
		"request": r,
	})
	if err != nil {
		return errors.Wrap(err, "render not found view")
	}

	if _, err := io.WriteString(w, out); err != nil {
		return errors.Wrap(err, "write not found view")
	}

	return nil
}

// NotFoundJSONHandler answers requests that matched no route with an [ErrorPayload]. There is no
// error involved, so in debug mode only the request record is included.
type NotFoundJSONHandler struct {
	debug bool
}

// NewNotFoundJSONHandler inits the handler.
func NewNotFoundJSONHandler(debug bool) *NotFoundJSONHandler {
	return &NotFoundJSONHandler{debug: debug}
}

// ServeBHTTP implements [Handler].
func (h *NotFoundJSONHandler) ServeBHTTP(_ context.Context, w ResponseWriter, r *http.Request) error {
	payload := ErrorPayload{Name: "Error", Code: int(CodeNotFound), Message: PhraseOf(CodeNotFound)}
	if h.debug {
		payload.Request = Normalize(ExtractRequest(r))
	}

	return WriteJSON(w, CodeNotFound, payload)
}

var (
	_ Handler = &NotFoundHandler{}
	_ Handler = &NotFoundJSONHandler{}
)
