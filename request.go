package bbasis

import (
	"context"
	"maps"
	"net/http"
)

// ctxKey scopes the request values this package stores in the request context.
type ctxKey int

const (
	ctxKeyParsedBody ctxKey = iota
	ctxKeyAttributes
	ctxKeyServerParams
)

// ServerParamScriptName is the server parameter holding the path prefix the request was routed under.
const ServerParamScriptName = "SCRIPT_NAME"

// ParsedBody returns the body that was parsed for the request, or nil if none was attached.
func ParsedBody(r *http.Request) map[string]any {
	body, _ := r.Context().Value(ctxKeyParsedBody).(map[string]any)
	return body
}

// WithParsedBody returns a shallow copy of r that carries body as its parsed body.
func WithParsedBody(r *http.Request, body map[string]any) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxKeyParsedBody, body))
}

// Attributes returns the attributes that were attached to the request. The returned map must not be
// modified.
func Attributes(r *http.Request) map[string]any {
	attrs, _ := r.Context().Value(ctxKeyAttributes).(map[string]any)
	if attrs == nil {
		return map[string]any{}
	}

	return attrs
}

// Attribute returns a single request attribute.
func Attribute(r *http.Request, name string) (any, bool) {
	v, ok := Attributes(r)[name]
	return v, ok
}

// WithAttribute returns a shallow copy of r with the named attribute set. Attributes of r itself are
// left untouched.
func WithAttribute(r *http.Request, name string, value any) *http.Request {
	attrs := maps.Clone(Attributes(r))
	attrs[name] = value

	return r.WithContext(context.WithValue(r.Context(), ctxKeyAttributes, attrs))
}

// ServerParams returns the server parameters that were attached to the request.
func ServerParams(r *http.Request) map[string]string {
	params, _ := r.Context().Value(ctxKeyServerParams).(map[string]string)
	if params == nil {
		return map[string]string{}
	}

	return params
}

// WithServerParam returns a shallow copy of r with the named server parameter set.
func WithServerParam(r *http.Request, name, value string) *http.Request {
	params := maps.Clone(ServerParams(r))
	params[name] = value

	return r.WithContext(context.WithValue(r.Context(), ctxKeyServerParams, params))
}
