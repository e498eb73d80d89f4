package bbasis

import (
	"net/http"
	"strings"
)

// Mount serves handler for every request below the pattern's path. The handler sees the path
// relative to the mount point, see [ServeMux.MountBare].
func (m *ServeMux) Mount(pattern string, handler Handler) {
	m.MountBare(pattern, ToBare(handler))
}

// MountFunc is [ServeMux.Mount] for a function.
func (m *ServeMux) MountFunc(pattern string, handler HandlerFunc) {
	m.Mount(pattern, handler)
}

// MountStd mounts a standard library [http.Handler], for example a sub-mux or a file server. It
// owns its error responses, see the package-level section "Standard library handlers and error
// ownership".
func (m *ServeMux) MountStd(pattern string, handler http.Handler) {
	m.MountBare(pattern, BareHandlerFunc(func(w ResponseWriter, r *http.Request) error {
		handler.ServeHTTP(w, r)
		return nil
	}))
}

// MountBare registers handler for the pattern's path and everything below it. A pattern may start
// with a method, "GET /files" only mounts for GET requests.
//
// Middleware registered via Use() runs on the full path. The mounted handler receives the path with
// the prefix removed ("/" for the mount point itself), and the prefix is appended to the
// [ServerParamScriptName] server parameter so nested mounts accumulate it.
func (m *ServeMux) MountBare(pattern string, handler BareHandler) {
	method, prefix := cutMethod(pattern)
	m.route(method+prefix, withScriptName(prefix, handler), method+prefix+"/")
}

// cutMethod splits "GET /files" into "GET " and "/files".
func cutMethod(pattern string) (method, path string) {
	if i := strings.IndexByte(pattern, ' '); i >= 0 {
		return pattern[:i+1], strings.TrimLeft(pattern[i+1:], " \t")
	}

	return "", pattern
}

func withScriptName(prefix string, next BareHandler) BareHandler {
	return BareHandlerFunc(func(w ResponseWriter, r *http.Request) error {
		u := *r.URL
		u.Path = relativeTo(prefix, u.Path)
		if u.RawPath != "" {
			u.RawPath = relativeTo(prefix, u.RawPath)
		}

		r = WithServerParam(r, ServerParamScriptName, ServerParams(r)[ServerParamScriptName]+prefix)
		r.URL = &u

		return next.ServeBareBHTTP(w, r)
	})
}

func relativeTo(prefix, path string) string {
	if rel := strings.TrimPrefix(path, prefix); rel != "" {
		return rel
	}

	return "/"
}
