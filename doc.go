// Package bbasis provides buffered HTTP handling with error-returning handlers, and the building
// blocks to turn errors into structured error responses.
//
// # Overview
//
// bbasis extends the standard library's HTTP handling with buffered response writers that allow
// complete response rewriting on errors, and handlers that return errors instead of requiring
// inline error handling. On top of that it classifies errors by HTTP status and renders them as
// JSON or through templates, optionally with a verbose debug payload.
//
// A minimal example:
//
//	mux := bbasis.NewServeMux()
//	mux.Use(
//	    bbasis.NewErrorHandler(bbasis.NewJSONErrorGenerator(false)).Middleware(),
//	    bbasis.BodyParams(),
//	    bbasis.ContentLength(),
//	)
//	mux.HandleFunc("GET /items/{id}", func(ctx context.Context, w bbasis.ResponseWriter, r *http.Request) error {
//	    item, err := db.GetItem(r.PathValue("id"))
//	    if err != nil {
//	        return bbasis.NotFound("", err)
//	    }
//	    return json.NewEncoder(w).Encode(item)
//	})
//	mux.NotFound(bbasis.NewNotFoundJSONHandler(false))
//
// # Buffered Response Writer
//
// The [ResponseWriter] interface extends http.ResponseWriter with buffering. All writes are held
// in memory until explicitly flushed or until the handler returns. This enables:
//
//   - Complete response replacement when errors occur mid-handler
//   - Headers modification after initial writes
//   - A known body size, see [ContentLength]
//
// Once a response is flushed, for example through [http.ResponseController], its size is unknown
// and it can no longer be replaced.
//
// # Errors
//
// [Error] carries a status [Code], a reason phrase and an optional cause. Named constructors such as
// [BadRequest] and [NotFound] cover the common cases, [NewError] any other code:
//
//	return bbasis.BadRequest("", errors.New("invalid input"))
//	return bbasis.NewError(bbasis.CodeConflict, "Already exists", err)
//
// [StatusCodeOf] resolves the status for a response. Errors that carry no code, or a code outside
// the 4xx and 5xx registry, become 500 Internal Server Error.
//
// # Error Responses
//
// The [ErrorHandler] middleware catches errors and panics of the handlers it wraps. It informs its
// [ErrorListener]s, for example a [LogErrorListener], and replaces the buffered response with the
// output of an [ErrorResponseGenerator]:
//
//   - [JSONErrorGenerator] answers with {"name", "code", "message"}, adding "exception" and
//     "request" diagnostic records in debug mode
//   - [TemplateErrorGenerator] renders a view through a [Renderer], the view decides what to reveal
//
// [NotFoundHandler] and [NotFoundJSONHandler] are the counterparts for requests that match no route.
//
// Debug payloads include headers and cookies verbatim, see [ExtractRequest]. Only enable debug mode
// in trusted environments.
//
// # Request Data
//
// Request scoped data lives in the request context. [BodyParams] parses JSON and url-encoded bodies
// into [ParsedBody], middleware may attach [Attributes], and [ServeMux.Mount] records the mount
// prefix as the [ServerParamScriptName] server parameter.
//
// # Middleware
//
// Middleware wraps handlers to add cross-cutting concerns. The [Middleware] type operates on
// [BareHandler]:
//
//	func loggingMiddleware(next bbasis.BareHandler) bbasis.BareHandler {
//	    return bbasis.BareHandlerFunc(func(w bbasis.ResponseWriter, r *http.Request) error {
//	        start := time.Now()
//	        err := next.ServeBareBHTTP(w, r)
//	        log.Printf("%s %s took %v", r.Method, r.URL.Path, time.Since(start))
//	        return err
//	    })
//	}
//
// Middleware provided first is the outer most. The [ErrorHandler] should come first so it sees the
// errors of all other middleware.
//
// # Standard library handlers and error ownership
//
// Handlers registered through [ServeMux.HandleStd] and [ServeMux.MountStd] never return errors, they
// own their error responses. Errors that reach the end of the chain without being handled are logged
// and answered with the status of the error and its standard reason phrase, see [ToStd].
package bbasis
