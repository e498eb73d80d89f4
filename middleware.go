package bbasis

import "github.com/samber/lo"

// Middleware adds behavior around a [BareHandler], for example error handling or request logging.
type Middleware func(BareHandler) BareHandler

// Wrap chains the middleware around h. The first middleware is the outer most, it sees the request
// first and the returned error last, as with Gorilla and Chi.
func Wrap(h Handler, m ...Middleware) BareHandler {
	return wrapBare(ToBare(h), m...)
}

func wrapBare(h BareHandler, m ...Middleware) BareHandler {
	return lo.ReduceRight(m, func(inner BareHandler, mw Middleware, _ int) BareHandler {
		return mw(inner)
	}, h)
}
