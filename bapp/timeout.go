package bapp

import (
	"context"
	"net/http"
	"time"

	"github.com/advdv/bbasis"
	"github.com/cockroachdb/errors"
)

// DefaultDeadlineBuffer is the time the server grants a handler past its request deadline to write
// the timeout response.
const DefaultDeadlineBuffer = 500 * time.Millisecond

// maxReadHeaderTimeout bounds how long a client may take to send its headers.
const maxReadHeaderTimeout = 5 * time.Second

// ServerTimeouts are the connection level timeouts of the [http.Server]. They are outer bounds, a
// handler is stopped earlier through its request context.
type ServerTimeouts struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
}

// NewServerTimeouts derives the server timeouts from the request timeout plus buffer. A buffer of
// zero or less means [DefaultDeadlineBuffer].
func NewServerTimeouts(requestTimeout, buffer time.Duration) ServerTimeouts {
	if buffer <= 0 {
		buffer = DefaultDeadlineBuffer
	}

	outer := requestTimeout + buffer

	return ServerTimeouts{
		ReadHeader: min(outer, maxReadHeaderTimeout),
		Read:       outer,
		Write:      outer,
		Idle:       outer,
	}
}

// Apply sets the timeouts on srv.
func (st ServerTimeouts) Apply(srv *http.Server) {
	srv.ReadHeaderTimeout, srv.ReadTimeout = st.ReadHeader, st.Read
	srv.WriteTimeout, srv.IdleTimeout = st.Write, st.Idle
}

// WithRequestDeadline returns middleware that cancels the request context after timeout. An error
// caused by the deadline that carries no status of its own becomes a 504 Gateway Timeout. A
// timeout of zero or less leaves the request unbounded.
func WithRequestDeadline(timeout time.Duration) bbasis.Middleware {
	return func(next bbasis.BareHandler) bbasis.BareHandler {
		if timeout <= 0 {
			return next
		}

		return bbasis.BareHandlerFunc(func(w bbasis.ResponseWriter, r *http.Request) error {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			err := next.ServeBareBHTTP(w, r.WithContext(ctx))
			if ctx.Err() == nil || !errors.Is(err, context.DeadlineExceeded) || bbasis.CodeOf(err) != bbasis.CodeUnknown {
				return err
			}

			return bbasis.NewError(bbasis.CodeGatewayTimeout, "", err)
		})
	}
}

// RequestDeadline returns the deadline of the request, if it has one.
func RequestDeadline(ctx context.Context) (time.Time, bool) {
	return ctx.Deadline()
}

// RequestRemainingTime returns how long the request may still run. It is zero without a deadline or
// once the deadline passed.
func RequestRemainingTime(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}

	return max(time.Until(deadline), 0)
}
