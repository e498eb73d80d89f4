package bbasis

import (
	"strconv"

	"github.com/cockroachdb/errors"
)

// Error describes an http error. It is immutable once constructed.
type Error struct {
	code   Code
	phrase string
	cause  error
	origin error // carries the stack of the construction site
}

// NewError inits a new error given the error code. An empty reason phrase is resolved through the
// status registry; codes outside the registry keep an empty phrase.
func NewError(c Code, reasonPhrase string, cause error) *Error {
	return newError(1, c, reasonPhrase, cause)
}

func newError(depth int, c Code, phrase string, cause error) *Error {
	if phrase == "" {
		phrase = PhraseOf(c)
	}

	return &Error{
		code:   c,
		phrase: phrase,
		cause:  cause,
		origin: errors.NewWithDepth(depth+1, "bbasis: error origin"),
	}
}

// BadRequest creates a 400 error.
func BadRequest(reasonPhrase string, cause error) *Error {
	return newError(1, CodeBadRequest, reasonPhrase, cause)
}

// Unauthorized creates a 401 error.
func Unauthorized(reasonPhrase string, cause error) *Error {
	return newError(1, CodeUnauthorized, reasonPhrase, cause)
}

// Forbidden creates a 403 error.
func Forbidden(reasonPhrase string, cause error) *Error {
	return newError(1, CodeForbidden, reasonPhrase, cause)
}

// NotFound creates a 404 error.
func NotFound(reasonPhrase string, cause error) *Error {
	return newError(1, CodeNotFound, reasonPhrase, cause)
}

// MethodNotAllowed creates a 405 error.
func MethodNotAllowed(reasonPhrase string, cause error) *Error {
	return newError(1, CodeMethodNotAllowed, reasonPhrase, cause)
}

// InternalServerError creates a 500 error.
func InternalServerError(reasonPhrase string, cause error) *Error {
	return newError(1, CodeInternalServerError, reasonPhrase, cause)
}

// NotImplemented creates a 501 error.
func NotImplemented(reasonPhrase string, cause error) *Error {
	return newError(1, CodeNotImplemented, reasonPhrase, cause)
}

func (e *Error) Code() Code           { return e.code }
func (e *Error) StatusCode() int      { return int(e.code) }
func (e *Error) ReasonPhrase() string { return e.phrase }
func (e *Error) Unwrap() error        { return e.cause }

// Title is the status code followed by the reason phrase, if any.
func (e *Error) Title() string {
	title := strconv.Itoa(int(e.code))
	if e.phrase != "" {
		title += " " + e.phrase
	}

	return title
}

func (e *Error) Error() string {
	msg := e.phrase
	if msg == "" {
		msg = "Unknown"
	}

	if e.cause == nil {
		return msg
	}

	return msg + ": " + e.cause.Error()
}

// StatusCoder is implemented by errors that carry an http status code of their own.
type StatusCoder interface {
	StatusCode() int
}

// CodeOf returns the status code of the first error in err's chain that carries one and
// [CodeUnknown] otherwise.
func CodeOf(err error) Code {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return Code(sc.StatusCode())
	}

	return CodeUnknown
}

// StatusCodeOf returns the code that should be used for a response to err. Codes that are not in the
// status registry become [CodeInternalServerError] so arbitrary codes never leak into a response.
func StatusCodeOf(err error) Code {
	if c := CodeOf(err); KnownCode(c) {
		return c
	}

	return CodeInternalServerError
}
