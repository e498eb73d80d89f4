package bbasis

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

var (
	jsonContentType = regexp.MustCompile(`(?i)^application/(|\S+\+)json($|[ ;])`)
	formContentType = regexp.MustCompile(`(?i)^application/x-www-form-urlencoded($|[ ;])`)
)

// DefaultMaxBodyBytes is the largest request body [BodyParams] reads unless configured otherwise.
const DefaultMaxBodyBytes = 10 << 20

type bodyParamsOptions struct {
	maxBytes  int64
	keepEmpty bool
}

// BodyParamsOption configures the [BodyParams] middleware.
type BodyParamsOption func(*bodyParamsOptions)

// WithMaxBodyBytes limits the size of bodies that are parsed. Larger bodies are answered with a 413.
func WithMaxBodyBytes(n int64) BodyParamsOption {
	return func(o *bodyParamsOptions) { o.maxBytes = n }
}

// WithEmptyBodyKept controls whether a body that parsed into an empty mapping is attached to the
// request. By default it is discarded and the request is forwarded as is.
func WithEmptyBodyKept(v bool) BodyParamsOption {
	return func(o *bodyParamsOptions) { o.keepEmpty = v }
}

// BodyParams returns middleware that parses JSON and url-encoded request bodies into the parsed body
// of the request, see [ParsedBody]. Requests that already carry a parsed body, and GET, HEAD and
// OPTIONS requests are forwarded untouched. Malformed JSON is answered with a 400 error.
func BodyParams(opts ...BodyParamsOption) Middleware {
	o := bodyParamsOptions{maxBytes: DefaultMaxBodyBytes}
	for _, opt := range opts {
		opt(&o)
	}

	return func(next BareHandler) BareHandler {
		return BareHandlerFunc(func(w ResponseWriter, r *http.Request) error {
			if len(ParsedBody(r)) > 0 {
				return next.ServeBareBHTTP(w, r)
			}

			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next.ServeBareBHTTP(w, r)
			}

			contentType := r.Header.Get("Content-Type")

			var parse func([]byte) (map[string]any, error)
			switch {
			case jsonContentType.MatchString(contentType):
				parse = parseJSONBody
			case formContentType.MatchString(contentType):
				parse = parseFormBody
			default:
				return next.ServeBareBHTTP(w, r)
			}

			data, err := readBody(w, r, o.maxBytes)
			if err != nil {
				return err
			}

			body, err := parse(data)
			if err != nil {
				return err
			}

			if body == nil || (len(body) == 0 && !o.keepEmpty) {
				return next.ServeBareBHTTP(w, r)
			}

			return next.ServeBareBHTTP(w, WithParsedBody(r, body))
		})
	}
}

// readBody reads the body and puts back a reader over the same bytes, so handlers can still read the
// raw body.
func readBody(w ResponseWriter, r *http.Request, maxBytes int64) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}

	rd := io.Reader(r.Body)
	if maxBytes > 0 {
		rd = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	data, err := io.ReadAll(rd)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, NewError(CodeRequestEntityTooLarge, "", err)
		}

		return nil, errors.Wrap(err, "read request body")
	}

	r.Body = io.NopCloser(bytes.NewReader(data))

	return data, nil
}

func parseJSONBody(data []byte) (map[string]any, error) {
	if !gjson.ValidBytes(data) {
		return nil, BadRequest("Error when parsing JSON request body: Syntax error",
			errors.Newf("invalid json body of %d bytes", len(data)))
	}

	if !utf8.Valid(data) {
		return nil, BadRequest(
			"Error when parsing JSON request body: Malformed UTF-8 characters, possibly incorrectly encoded",
			errors.Newf("json body of %d bytes is not valid utf-8", len(data)))
	}

	switch doc := gjson.ParseBytes(data); {
	case doc.IsObject():
		return jsonObject(doc), nil
	case doc.IsArray():
		body := map[string]any{}
		for i, elem := range doc.Array() {
			body[strconv.Itoa(i)] = jsonValue(elem)
		}

		return body, nil
	default:
		return nil, nil // scalars and null never make a parsed body
	}
}

func jsonObject(res gjson.Result) map[string]any {
	obj := map[string]any{}
	res.ForEach(func(key, val gjson.Result) bool {
		obj[key.String()] = jsonValue(val)
		return true
	})

	return obj
}

// jsonValue keeps integral numbers as int64 so large ids survive, other numbers become float64.
func jsonValue(res gjson.Result) any {
	switch {
	case res.IsObject():
		return jsonObject(res)
	case res.IsArray():
		return lo.Map(res.Array(), func(elem gjson.Result, _ int) any { return jsonValue(elem) })
	case res.Type == gjson.Number && !strings.ContainsAny(res.Raw, ".eE"):
		if n, err := strconv.ParseInt(res.Raw, 10, 64); err == nil {
			return n
		}
	}

	return res.Value()
}

// parseFormBody never fails: pairs that cannot be decoded are dropped and the rest is kept.
func parseFormBody(data []byte) (map[string]any, error) {
	vals, _ := url.ParseQuery(string(data))
	return decodeValues(vals), nil
}
