package bbasis

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Frame is a single call site of a stack trace.
type Frame struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Function string `json:"function"`
}

// ExceptionRecord is a serializable snapshot of an error. Trace lists the most recent call first,
// File and Line point at that call.
type ExceptionRecord struct {
	Class   string  `json:"class"`
	Code    int     `json:"code"`
	Message string  `json:"message"`
	Cause   string  `json:"cause"`
	File    string  `json:"file"`
	Line    int     `json:"line"`
	Trace   []Frame `json:"trace"`
}

// RequestRecord is a serializable snapshot of a request. Nothing is redacted: headers and cookies are
// copied verbatim so records must only be exposed in trusted environments.
type RequestRecord struct {
	Method     string              `json:"method"`
	URI        string              `json:"uri"`
	Script     string              `json:"script"`
	Attributes map[string]any      `json:"attributes"`
	Query      map[string]any      `json:"query"`
	Body       map[string]any      `json:"body"`
	Cookies    map[string]string   `json:"cookies"`
	Headers    map[string][]string `json:"headers"`
}

// ExtractException captures the type, code, message and origin of err. It never panics, a
// misbehaving error results in a partially filled record.
func ExtractException(err error) (rec ExceptionRecord) {
	rec.Trace = []Frame{}
	rec.Class = fmt.Sprintf("%T", err)

	defer func() {
		if r := recover(); r != nil {
			rec.Message = fmt.Sprintf("%s (panic while extracting: %v)", rec.Message, r)
		}
	}()

	if err == nil {
		return rec
	}

	rec.Code = int(CodeOf(err))
	rec.Message = messageOf(err)
	if errors.UnwrapOnce(err) != nil {
		rec.Cause = safeError(errors.UnwrapAll(err))
	}

	rec.Trace = stackOf(err)
	if len(rec.Trace) > 0 {
		rec.File, rec.Line = rec.Trace[0].File, rec.Trace[0].Line
	}

	return rec
}

// ExtractRequest captures the method, uri, script name, attributes, query parameters, parsed body,
// cookies and headers of r.
func ExtractRequest(r *http.Request) RequestRecord {
	if r == nil {
		return RequestRecord{}
	}

	headers := r.Header.Clone()
	if headers == nil {
		headers = http.Header{}
	}
	if r.Host != "" && headers.Get("Host") == "" {
		headers.Set("Host", r.Host)
	}

	return RequestRecord{
		Method:     r.Method,
		URI:        requestURI(r),
		Script:     ServerParams(r)[ServerParamScriptName],
		Attributes: Attributes(r),
		Query:      requestQuery(r),
		Body:       ParsedBody(r),
		Cookies: lo.SliceToMap(r.Cookies(), func(c *http.Cookie) (string, string) {
			return c.Name, c.Value
		}),
		Headers: headers,
	}
}

func requestQuery(r *http.Request) map[string]any {
	if r.URL == nil {
		return map[string]any{}
	}

	return decodeValues(r.URL.Query())
}

func requestURI(r *http.Request) string {
	if r.URL == nil {
		return ""
	}

	if r.URL.IsAbs() {
		return r.URL.String()
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	return scheme + "://" + r.Host + r.URL.RequestURI()
}

// messageOf is the phrase of an [*Error] and the error text otherwise.
func messageOf(err error) string {
	if e, ok := err.(*Error); ok {
		if e == nil {
			return ""
		}

		return e.phrase
	}

	return safeError(err)
}

func safeError(err error) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			msg = fmt.Sprintf("%T", err)
		}
	}()

	return err.Error()
}

// stackOf returns the outermost stack trace found in err's chain.
func stackOf(err error) []Frame {
	for cur := err; cur != nil; cur = errors.UnwrapOnce(cur) {
		src := cur
		if e, ok := cur.(*Error); ok && e != nil && e.origin != nil {
			src = e.origin
		}

		st := errors.GetReportableStackTrace(src)
		if st == nil || len(st.Frames) == 0 {
			continue
		}

		frames := make([]Frame, 0, len(st.Frames))
		for i := len(st.Frames) - 1; i >= 0; i-- {
			f := st.Frames[i]
			file := f.AbsPath
			if file == "" {
				file = f.Filename
			}

			fn := f.Function
			if f.Module != "" {
				fn = f.Module + "." + fn
			}

			frames = append(frames, Frame{File: file, Line: f.Lineno, Function: fn})
		}

		return frames
	}

	return []Frame{}
}
