package bapp

import (
	"net/http"
	"slices"
	"strings"

	intervals "github.com/MawKKe/integer-interval-expressions-go"
	"github.com/advdv/bbasis"
	"github.com/cockroachdb/errors"
)

// DefaultLoggedStatusCodes is the recommended value for BB_LOGGED_STATUS_CODES.
const DefaultLoggedStatusCodes = "400-599"

// DefaultRequiredLoggedStatusCodes are the statuses that must always be logged:
//   - 500 (Internal Server Error): unclassified errors, recovered panics and buffer overflows.
//   - 504 (Gateway Timeout): requests that ran past their deadline, see [WithRequestDeadline].
var DefaultRequiredLoggedStatusCodes = []int{http.StatusInternalServerError, http.StatusGatewayTimeout}

// StatusCodeFilter matches status codes against an interval expression.
type StatusCodeFilter struct {
	expr    string
	matches func(int) bool
}

// NewStatusCodeFilter parses an interval expression such as "500", "400-499" or "500,502-504".
func NewStatusCodeFilter(expr string) (*StatusCodeFilter, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, errors.New("failed to parse status code expression: empty expression")
	}

	parsed, err := intervals.ParseExpression(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse status code expression %q", expr)
	}

	return &StatusCodeFilter{expr: expr, matches: parsed.Matches}, nil
}

// Matches reports whether code is part of the expression.
func (f *StatusCodeFilter) Matches(code int) bool {
	return f.matches(code)
}

// String returns the expression the filter was parsed from.
func (f *StatusCodeFilter) String() string {
	return f.expr
}

// ValidateLoggedStatusCodes checks that expr parses and covers every required code.
func ValidateLoggedStatusCodes(expr string, required ...int) error {
	f, err := NewStatusCodeFilter(expr)
	if err != nil {
		return errors.Wrap(err, "invalid BB_LOGGED_STATUS_CODES")
	}

	missing := slices.DeleteFunc(slices.Clone(required), f.Matches)
	if len(missing) > 0 {
		return errors.Newf(
			"BB_LOGGED_STATUS_CODES %q does not cover the required status codes, missing: %v (recommended value: %q)",
			expr, missing, DefaultLoggedStatusCodes)
	}

	return nil
}

// FilterListener only passes errors on to next when their resolved status matches the filter.
func FilterListener(f *StatusCodeFilter, next bbasis.ErrorListener) bbasis.ErrorListener {
	return bbasis.ErrorListenerFunc(func(err error, r *http.Request) {
		if !f.Matches(int(bbasis.StatusCodeOf(err))) {
			return
		}

		next.Trigger(err, r)
	})
}
