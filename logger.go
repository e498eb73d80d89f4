package bbasis

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
	"testing"
)

// Logger can be implemented to get informed about important states.
type Logger interface {
	LogUnhandledServeError(err error)
	LogImplicitFlushError(err error)

	// LogError records an error that was caught while serving a request, together with
	// diagnostic details about it.
	LogError(ctx context.Context, msg string, details map[string]any)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogUnhandledServeError(err error) {
	l.Logger.Printf("bbasis: unhandled server error: %s", err)
}

func (l stdLogger) LogImplicitFlushError(err error) {
	l.Logger.Printf("bbasis: error while flushing implicitly: %s", err)
}

func (l stdLogger) LogError(_ context.Context, msg string, details map[string]any) {
	dat, err := json.Marshal(Normalize(details))
	if err != nil {
		l.Logger.Printf("bbasis: %s (details unavailable: %s)", msg, err)
		return
	}

	l.Logger.Printf("bbasis: %s %s", msg, dat)
}

// NewStdLogger logs to l, or to the standard logger when l is nil.
func NewStdLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.Default()
	}

	return stdLogger{l}
}

// LoggedError is an error recorded by the [TestLogger].
type LoggedError struct {
	Message string
	Details map[string]any
}

type TestLogger struct {
	tb testing.TB

	NumLogUnhandledServeError int64
	NumLogImplicitFlushError  int64

	mu     sync.Mutex
	errors []LoggedError
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogUnhandledServeError(err error) {
	atomic.AddInt64(&l.NumLogUnhandledServeError, 1)
	l.tb.Logf("bbasis: unhandled server error: %s", err)
}

func (l *TestLogger) LogImplicitFlushError(err error) {
	atomic.AddInt64(&l.NumLogImplicitFlushError, 1)
	l.tb.Logf("bbasis: error while flushing implicitly: %s", err)
}

func (l *TestLogger) LogError(_ context.Context, msg string, details map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.errors = append(l.errors, LoggedError{Message: msg, Details: details})
	l.tb.Logf("bbasis: %s", msg)
}

// Errors returns the errors logged so far.
func (l *TestLogger) Errors() []LoggedError {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]LoggedError(nil), l.errors...)
}

var _ Logger = &TestLogger{}
