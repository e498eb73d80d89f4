package bapptest

import (
	"strconv"
	"testing"
)

// Env provides a chainable builder for setting [bapp.BaseEnvironment] env vars
// via t.Setenv. Create one with [SetBaseEnv].
type Env struct {
	t testing.TB
}

// SetBaseEnv sets all [bapp.BaseEnvironment] env vars to sensible test defaults.
// Port is required because each test must use a unique port to avoid collisions.
//
// Defaults:
//   - BB_SERVICE_NAME: "test"
//   - BB_HEALTH_CHECK_PATH: "/health"
//   - BB_LOG_LEVEL: "error"
//   - BB_OTEL_EXPORTER: "none"
//   - BB_DEBUG: "false"
//   - BB_ERROR_FORMAT: "json"
//   - BB_LOGGED_STATUS_CODES: "500-599"
//   - BB_REQUEST_TIMEOUT: "5s"
//
// Use the returned [Env] to override individual values:
//
//	bapptest.SetBaseEnv(t, 18085).Debug(true).ErrorFormat("html")
func SetBaseEnv(t testing.TB, port int) *Env {
	t.Helper()
	t.Setenv("BB_PORT", strconv.Itoa(port))
	t.Setenv("BB_SERVICE_NAME", "test")
	t.Setenv("BB_HEALTH_CHECK_PATH", "/health")
	t.Setenv("BB_LOG_LEVEL", "error")
	t.Setenv("BB_OTEL_EXPORTER", "none")
	t.Setenv("BB_DEBUG", "false")
	t.Setenv("BB_ERROR_FORMAT", "json")
	t.Setenv("BB_LOGGED_STATUS_CODES", "500-599")
	t.Setenv("BB_REQUEST_TIMEOUT", "5s")
	return &Env{t: t}
}

// ServiceName overrides BB_SERVICE_NAME.
func (e *Env) ServiceName(name string) *Env {
	e.t.Helper()
	e.t.Setenv("BB_SERVICE_NAME", name)
	return e
}

// HealthCheckPath overrides BB_HEALTH_CHECK_PATH.
func (e *Env) HealthCheckPath(path string) *Env {
	e.t.Helper()
	e.t.Setenv("BB_HEALTH_CHECK_PATH", path)
	return e
}

// Debug overrides BB_DEBUG.
func (e *Env) Debug(debug bool) *Env {
	e.t.Helper()
	e.t.Setenv("BB_DEBUG", strconv.FormatBool(debug))
	return e
}

// ErrorFormat overrides BB_ERROR_FORMAT.
func (e *Env) ErrorFormat(format string) *Env {
	e.t.Helper()
	e.t.Setenv("BB_ERROR_FORMAT", format)
	return e
}

// LoggedStatusCodes overrides BB_LOGGED_STATUS_CODES.
func (e *Env) LoggedStatusCodes(expr string) *Env {
	e.t.Helper()
	e.t.Setenv("BB_LOGGED_STATUS_CODES", expr)
	return e
}

// RequestTimeout overrides BB_REQUEST_TIMEOUT.
func (e *Env) RequestTimeout(d string) *Env {
	e.t.Helper()
	e.t.Setenv("BB_REQUEST_TIMEOUT", d)
	return e
}

// MaxBodyBytes overrides BB_MAX_BODY_BYTES.
func (e *Env) MaxBodyBytes(n int64) *Env {
	e.t.Helper()
	e.t.Setenv("BB_MAX_BODY_BYTES", strconv.FormatInt(n, 10))
	return e
}
