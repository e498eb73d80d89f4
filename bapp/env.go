package bapp

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"go.uber.org/zap/zapcore"
)

// Environment defines the interface that all environment configurations must implement.
// Embed BaseEnvironment in your struct to satisfy this interface.
type Environment interface {
	port() int
	serviceName() string
	healthCheckPath() string
	logLevel() zapcore.Level
	otelExporter() string
	debug() bool
	errorFormat() string
	errorView() string
	notFoundView() string
	bufferLimit() int
	maxBodyBytes() int64
	keepEmptyBody() bool
	loggedStatusCodes() string
	requestTimeout() time.Duration
}

// BaseEnvironment contains the environment variables every app reads.
// Embed this in your custom environment struct.
//
// BB_DEBUG adds exception and request records to error responses, only enable it in trusted
// environments since the records include headers and cookies verbatim. BB_LOGGED_STATUS_CODES is an
// interval expression such as "400-599" or "500,502-504"; errors that resolve to a status outside of
// it are not logged.
type BaseEnvironment struct {
	Port              int           `env:"BB_PORT,required"`
	ServiceName       string        `env:"BB_SERVICE_NAME,required"`
	HealthCheckPath   string        `env:"BB_HEALTH_CHECK_PATH" envDefault:"/health"`
	LogLevel          zapcore.Level `env:"BB_LOG_LEVEL" envDefault:"info"`
	OtelExporter      string        `env:"BB_OTEL_EXPORTER" envDefault:"none"`
	Debug             bool          `env:"BB_DEBUG" envDefault:"false"`
	ErrorFormat       string        `env:"BB_ERROR_FORMAT" envDefault:"json"`
	ErrorView         string        `env:"BB_ERROR_VIEW" envDefault:"error"`
	NotFoundView      string        `env:"BB_NOT_FOUND_VIEW" envDefault:"not-found"`
	BufferLimit       int           `env:"BB_BUFFER_LIMIT" envDefault:"-1"`
	MaxBodyBytes      int64         `env:"BB_MAX_BODY_BYTES" envDefault:"10485760"`
	KeepEmptyBody     bool          `env:"BB_KEEP_EMPTY_BODY" envDefault:"false"`
	LoggedStatusCodes string        `env:"BB_LOGGED_STATUS_CODES" envDefault:"400-599"`
	RequestTimeout    time.Duration `env:"BB_REQUEST_TIMEOUT" envDefault:"30s"`
}

func (e BaseEnvironment) port() int {
	return e.Port
}

func (e BaseEnvironment) serviceName() string {
	return e.ServiceName
}

func (e BaseEnvironment) healthCheckPath() string {
	return e.HealthCheckPath
}

func (e BaseEnvironment) logLevel() zapcore.Level {
	return e.LogLevel
}

func (e BaseEnvironment) otelExporter() string {
	return e.OtelExporter
}

func (e BaseEnvironment) debug() bool {
	return e.Debug
}

func (e BaseEnvironment) errorFormat() string {
	return e.ErrorFormat
}

func (e BaseEnvironment) errorView() string {
	return e.ErrorView
}

func (e BaseEnvironment) notFoundView() string {
	return e.NotFoundView
}

func (e BaseEnvironment) bufferLimit() int {
	return e.BufferLimit
}

func (e BaseEnvironment) maxBodyBytes() int64 {
	return e.MaxBodyBytes
}

func (e BaseEnvironment) keepEmptyBody() bool {
	return e.KeepEmptyBody
}

func (e BaseEnvironment) loggedStatusCodes() string {
	return e.LoggedStatusCodes
}

func (e BaseEnvironment) requestTimeout() time.Duration {
	return e.RequestTimeout
}

var _ Environment = BaseEnvironment{}

// Supported values of BB_ERROR_FORMAT.
const (
	ErrorFormatJSON = "json"
	ErrorFormatHTML = "html"
)

// ParseEnv parses environment variables into the given Environment type. The logged status codes
// must cover [DefaultRequiredLoggedStatusCodes].
func ParseEnv[E Environment]() func() (E, error) {
	return ParseEnvWithRequiredStatusCodes[E](DefaultRequiredLoggedStatusCodes...)
}

// ParseEnvWithRequiredStatusCodes is like [ParseEnv] but validates that BB_LOGGED_STATUS_CODES covers
// the given codes instead of the defaults.
func ParseEnvWithRequiredStatusCodes[E Environment](required ...int) func() (E, error) {
	return func() (e E, err error) {
		if err := env.Parse(&e); err != nil {
			return e, errors.Wrap(err, "failed to parse environment")
		}

		if err := validateEnv(e, required); err != nil {
			return e, err
		}

		return e, nil
	}
}

func validateEnv(e Environment, required []int) error {
	switch e.errorFormat() {
	case ErrorFormatJSON, ErrorFormatHTML:
	default:
		return errors.Newf("unsupported BB_ERROR_FORMAT: %q (supported: json, html)", e.errorFormat())
	}

	if !lo.Contains([]string{ExporterStdout, ExporterNone}, e.otelExporter()) {
		return errors.Newf("unsupported BB_OTEL_EXPORTER: %q (supported: %s, %s)",
			e.otelExporter(), ExporterStdout, ExporterNone)
	}

	if e.requestTimeout() <= 0 {
		return errors.Newf("BB_REQUEST_TIMEOUT must be positive, got %s", e.requestTimeout())
	}

	return ValidateLoggedStatusCodes(e.loggedStatusCodes(), required...)
}
