package bapp

import (
	"time"

	"go.uber.org/zap/zapcore"
)

type testEnv struct {
	level       zapcore.Level
	otelExp     string
	format      string
	isDebug     bool
	loggedCodes string
}

func (e testEnv) port() int                     { return 8080 }
func (e testEnv) serviceName() string           { return "test" }
func (e testEnv) healthCheckPath() string       { return "/health" }
func (e testEnv) logLevel() zapcore.Level       { return e.level }
func (e testEnv) otelExporter() string          { return e.otelExp }
func (e testEnv) debug() bool                   { return e.isDebug }
func (e testEnv) errorView() string             { return "error" }
func (e testEnv) notFoundView() string          { return "not-found" }
func (e testEnv) bufferLimit() int              { return -1 }
func (e testEnv) maxBodyBytes() int64           { return 1 << 20 }
func (e testEnv) keepEmptyBody() bool           { return false }
func (e testEnv) requestTimeout() time.Duration { return 30 * time.Second }

func (e testEnv) errorFormat() string {
	if e.format == "" {
		return ErrorFormatJSON
	}
	return e.format
}

func (e testEnv) loggedStatusCodes() string {
	if e.loggedCodes == "" {
		return DefaultLoggedStatusCodes
	}
	return e.loggedCodes
}
