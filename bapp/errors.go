package bapp

import (
	"github.com/advdv/bbasis"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewErrorResponseGenerator returns the generator for BB_ERROR_FORMAT. With "html" errors are rendered
// through BB_ERROR_VIEW, with "json" they are written as a JSON payload.
func NewErrorResponseGenerator(env Environment, renderer bbasis.Renderer) bbasis.ErrorResponseGenerator {
	if env.errorFormat() == ErrorFormatHTML {
		return bbasis.NewTemplateErrorGenerator(bbasis.NewResponseFactory(nil), renderer, env.errorView(), env.debug())
	}

	return bbasis.NewJSONErrorGenerator(env.debug())
}

// NewNotFoundHandler returns the handler for requests that match no route, in the format of
// BB_ERROR_FORMAT.
func NewNotFoundHandler(env Environment, renderer bbasis.Renderer) bbasis.Handler {
	if env.errorFormat() == ErrorFormatHTML {
		return bbasis.NewNotFoundHandler(bbasis.NewResponseFactory(nil), renderer, env.notFoundView(), env.debug())
	}

	return bbasis.NewNotFoundJSONHandler(env.debug())
}

// ErrorHandlerParams holds the dependencies for creating the error handler.
type ErrorHandlerParams struct {
	fx.In

	Env       Environment
	Logger    *zap.Logger
	Generator bbasis.ErrorResponseGenerator
	Config    ServerConfig
}

// NewErrorHandler creates the error handler. Errors are logged when their status is covered by
// BB_LOGGED_STATUS_CODES, configured listeners see every error.
func NewErrorHandler(params ErrorHandlerParams) (*bbasis.ErrorHandler, error) {
	filter, err := NewStatusCodeFilter(params.Env.loggedStatusCodes())
	if err != nil {
		return nil, err
	}

	listeners := make([]bbasis.ErrorListener, 0, 1+len(params.Config.ErrorListeners))
	listeners = append(listeners, FilterListener(filter, bbasis.NewLogErrorListener(newServeLogger(params.Logger))))
	listeners = append(listeners, params.Config.ErrorListeners...)

	return bbasis.NewErrorHandler(params.Generator, listeners...), nil
}
