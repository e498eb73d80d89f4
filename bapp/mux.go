package bapp

import (
	"net/http"

	"github.com/advdv/bbasis"
	"go.uber.org/zap"
)

// Mux is an alias for bbasis.ServeMux.
type Mux = bbasis.ServeMux

// NewMux creates a new Mux that buffers responses up to BB_BUFFER_LIMIT bytes and logs through zap.
func NewMux(env Environment, logger *zap.Logger) *Mux {
	return bbasis.NewServeMuxWith(
		env.bufferLimit(),
		newServeLogger(logger),
		http.NewServeMux(),
	)
}
