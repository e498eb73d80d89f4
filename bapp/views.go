package bapp

import (
	"embed"

	"github.com/advdv/bbasis"
)

//go:embed templates/*.html
var views embed.FS

// NewViews returns a renderer for the embedded "error" and "not-found" views.
func NewViews() (*bbasis.TemplateRenderer, error) {
	return bbasis.NewTemplateRenderer(views, "templates/*.html")
}

// newRenderer provides the configured renderer, falling back to the embedded views.
func newRenderer(cfg ServerConfig) (bbasis.Renderer, error) {
	if cfg.Renderer != nil {
		return cfg.Renderer, nil
	}

	return NewViews()
}
