package bbasis

import (
	"bytes"
	"html/template"
	"io/fs"
	"strconv"

	"github.com/cockroachdb/errors"
)

// Renderer renders a named view with the given parameters.
type Renderer interface {
	Render(view string, params map[string]any) (string, error)
}

// TemplateRenderer renders views from html templates. A view named "error" is read from "error.html".
type TemplateRenderer struct {
	tmpl *template.Template
}

// NewTemplateRenderer parses all templates in fsys matching pattern. Templates have access to helpers
// for inspecting errors and requests: statusCode, title, exceptionRecord and requestRecord.
func NewTemplateRenderer(fsys fs.FS, pattern string) (*TemplateRenderer, error) {
	tmpl, err := template.New("").Funcs(TemplateFuncs()).ParseFS(fsys, pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "parse templates matching %q", pattern)
	}

	return &TemplateRenderer{tmpl: tmpl}, nil
}

// TemplateFuncs returns the helpers available to templates parsed by [NewTemplateRenderer].
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"statusCode": func(err error) int { return int(StatusCodeOf(err)) },
		"title": func(err error) string {
			if herr := (*Error)(nil); errors.As(err, &herr) {
				return herr.Title()
			}

			c := StatusCodeOf(err)
			return strconv.Itoa(int(c)) + " " + PhraseOf(c)
		},
		"exceptionRecord": ExtractException,
		"requestRecord":   ExtractRequest,
	}
}

// Render implements [Renderer].
func (r *TemplateRenderer) Render(view string, params map[string]any) (string, error) {
	tmpl := r.tmpl.Lookup(view + ".html")
	if tmpl == nil {
		return "", errors.Newf("no template for view %q", view)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params); err != nil {
		return "", errors.Wrapf(err, "render view %q", view)
	}

	return buf.String(), nil
}

var _ Renderer = &TemplateRenderer{}
