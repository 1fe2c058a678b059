package content

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
)

//go:embed templates/*.html
var templates embed.FS

// Page is the data rendered into the layout. Body is trusted markup.
type Page struct {
	Title string
	Body  template.HTML
}

// Renderer turns pages into complete HTML documents. Pages are rendered
// once while routes are registered; the result is served as-is.
type Renderer struct {
	layout *template.Template
}

// NewRenderer uses the built-in layout.
func NewRenderer() (*Renderer, error) {
	return NewRendererFS(templates, "templates/layout.html")
}

// NewRendererFS parses the layout named name from fsys.
func NewRendererFS(fsys fs.FS, name string) (*Renderer, error) {
	layout, err := template.ParseFS(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout %s: %w", name, err)
	}
	return &Renderer{layout: layout}, nil
}

func (r *Renderer) Render(p Page) (string, error) {
	var sb strings.Builder
	if err := r.layout.Execute(&sb, p); err != nil {
		return "", fmt.Errorf("failed to render %q: %w", p.Title, err)
	}
	return sb.String(), nil
}
