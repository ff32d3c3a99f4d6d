// Package view renders the inventory page. Rendering is a pure function of
// the page view model: it reads nothing else and mutates nothing.
//
// All values pass through html/template contextual escaping, so user input
// shown in the table or echoed back into the form is escaped exactly once.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/mrops-br/product-inventory/internal/app/dto"
)

//go:embed templates/*.html
var templateFS embed.FS

const pageTemplate = "inventory.html"

// Renderer writes the inventory page
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the page for the given view model
func (r *Renderer) Render(w io.Writer, page *dto.PageData) error {
	if err := r.tmpl.ExecuteTemplate(w, pageTemplate, page); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

// RenderToBuffer renders into a buffer so a failure never leaves a partial
// response on the wire.
func (r *Renderer) RenderToBuffer(page *dto.PageData) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, page); err != nil {
		return nil, err
	}
	return &buf, nil
}
