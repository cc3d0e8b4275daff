package template

import (
	"io"
)

// TemplateRenderer is the engine seam the block renderer relies on. Render
// dispatches to RenderTemplate for names and to RenderString for inline
// content. RenderContent renders inline content under a caller chosen name so
// error positions point at the right document.
//
// On execution failures implementations return the partially rendered text
// together with the error.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RenderContent(name, templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
