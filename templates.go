package blockgen

import (
	"github.com/goliatone/go-blockgen/pkg/render"
	"github.com/goliatone/go-blockgen/pkg/schema"
)

const (
	// DefaultTemplateName is the bundled Pothos VOLK factory template.
	DefaultTemplateName = "factory.cpp.tmpl"
	// DefaultSchemaName is the bundled VOLK block schema.
	DefaultSchemaName = "blocks.yaml"
)

// DefaultTemplate reads the bundled factory template.
func DefaultTemplate() (*render.Template, error) {
	return render.LoadTemplate(EmbeddedTemplates(), DefaultTemplateName)
}

// DefaultSchemaSource points at the bundled schema. It resolves through a
// loader built with schema.WithFileSystem(EmbeddedSchemas()), which
// WithEmbeddedSchemas provides.
func DefaultSchemaSource() schema.Source {
	return schema.SourceFromFS(DefaultSchemaName)
}
