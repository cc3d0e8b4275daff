package blockgen

import (
	"embed"
	"io/fs"
)

//go:embed assets/templates/*.tmpl assets/schemas/*.yaml
var embeddedAssets embed.FS

// EmbeddedTemplates exposes the bundled templates (factory.cpp.tmpl) so
// callers can render them or use them as a starting point.
func EmbeddedTemplates() fs.FS {
	return subFS("assets/templates")
}

// EmbeddedSchemas exposes the bundled block schemas (blocks.yaml).
func EmbeddedSchemas() fs.FS {
	return subFS("assets/schemas")
}

func subFS(dir string) fs.FS {
	sub, err := fs.Sub(embeddedAssets, dir)
	if err != nil {
		return embeddedAssets
	}
	return sub
}
