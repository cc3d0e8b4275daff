package blockgen

import (
	"io/fs"
	"strings"
	"testing"
)

func TestEmbeddedTemplatesContainsFactory(t *testing.T) {
	data, err := fs.ReadFile(EmbeddedTemplates(), DefaultTemplateName)
	if err != nil {
		t.Fatalf("expected factory template to be readable: %v", err)
	}
	if !strings.Contains(string(data), "range .oneToOneBlocks") {
		t.Fatalf("expected factory template to iterate one-to-one blocks")
	}
}

func TestEmbeddedSchemasContainsBlocks(t *testing.T) {
	data, err := fs.ReadFile(EmbeddedSchemas(), DefaultSchemaName)
	if err != nil {
		t.Fatalf("expected bundled schema to be readable: %v", err)
	}
	if !strings.Contains(string(data), "OneToOneWithScalarParamBlocks:") {
		t.Fatalf("expected bundled schema to declare scalar param blocks")
	}
}
