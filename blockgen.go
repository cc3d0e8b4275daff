package blockgen

import (
	"context"

	"github.com/goliatone/go-blockgen/pkg/generator"
	"github.com/goliatone/go-blockgen/pkg/render"
	"github.com/goliatone/go-blockgen/pkg/schema"
)

// Result aliases generator.Result for callers using the root package only.
type Result = generator.Result

// NewGenerator exposes the generator constructor from the top-level module.
func NewGenerator(options ...generator.Option) *generator.Generator {
	return generator.New(options...)
}

// WithEmbeddedSchemas configures a loader that also resolves fs sources
// against the bundled schemas, so DefaultSchemaSource loads. Other loader
// options such as schema.WithHTTPFallback can be added.
func WithEmbeddedSchemas(options ...schema.LoaderOption) generator.Option {
	opts := append([]schema.LoaderOption{schema.WithFileSystem(EmbeddedSchemas())}, options...)
	return generator.WithLoader(NewLoader(opts...))
}

// Generate loads source and renders tmpl. A nil tmpl selects the bundled
// factory template.
func Generate(ctx context.Context, source schema.Source, tmpl *render.Template, options ...generator.Option) (Result, error) {
	if tmpl == nil {
		var err error
		if tmpl, err = DefaultTemplate(); err != nil {
			return Result{}, err
		}
	}
	gen := generator.New(options...)
	return gen.Generate(ctx, generator.Request{
		Source:   source,
		Template: tmpl,
	})
}

// GenerateFromDocument renders a pre-loaded document, bypassing the loader.
func GenerateFromDocument(ctx context.Context, doc *schema.Document, tmpl *render.Template, options ...generator.Option) (Result, error) {
	if tmpl == nil {
		var err error
		if tmpl, err = DefaultTemplate(); err != nil {
			return Result{}, err
		}
	}
	gen := generator.New(options...)
	return gen.Generate(ctx, generator.Request{
		Document: doc,
		Template: tmpl,
	})
}
