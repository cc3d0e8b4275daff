package blockgen

import (
	internalLoader "github.com/goliatone/go-blockgen/internal/schema/loader"
	"github.com/goliatone/go-blockgen/pkg/schema"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	cfg := schema.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}
