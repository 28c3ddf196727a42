package loader

import (
	"context"
	"strings"

	"github.com/documentor-dev/documentor/internal/core/ports/driven"
)

var _ driven.DocumentLoader = (*Registry)(nil)

// Registry routes a source string to the loader that can handle it:
// http and https URLs go to the web loader, everything else is treated
// as a local file path.
type Registry struct {
	web  driven.DocumentLoader
	file driven.DocumentLoader
}

// NewRegistry creates a registry with the default web and file loaders.
func NewRegistry() *Registry {
	return &Registry{
		web:  NewWebLoader(),
		file: NewFileLoader(),
	}
}

// NewRegistryWith creates a registry from explicit loaders.
func NewRegistryWith(web, file driven.DocumentLoader) *Registry {
	return &Registry{web: web, file: file}
}

// Load dispatches to the loader matching the source scheme.
func (r *Registry) Load(ctx context.Context, source string) (driven.LoadedDocument, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return r.web.Load(ctx, source)
	}
	return r.file.Load(ctx, source)
}
