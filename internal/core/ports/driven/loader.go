package driven

import (
	"context"

	"github.com/documentor-dev/documentor/internal/core/domain"
)

// LoadedDocument is the raw result of loading a source, before chunking.
type LoadedDocument struct {
	// Content is the extracted text.
	Content string

	// Title is the extracted or derived title.
	Title string

	// SourceType records how the content was obtained.
	SourceType domain.SourceType
}

// DocumentLoader retrieves raw documentation content from a source.
//
// Implementations include:
//   - web: fetches http(s) URLs
//   - file: reads local text formats (txt, md, html, rst)
//   - text: wraps inline content
//
// Failures are reported as domain.ErrDocumentLoad.
type DocumentLoader interface {
	// Load retrieves the content behind source.
	Load(ctx context.Context, source string) (LoadedDocument, error)
}
