package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/documentor-dev/documentor/internal/core/domain"
	"github.com/documentor-dev/documentor/internal/core/ports/driven"
)

var _ driven.DocumentLoader = (*FileLoader)(nil)

// textExtensions lists the plain-text formats the file loader accepts.
var textExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".html": true,
	".rst":  true,
}

// FileLoader reads documentation from local files.
type FileLoader struct{}

// NewFileLoader creates a loader for local file sources.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load reads the file at the given path. Markdown and reStructuredText
// files get their title from the first heading; everything else falls back
// to the file name without its extension.
func (l *FileLoader) Load(_ context.Context, source string) (driven.LoadedDocument, error) {
	ext := strings.ToLower(filepath.Ext(source))
	if !textExtensions[ext] {
		return driven.LoadedDocument{}, fmt.Errorf(
			"%w: file extension %q", domain.ErrUnsupportedType, ext,
		)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return driven.LoadedDocument{}, fmt.Errorf("%w: read %q: %w", domain.ErrDocumentLoad, source, err)
	}

	content := string(data)
	title := ""
	if ext == ".md" || ext == ".rst" {
		title = extractMarkdownTitle(content)
	}
	if title == "" {
		title = fileStem(source)
	}
	return driven.LoadedDocument{
		Content:    content,
		Title:      title,
		SourceType: domain.SourceTypeFile,
	}, nil
}

// fileStem returns the base name without its extension.
func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
