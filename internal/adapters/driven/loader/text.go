package loader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/documentor-dev/documentor/internal/core/domain"
	"github.com/documentor-dev/documentor/internal/core/ports/driven"
)

var _ driven.DocumentLoader = (*TextLoader)(nil)

// DefaultTextTitle names raw text submissions that carry no heading and no
// explicit title.
const DefaultTextTitle = "Untitled"

// TextLoader serves raw text handed over directly, for callers that paste
// content instead of pointing at a URL or file. The source string is
// ignored; use TextSource to derive a stable one from the content.
type TextLoader struct {
	content string
	title   string
}

// NewTextLoader creates a loader that returns the given content verbatim.
func NewTextLoader(content, title string) *TextLoader {
	return &TextLoader{content: content, title: title}
}

// Load returns the held content. The title falls back to the first
// markdown heading, then to DefaultTextTitle.
func (l *TextLoader) Load(_ context.Context, _ string) (driven.LoadedDocument, error) {
	title := l.title
	if title == "" {
		title = extractMarkdownTitle(l.content)
	}
	if title == "" {
		title = DefaultTextTitle
	}
	return driven.LoadedDocument{
		Content:    l.content,
		Title:      title,
		SourceType: domain.SourceTypeText,
	}, nil
}

// TextSource derives a stable source identifier from raw text content, so
// resubmitting the same text hits the duplicate policy instead of piling
// up copies.
func TextSource(content string) string {
	sum := sha256.Sum256([]byte(content))
	return "text:" + hex.EncodeToString(sum[:8])
}
