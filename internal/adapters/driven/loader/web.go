// Package loader provides document loaders for URLs, local files, and raw
// text, plus a registry that picks the right one for a source string.
package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/documentor-dev/documentor/internal/core/domain"
	"github.com/documentor-dev/documentor/internal/core/ports/driven"
)

var _ driven.DocumentLoader = (*WebLoader)(nil)

// DefaultHTTPTimeout bounds a single page fetch.
const DefaultHTTPTimeout = 30 * time.Second

// WebLoader fetches documentation pages over HTTP.
type WebLoader struct {
	client *http.Client
}

// WebOption configures a WebLoader.
type WebOption func(*WebLoader)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) WebOption {
	return func(l *WebLoader) {
		l.client = client
	}
}

// NewWebLoader creates a loader for http and https sources.
func NewWebLoader(opts ...WebOption) *WebLoader {
	l := &WebLoader{
		client: &http.Client{Timeout: DefaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches the page at the given URL. The title comes from the first
// markdown heading, falling back to the last URL path segment.
func (l *WebLoader) Load(ctx context.Context, source string) (driven.LoadedDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return driven.LoadedDocument{}, fmt.Errorf("%w: invalid URL %q: %w", domain.ErrDocumentLoad, source, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return driven.LoadedDocument{}, fmt.Errorf("%w: fetch %q: %w", domain.ErrDocumentLoad, source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return driven.LoadedDocument{}, fmt.Errorf(
			"%w: fetch %q: status %d", domain.ErrDocumentLoad, source, resp.StatusCode,
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return driven.LoadedDocument{}, fmt.Errorf("%w: read %q: %w", domain.ErrDocumentLoad, source, err)
	}

	content := string(body)
	title := extractMarkdownTitle(content)
	if title == "" {
		title = titleFromURL(source)
	}
	return driven.LoadedDocument{
		Content:    content,
		Title:      title,
		SourceType: domain.SourceTypeURL,
	}, nil
}

// extractMarkdownTitle returns the first level-one markdown heading, or "".
func extractMarkdownTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "# ") {
			return strings.TrimSpace(stripped[2:])
		}
	}
	return ""
}

// titleFromURL returns the last path segment without its query string,
// or the whole URL when there is no usable segment.
func titleFromURL(url string) string {
	trimmed := strings.TrimRight(url, "/")
	segments := strings.Split(trimmed, "/")
	last := segments[len(segments)-1]
	if i := strings.Index(last, "?"); i >= 0 {
		last = last[:i]
	}
	if last == "" {
		return url
	}
	return last
}
