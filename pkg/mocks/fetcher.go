package mocks

import (
	"context"
	"net/http"
	"sync"

	"github.com/user/staticgen/pkg/ports"
)

// ContentFetcher is a mock implementation of ports.ContentFetcher. Paths in
// Pages render their bytes; any other path fails with a 404 RenderError.
type ContentFetcher struct {
	Pages     map[string][]byte
	FetchFunc func(ctx context.Context, path string) ([]byte, error)

	mu    sync.Mutex
	calls []string
}

// NewContentFetcher creates a fetcher serving the given pages.
func NewContentFetcher(pages map[string]string) *ContentFetcher {
	f := &ContentFetcher{Pages: make(map[string][]byte, len(pages))}
	for path, body := range pages {
		f.Pages[path] = []byte(body)
	}
	return f
}

func (m *ContentFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, path)
	m.mu.Unlock()
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, path)
	}
	if body, ok := m.Pages[path]; ok {
		return body, nil
	}
	return nil, &ports.RenderError{Path: path, StatusCode: http.StatusNotFound}
}

// Calls returns the fetched paths in order.
func (m *ContentFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

var _ ports.ContentFetcher = (*ContentFetcher)(nil)
