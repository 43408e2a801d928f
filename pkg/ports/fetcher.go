package ports

import (
	"context"
	"fmt"
)

// ContentFetcher renders a logical path through the application and returns
// the resulting bytes.
type ContentFetcher interface {
	// Fetch renders path. It fails with *RenderError when the application
	// answers with a non-success status.
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// ContentFetcherFunc is a function adapter for the ContentFetcher interface.
type ContentFetcherFunc func(ctx context.Context, path string) ([]byte, error)

// Fetch implements ContentFetcher.
func (f ContentFetcherFunc) Fetch(ctx context.Context, path string) ([]byte, error) {
	return f(ctx, path)
}

// RenderError reports that the application did not render a path successfully.
type RenderError struct {
	Path       string
	StatusCode int
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("could not render %s: status %d", e.Path, e.StatusCode)
}

// IsSuccessStatus reports whether status is a 2xx code.
func IsSuccessStatus(status int) bool {
	return status >= 200 && status < 300
}
