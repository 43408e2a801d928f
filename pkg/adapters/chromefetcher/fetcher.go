// Package chromefetcher renders paths in a real browser, for applications
// that build their markup on the client.
package chromefetcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/user/staticgen/pkg/adapters/logger"
	"github.com/user/staticgen/pkg/ports"
)

const doctype = "<!DOCTYPE html>\n"

// Fetcher navigates a launched ports.Browser to base URL + path and returns
// the serialized document.
type Fetcher struct {
	browser ports.Browser
	baseURL string
	logger  ports.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLogger sets the logger.
func WithLogger(l ports.Logger) Option {
	return func(f *Fetcher) {
		f.logger = l.WithComponent("browser")
	}
}

// New creates a Fetcher. The browser must already be launched; the caller
// closes it.
func New(browser ports.Browser, baseURL string, opts ...Option) (*Fetcher, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("chrome fetcher needs a base url")
	}
	f := &Fetcher{
		browser: browser,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger.NewNoop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Fetch implements ports.ContentFetcher.
func (f *Fetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	url := f.baseURL + path

	f.logger.Debug("Navigating to %s", url)
	page, err := f.browser.Render(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", path, err)
	}
	// Zero means the main response was not observed (served from cache).
	if page.StatusCode != 0 && !ports.IsSuccessStatus(page.StatusCode) {
		f.logger.Debug("Render of %s returned status %d", path, page.StatusCode)
		return nil, &ports.RenderError{Path: path, StatusCode: page.StatusCode}
	}
	return []byte(doctype + page.HTML), nil
}

var _ ports.ContentFetcher = (*Fetcher)(nil)
