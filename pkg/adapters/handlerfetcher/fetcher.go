// Package handlerfetcher renders paths by running an in-process http.Handler.
package handlerfetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/user/staticgen/pkg/adapters/logger"
	"github.com/user/staticgen/pkg/ports"
)

// DefaultServerName is used when no server name is configured.
const DefaultServerName = "localhost"

// Middleware wraps the application handler. The first middleware given to
// WithMiddleware sees the request first and the response last.
type Middleware func(http.Handler) http.Handler

// Fetcher renders a path with a synthetic GET request for the configured
// server name on port 80, recorded in memory.
type Fetcher struct {
	handler    http.Handler
	serverName string
	headers    map[string]string
	logger     ports.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithMiddleware wraps the handler with mw, outermost first.
func WithMiddleware(mw ...Middleware) Option {
	return func(f *Fetcher) {
		for i := len(mw) - 1; i >= 0; i-- {
			f.handler = mw[i](f.handler)
		}
	}
}

// WithHeaders adds headers to every synthetic request.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// WithLogger sets the logger.
func WithLogger(l ports.Logger) Option {
	return func(f *Fetcher) {
		f.logger = l.WithComponent("render")
	}
}

// New creates a Fetcher for handler. An empty serverName falls back to
// DefaultServerName.
func New(handler http.Handler, serverName string, opts ...Option) *Fetcher {
	if serverName == "" {
		serverName = DefaultServerName
	}
	f := &Fetcher{
		handler:    handler,
		serverName: serverName,
		logger:     logger.NewNoop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch implements ports.ContentFetcher.
func (f *Fetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	req, err := f.newRequest(ctx, path)
	if err != nil {
		return nil, err
	}
	f.logger.Debug("Rendering %s", path)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if !ports.IsSuccessStatus(rec.Code) {
		f.logger.Debug("Render of %s returned status %d", path, rec.Code)
		return nil, &ports.RenderError{Path: path, StatusCode: rec.Code}
	}
	return rec.Body.Bytes(), nil
}

func (f *Fetcher) newRequest(ctx context.Context, path string) (*http.Request, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parse path %q: %w", path, err)
	}
	target := &url.URL{
		Scheme:   "http",
		Host:     f.serverName,
		Path:     ref.Path,
		RawPath:  ref.RawPath,
		RawQuery: ref.RawQuery,
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Host = f.serverName
	req.RemoteAddr = "127.0.0.1:80"
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

var _ ports.ContentFetcher = (*Fetcher)(nil)
