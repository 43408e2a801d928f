// Package httpfetcher renders paths by requesting them from a running
// application over HTTP.
package httpfetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/user/staticgen/pkg/adapters/logger"
	"github.com/user/staticgen/pkg/ports"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// Fetcher issues GET requests against a base URL. Redirects are not followed:
// a redirect is a non-success status like any other.
type Fetcher struct {
	base       *url.URL
	serverName string
	headers    map[string]string
	client     *http.Client
	logger     ports.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithServerName sets the Host header sent with every request.
func WithServerName(name string) Option {
	return func(f *Fetcher) {
		f.serverName = name
	}
}

// WithHeaders adds headers to every request.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.client.Timeout = d
	}
}

// WithTransport replaces the HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *Fetcher) {
		f.client.Transport = rt
	}
}

// WithLogger sets the logger.
func WithLogger(l ports.Logger) Option {
	return func(f *Fetcher) {
		f.logger = l.WithComponent("render")
	}
}

// New creates a Fetcher for the application at baseURL.
func New(baseURL string, opts ...Option) (*Fetcher, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", baseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("base url %q has no host", baseURL)
	}

	f := &Fetcher{
		base: base,
		client: &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger.NewNoop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// URL returns the address path is requested from.
func (f *Fetcher) URL(path string) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse path %q: %w", path, err)
	}
	u := *f.base
	u.Path = strings.TrimSuffix(f.base.Path, "/") + ref.Path
	u.RawPath = ""
	u.RawQuery = ref.RawQuery
	u.Fragment = ""
	return u.String(), nil
}

// Fetch implements ports.ContentFetcher.
func (f *Fetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	target, err := f.URL(path)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", path, err)
	}
	if f.serverName != "" {
		req.Host = f.serverName
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	f.logger.Debug("Fetching %s", target)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if !ports.IsSuccessStatus(resp.StatusCode) {
		f.logger.Debug("Render of %s returned status %d", path, resp.StatusCode)
		return nil, &ports.RenderError{Path: path, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return body, nil
}

var _ ports.ContentFetcher = (*Fetcher)(nil)
