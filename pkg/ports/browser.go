// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
	"time"
)

// Browser abstracts browser automation for rendering pages that build their
// markup on the client.
type Browser interface {
	// Launch starts the browser with the given options.
	Launch(ctx context.Context, opts BrowserOptions) error

	// Render loads url, waits for the load event and returns the serialized
	// document together with the status of the main document response.
	// Canceling ctx aborts the render.
	Render(ctx context.Context, url string) (*RenderedPage, error)

	// Close shuts down the browser.
	Close() error
}

// BrowserOptions configures browser launch settings.
type BrowserOptions struct {
	Headless          bool
	ChromePath        string
	UserAgent         string
	Headers           map[string]string
	WindowWidth       int
	WindowHeight      int
	IgnoreHTTPSErrors bool   // Ignore HTTPS certificate errors
	ProxyServer       string // HTTP proxy server (e.g., "http://proxy:8080")
	Incognito         bool   // Run browser in incognito mode (default: true)
	// RenderTimeout bounds a single Render call. Zero means no limit.
	RenderTimeout time.Duration
}

// RenderedPage is the outcome of Browser.Render.
type RenderedPage struct {
	URL        string
	Title      string
	StatusCode int // Status of the main document response, 0 if unknown
	HTML       string
}
