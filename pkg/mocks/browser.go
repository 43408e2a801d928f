// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"

	"github.com/user/staticgen/pkg/ports"
)

// Browser is a mock implementation of ports.Browser.
type Browser struct {
	LaunchFunc func(ctx context.Context, opts ports.BrowserOptions) error
	RenderFunc func(ctx context.Context, url string) (*ports.RenderedPage, error)
	CloseFunc  func() error

	Launched    bool
	LaunchOpts  ports.BrowserOptions
	RenderedURL []string
	Closed      bool
}

func (m *Browser) Launch(ctx context.Context, opts ports.BrowserOptions) error {
	m.Launched = true
	m.LaunchOpts = opts
	if m.LaunchFunc != nil {
		return m.LaunchFunc(ctx, opts)
	}
	return nil
}

func (m *Browser) Render(ctx context.Context, url string) (*ports.RenderedPage, error) {
	m.RenderedURL = append(m.RenderedURL, url)
	if m.RenderFunc != nil {
		return m.RenderFunc(ctx, url)
	}
	return &ports.RenderedPage{URL: url, StatusCode: 200}, nil
}

func (m *Browser) Close() error {
	m.Closed = true
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Ensure Browser implements ports.Browser
var _ ports.Browser = (*Browser)(nil)
