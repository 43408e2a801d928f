package staticgen

import (
	"context"
	"net/http"

	"github.com/user/staticgen/pkg/adapters/handlerfetcher"
	"github.com/user/staticgen/pkg/adapters/logger"
	"github.com/user/staticgen/pkg/adapters/osfilesystem"
	"github.com/user/staticgen/pkg/batch"
	"github.com/user/staticgen/pkg/metrics"
	"github.com/user/staticgen/pkg/ports"
	"github.com/user/staticgen/pkg/publisher"
	"github.com/user/staticgen/pkg/resource"
)

// Generator publishes and deletes resources under a web root.
type Generator struct {
	config     Config
	serverName string
	publisher  *publisher.Publisher
	driver     *batch.Driver
}

type options struct {
	fs         ports.FileSystem
	fetcher    ports.ContentFetcher
	handler    http.Handler
	middleware []handlerfetcher.Middleware
	logger     ports.Logger
	recorder   metrics.Recorder
}

// Option configures a Generator.
type Option func(*options)

// WithFileSystem replaces the OS filesystem.
func WithFileSystem(fs ports.FileSystem) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithFetcher sets the content fetcher used for paths without content.
func WithFetcher(f ports.ContentFetcher) Option {
	return func(o *options) {
		o.fetcher = f
	}
}

// WithHandler renders paths through an in-process handler wrapped in mw.
// It takes precedence over WithFetcher.
func WithHandler(h http.Handler, mw ...handlerfetcher.Middleware) Option {
	return func(o *options) {
		o.handler = h
		o.middleware = mw
	}
}

// WithLogger sets the logger.
func WithLogger(l ports.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// New creates a Generator.
func New(cfg Config, opts ...Option) (*Generator, error) {
	o := options{
		logger:   logger.NewNoop(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.fs == nil {
		o.fs = osfilesystem.New()
	}

	serverName := cfg.ServerName
	if serverName == "" {
		serverName = handlerfetcher.DefaultServerName
		// Only rendering sends requests to the server name.
		if o.handler != nil || o.fetcher != nil {
			o.logger.Warn("No server name configured, using %s", serverName)
		}
	}

	fetcher := o.fetcher
	if o.handler != nil {
		fetcher = handlerfetcher.New(o.handler, serverName,
			handlerfetcher.WithMiddleware(o.middleware...),
			handlerfetcher.WithLogger(o.logger))
	}

	pub, err := publisher.New(cfg.WebRoot, o.fs, fetcher,
		publisher.WithLogger(o.logger),
		publisher.WithRecorder(o.recorder))
	if err != nil {
		return nil, err
	}

	return &Generator{
		config:     cfg,
		serverName: serverName,
		publisher:  pub,
		driver:     batch.New(pub, batch.Config{Mode: cfg.Mode, Workers: cfg.Workers}, o.logger),
	}, nil
}

// ServerName returns the effective server name.
func (g *Generator) ServerName() string {
	return g.serverName
}

// Publisher returns the underlying engine.
func (g *Generator) Publisher() *publisher.Publisher {
	return g.publisher
}

// Publish renders and publishes every path of resources, in order.
func (g *Generator) Publish(ctx context.Context, resources ...resource.Resource) ([]batch.Result, error) {
	return g.driver.PublishAll(ctx, resource.Extract(resources...))
}

// PublishContent publishes literal content.
func (g *Generator) PublishContent(ctx context.Context, items ...batch.Item) ([]batch.Result, error) {
	return g.driver.PublishContent(ctx, items)
}

// Delete deletes every path of resources, in order.
func (g *Generator) Delete(ctx context.Context, resources ...resource.Resource) ([]batch.Result, error) {
	return g.driver.DeleteAll(ctx, resource.Extract(resources...))
}

// QuickPublish renders resources through handler and publishes them with a
// one-off Generator.
func QuickPublish(ctx context.Context, cfg Config, handler http.Handler, resources ...resource.Resource) ([]batch.Result, error) {
	g, err := New(cfg, WithHandler(handler))
	if err != nil {
		return nil, err
	}
	return g.Publish(ctx, resources...)
}

// QuickDelete deletes resources with a one-off Generator.
func QuickDelete(ctx context.Context, cfg Config, resources ...resource.Resource) ([]batch.Result, error) {
	g, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return g.Delete(ctx, resources...)
}
