// Package batch applies publish and delete operations to an ordered list of
// paths.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/user/staticgen/pkg/adapters/logger"
	"github.com/user/staticgen/pkg/metrics"
	"github.com/user/staticgen/pkg/ports"
	"github.com/user/staticgen/pkg/resolver"
)

// Mode selects how a batch reacts to a failing path.
type Mode string

const (
	// ModeFailFast stops at the first failure.
	ModeFailFast Mode = "fail-fast"
	// ModeCollectAll attempts every path and reports all failures together.
	ModeCollectAll Mode = "collect-all"
)

// ParseMode parses a mode name. The empty string is ModeFailFast.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeFailFast:
		return ModeFailFast, nil
	case ModeCollectAll:
		return ModeCollectAll, nil
	}
	return "", fmt.Errorf("unknown batch mode %q (want %s or %s)", s, ModeFailFast, ModeCollectAll)
}

// Engine publishes and deletes single paths. *publisher.Publisher satisfies it.
type Engine interface {
	PublishN(ctx context.Context, path string, content []byte) (int, error)
	Delete(ctx context.Context, path string) error
	Resolve(path string) resolver.Location
}

// Config contains the batch settings.
type Config struct {
	Mode Mode
	// Workers bounds parallelism in ModeCollectAll. Values below 2 run
	// sequentially. Fail-fast batches always run sequentially.
	Workers int
}

// DefaultConfig returns a sequential fail-fast configuration.
func DefaultConfig() Config {
	return Config{Mode: ModeFailFast, Workers: 1}
}

// Item is a path with optional literal content. Nil content is fetched.
type Item struct {
	Path    string
	Content []byte
}

// Result is the outcome for one path.
type Result struct {
	Path     string
	Location resolver.Location
	Bytes    int // Bytes written by a publish
	Err      error
	Duration time.Duration
}

// OK reports whether the path succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Driver runs batches against an Engine.
type Driver struct {
	engine Engine
	config Config
	logger ports.Logger
}

// New creates a Driver. A nil logger discards output.
func New(engine Engine, config Config, log ports.Logger) *Driver {
	if log == nil {
		log = logger.NewNoop()
	}
	if config.Mode == "" {
		config.Mode = ModeFailFast
	}
	return &Driver{
		engine: engine,
		config: config,
		logger: log.WithComponent("batch"),
	}
}

// PublishAll publishes every path with fetched content.
func (d *Driver) PublishAll(ctx context.Context, paths []string) ([]Result, error) {
	items := make([]Item, len(paths))
	for i, p := range paths {
		items[i] = Item{Path: p}
	}
	return d.PublishContent(ctx, items)
}

// PublishContent publishes every item, fetching content only for items
// without it.
func (d *Driver) PublishContent(ctx context.Context, items []Item) ([]Result, error) {
	d.logger.Info("Publishing %d paths", len(items))
	return d.run(ctx, metrics.OpPublish, items, func(ctx context.Context, item Item) (int, error) {
		return d.engine.PublishN(ctx, item.Path, item.Content)
	})
}

// DeleteAll deletes every path.
func (d *Driver) DeleteAll(ctx context.Context, paths []string) ([]Result, error) {
	items := make([]Item, len(paths))
	for i, p := range paths {
		items[i] = Item{Path: p}
	}
	d.logger.Info("Deleting %d paths", len(items))
	return d.run(ctx, metrics.OpDelete, items, func(ctx context.Context, item Item) (int, error) {
		return 0, d.engine.Delete(ctx, item.Path)
	})
}

type applyFunc func(ctx context.Context, item Item) (int, error)

func (d *Driver) run(ctx context.Context, op metrics.Operation, items []Item, apply applyFunc) ([]Result, error) {
	start := time.Now()
	var (
		results []Result
		err     error
	)
	if d.config.Mode == ModeCollectAll {
		results, err = d.collectAll(ctx, op, items, apply)
	} else {
		results, err = d.failFast(ctx, op, items, apply)
	}

	succeeded := 0
	for _, r := range results {
		if r.OK() {
			succeeded++
		}
	}
	d.logger.Info("Finished %s: %d of %d paths succeeded in %d ms",
		op, succeeded, len(items), time.Since(start).Milliseconds())
	return results, err
}

func (d *Driver) failFast(ctx context.Context, op metrics.Operation, items []Item, apply applyFunc) ([]Result, error) {
	results := make([]Result, 0, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			d.logger.Warn("Interrupted before %s", item.Path)
			return results, err
		}
		r := d.apply(ctx, op, item, apply)
		results = append(results, r)
		if r.Err != nil {
			d.logger.Error("Stopping after first failure")
			return results, r.Err
		}
	}
	return results, nil
}

func (d *Driver) collectAll(ctx context.Context, op metrics.Operation, items []Item, apply applyFunc) ([]Result, error) {
	results := make([]Result, len(items))

	var g errgroup.Group
	g.SetLimit(max(1, d.config.Workers))
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			results[i] = Result{Path: item.Path, Location: d.engine.Resolve(item.Path), Err: err}
			continue
		}
		g.Go(func() error {
			results[i] = d.apply(ctx, op, item, apply)
			return nil
		})
	}
	g.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Path, r.Err))
		}
	}
	return results, errors.Join(errs...)
}

func (d *Driver) apply(ctx context.Context, op metrics.Operation, item Item, apply applyFunc) Result {
	start := time.Now()
	n, err := apply(ctx, item)
	r := Result{
		Path:     item.Path,
		Location: d.engine.Resolve(item.Path),
		Bytes:    n,
		Err:      err,
		Duration: time.Since(start),
	}
	if err != nil {
		d.logger.Error("Failed to %s %s: %s", op, item.Path, err)
	} else {
		d.logger.Info("%s %s -> %s", op, item.Path, r.Location.FilePath)
	}
	return r
}
