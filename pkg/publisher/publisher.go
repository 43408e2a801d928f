// Package publisher writes rendered pages to the web root and removes them.
//
// Publishing never exposes a partially written file: content is staged in a
// temporary file inside the target directory and linked into place with a
// single rename. Deleting removes the file and then tries to remove its now
// possibly empty directory, one level only.
package publisher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/user/staticgen/pkg/adapters/logger"
	"github.com/user/staticgen/pkg/metrics"
	"github.com/user/staticgen/pkg/ports"
	"github.com/user/staticgen/pkg/resolver"
)

// FileMode is the mode of every published file: read/write for the owner,
// read for group and others.
const FileMode os.FileMode = 0644

// Publisher publishes and deletes snapshots under a fixed web root.
type Publisher struct {
	webRoot  string
	fs       ports.FileSystem
	fetcher  ports.ContentFetcher
	logger   ports.Logger
	recorder metrics.Recorder
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l ports.Logger) Option {
	return func(p *Publisher) {
		p.logger = l.WithComponent("publisher")
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Publisher) {
		p.recorder = r
	}
}

// New creates a Publisher. fetcher may be nil when every Publish call supplies
// its own content.
func New(webRoot string, fs ports.FileSystem, fetcher ports.ContentFetcher, opts ...Option) (*Publisher, error) {
	if webRoot == "" {
		return nil, &Error{Kind: KindConfiguration, Err: ErrNoWebRoot}
	}
	p := &Publisher{
		webRoot:  filepath.Clean(webRoot),
		fs:       fs,
		fetcher:  fetcher,
		logger:   logger.NewNoop(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// WebRoot returns the cleaned web root.
func (p *Publisher) WebRoot() string {
	return p.webRoot
}

// Resolve returns the location path is published to.
func (p *Publisher) Resolve(path string) resolver.Location {
	return resolver.Resolve(p.webRoot, path)
}

// Publish writes content to the location of path. A nil content is fetched
// from the content fetcher first; an empty non-nil slice publishes an empty
// file. Render failures are returned unchanged.
func (p *Publisher) Publish(ctx context.Context, path string, content []byte) error {
	_, err := p.PublishN(ctx, path, content)
	return err
}

// PublishN is Publish reporting the number of bytes written.
func (p *Publisher) PublishN(ctx context.Context, path string, content []byte) (int, error) {
	start := time.Now()
	n, err := p.publish(ctx, path, content)
	p.recorder.ObserveOperationDuration(metrics.OpPublish, time.Since(start))
	p.recorder.IncOperation(metrics.OpPublish, metrics.ResultOf(err))
	if err == nil {
		p.recorder.AddBytesWritten(n)
	}
	return n, err
}

func (p *Publisher) publish(ctx context.Context, path string, content []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	loc, err := p.locate(path)
	if err != nil {
		return 0, err
	}

	if content == nil {
		if p.fetcher == nil {
			return 0, &Error{Kind: KindConfiguration, Path: path, Err: ErrNoFetcher}
		}
		p.logger.Debug("Fetching content for %s", path)
		content, err = p.fetcher.Fetch(ctx, path)
		if err != nil {
			var renderErr *ports.RenderError
			if errors.As(err, &renderErr) {
				p.recorder.IncRenderFailure(renderErr.StatusCode)
			}
			return 0, err
		}
	}

	// An error from Exists is treated like a missing directory; MkdirAll
	// reports the real problem.
	if exists, err := p.fs.Exists(loc.Dir); err != nil || !exists {
		p.logger.Debug("Creating directory %s", loc.Dir)
		if err := p.fs.MkdirAll(loc.Dir); err != nil {
			return 0, &Error{Kind: KindDirectoryCreate, Path: loc.Dir, Err: err}
		}
	}

	if err := p.writeAtomic(loc, content); err != nil {
		return 0, &Error{Kind: KindFileWrite, Path: loc.FilePath, Err: err}
	}
	p.logger.Debug("Published %s (%d bytes)", loc.FilePath, len(content))
	return len(content), nil
}

// writeAtomic stages content next to the target and renames it into place.
// A staged file left behind by a failure is never linked to the target.
func (p *Publisher) writeAtomic(loc resolver.Location, content []byte) error {
	staged, err := p.fs.TempFile(loc.Dir)
	if err != nil {
		return err
	}
	p.logger.Debug("Staged %s", staged.Name())
	if _, err := staged.Write(content); err != nil {
		staged.Close()
		return err
	}
	if err := staged.Close(); err != nil {
		return err
	}
	if err := p.fs.Chmod(staged.Name(), FileMode); err != nil {
		return err
	}
	return p.fs.Rename(staged.Name(), loc.FilePath)
}

// Delete removes the file published for path, then tries to remove its
// directory. A missing file is not an error, and a directory that cannot be
// removed (usually because siblings remain) is left alone.
func (p *Publisher) Delete(ctx context.Context, path string) error {
	start := time.Now()
	err := p.delete(ctx, path)
	p.recorder.ObserveOperationDuration(metrics.OpDelete, time.Since(start))
	p.recorder.IncOperation(metrics.OpDelete, metrics.ResultOf(err))
	return err
}

func (p *Publisher) delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	loc, err := p.locate(path)
	if err != nil {
		return err
	}

	exists, err := p.fs.Exists(loc.FilePath)
	if err != nil {
		return &Error{Kind: KindFileDelete, Path: loc.FilePath, Err: err}
	}
	if exists {
		if err := p.fs.Remove(loc.FilePath); err != nil {
			return &Error{Kind: KindFileDelete, Path: loc.FilePath, Err: err}
		}
		p.logger.Debug("Deleted %s", loc.FilePath)
	} else {
		p.logger.Debug("Nothing to delete at %s", loc.FilePath)
	}

	p.prune(loc.Dir)
	return nil
}

// prune removes dir if it is empty. Failures are expected and swallowed.
func (p *Publisher) prune(dir string) {
	if dir == p.webRoot {
		return
	}
	if err := p.fs.RemoveDir(dir); err != nil {
		p.logger.Debug("Kept directory %s: %s", dir, err)
		return
	}
	p.recorder.IncDirectoryPruned()
	p.logger.Debug("Pruned empty directory %s", dir)
}

func (p *Publisher) locate(path string) (resolver.Location, error) {
	loc := resolver.Resolve(p.webRoot, path)
	if !resolver.Contains(p.webRoot, loc.FilePath) {
		return loc, &Error{Kind: KindPath, Path: path}
	}
	return loc, nil
}
