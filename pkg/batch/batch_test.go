package batch

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/staticgen/pkg/mocks"
	"github.com/user/staticgen/pkg/ports"
	"github.com/user/staticgen/pkg/publisher"
	"github.com/user/staticgen/pkg/resolver"
)

func setup(t *testing.T, pages map[string]string) (*mocks.FileSystem, *mocks.ContentFetcher, *publisher.Publisher) {
	t.Helper()
	fs := mocks.NewFileSystem()
	fs.AddDir(filepath.FromSlash("/site"))
	fetcher := mocks.NewContentFetcher(pages)
	pub, err := publisher.New(filepath.FromSlash("/site"), fs, fetcher)
	require.NoError(t, err)
	return fs, fetcher, pub
}

func paths(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Path
	}
	return out
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeFailFast, m)

	m, err = ParseMode("collect-all")
	require.NoError(t, err)
	assert.Equal(t, ModeCollectAll, m)

	_, err = ParseMode("sometimes")
	assert.Error(t, err)
}

func TestPublishAll_InOrder(t *testing.T) {
	fs, fetcher, pub := setup(t, map[string]string{
		"/":         "home",
		"/about/":   "about",
		"/feed.xml": "<rss/>",
	})
	d := New(pub, DefaultConfig(), nil)

	results, err := d.PublishAll(context.Background(), []string{"/", "/about/", "/feed.xml"})

	require.NoError(t, err)
	assert.Equal(t, []string{"/", "/about/", "/feed.xml"}, paths(results))
	assert.Equal(t, []string{"/", "/about/", "/feed.xml"}, fetcher.Calls())
	assert.Equal(t, filepath.FromSlash("/site/about/index.html"), results[1].Location.FilePath)
	assert.Equal(t, len("<rss/>"), results[2].Bytes)

	data, ok := fs.GetFile(filepath.FromSlash("/site/index.html"))
	require.True(t, ok)
	assert.Equal(t, "home", string(data))
}

func TestPublishAll_FailFastStopsAtFirstError(t *testing.T) {
	_, fetcher, pub := setup(t, map[string]string{"/a": "a", "/c": "c"})
	d := New(pub, DefaultConfig(), nil)

	results, err := d.PublishAll(context.Background(), []string{"/a", "/missing", "/c"})

	var renderErr *ports.RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, "/missing", renderErr.Path)
	assert.Equal(t, []string{"/a", "/missing"}, paths(results))
	assert.True(t, results[0].OK())
	assert.False(t, results[1].OK())
	assert.Equal(t, []string{"/a", "/missing"}, fetcher.Calls())
}

func TestPublishAll_CollectAllAttemptsEverything(t *testing.T) {
	fs, _, pub := setup(t, map[string]string{"/a": "a", "/c": "c"})
	d := New(pub, Config{Mode: ModeCollectAll}, nil)

	results, err := d.PublishAll(context.Background(), []string{"/a", "/missing", "/c", "/gone"})

	require.Error(t, err)
	var renderErr *ports.RenderError
	assert.True(t, errors.As(err, &renderErr))
	assert.Contains(t, err.Error(), "/missing")
	assert.Contains(t, err.Error(), "/gone")

	assert.Equal(t, []string{"/a", "/missing", "/c", "/gone"}, paths(results))
	assert.True(t, results[0].OK())
	assert.False(t, results[1].OK())
	assert.True(t, results[2].OK())
	assert.False(t, results[3].OK())

	_, ok := fs.GetFile(filepath.FromSlash("/site/c"))
	assert.True(t, ok)
}

func TestPublishContent_UsesLiteralContent(t *testing.T) {
	fs, fetcher, pub := setup(t, nil)
	d := New(pub, DefaultConfig(), nil)

	results, err := d.PublishContent(context.Background(), []Item{
		{Path: "/a/b/", Content: []byte("hello")},
		{Path: "/robots.txt", Content: []byte("User-agent: *")},
	})

	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Empty(t, fetcher.Calls())
	data, _ := fs.GetFile(filepath.FromSlash("/site/a/b/index.html"))
	assert.Equal(t, "hello", string(data))
}

func TestDeleteAll(t *testing.T) {
	fs, _, pub := setup(t, map[string]string{"/a/b/": "x", "/a/c": "y"})
	d := New(pub, DefaultConfig(), nil)
	ctx := context.Background()

	_, err := d.PublishAll(ctx, []string{"/a/b/", "/a/c"})
	require.NoError(t, err)

	results, err := d.DeleteAll(ctx, []string{"/a/b/", "/a/c", "/never"})
	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Empty(t, fs.FileNames())
	assert.False(t, fs.HasDir(filepath.FromSlash("/site/a/b")))
	assert.False(t, fs.HasDir(filepath.FromSlash("/site/a")), "removed once its last file went")
	assert.True(t, fs.HasDir(filepath.FromSlash("/site")))
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	t.Run("fail-fast", func(t *testing.T) {
		_, fetcher, pub := setup(t, map[string]string{"/a": "a"})
		results, err := New(pub, DefaultConfig(), nil).PublishAll(ctx, []string{"/a", "/b"})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, results)
		assert.Empty(t, fetcher.Calls())
	})

	t.Run("collect-all", func(t *testing.T) {
		_, fetcher, pub := setup(t, map[string]string{"/a": "a"})
		results, err := New(pub, Config{Mode: ModeCollectAll, Workers: 2}, nil).PublishAll(ctx, []string{"/a", "/b"})
		assert.ErrorIs(t, err, context.Canceled)
		require.Len(t, results, 2)
		assert.ErrorIs(t, results[0].Err, context.Canceled)
		assert.Empty(t, fetcher.Calls())
	})
}

// slowEngine sleeps longer for earlier paths so completion order is the
// reverse of input order.
type slowEngine struct {
	mu      sync.Mutex
	running int32
	peak    int32
	done    []string
}

func (e *slowEngine) PublishN(ctx context.Context, path string, content []byte) (int, error) {
	n := atomic.AddInt32(&e.running, 1)
	defer atomic.AddInt32(&e.running, -1)
	for {
		peak := atomic.LoadInt32(&e.peak)
		if n <= peak || atomic.CompareAndSwapInt32(&e.peak, peak, n) {
			break
		}
	}
	time.Sleep(time.Duration(20-len(content)) * time.Millisecond)
	e.mu.Lock()
	e.done = append(e.done, path)
	e.mu.Unlock()
	if path == "/bad" {
		return 0, errors.New("bad")
	}
	return len(content), nil
}

func (e *slowEngine) Delete(ctx context.Context, path string) error {
	return nil
}

func (e *slowEngine) Resolve(path string) resolver.Location {
	return resolver.Resolve("/site", path)
}

func TestCollectAll_ParallelKeepsOrder(t *testing.T) {
	engine := &slowEngine{}
	d := New(engine, Config{Mode: ModeCollectAll, Workers: 3}, nil)

	items := make([]Item, 0, 9)
	for i, p := range []string{"/1", "/2", "/3", "/4", "/bad", "/6", "/7", "/8", "/9"} {
		items = append(items, Item{Path: p, Content: make([]byte, i)})
	}

	results, err := d.PublishContent(context.Background(), items)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "/bad: bad")
	require.Len(t, results, 9)
	for i, r := range results {
		assert.Equal(t, items[i].Path, r.Path)
		if r.Path == "/bad" {
			assert.Error(t, r.Err)
		} else {
			assert.NoError(t, r.Err)
			assert.Equal(t, i, r.Bytes)
		}
	}
	assert.Len(t, engine.done, 9)
	assert.LessOrEqual(t, atomic.LoadInt32(&engine.peak), int32(3))
}
