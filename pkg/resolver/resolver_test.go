package resolver

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	root := filepath.FromSlash("/site")

	tests := []struct {
		name     string
		path     string
		wantFile string
		wantDir  string
	}{
		{
			name:     "trailing slash selects index file",
			path:     "/a/b/",
			wantFile: "/site/a/b/index.html",
			wantDir:  "/site/a/b",
		},
		{
			name:     "file path",
			path:     "/a/b/c",
			wantFile: "/site/a/b/c",
			wantDir:  "/site/a/b",
		},
		{
			name:     "root path",
			path:     "/",
			wantFile: "/site/index.html",
			wantDir:  "/site",
		},
		{
			name:     "path without leading slash",
			path:     "feed.xml",
			wantFile: "/site/feed.xml",
			wantDir:  "/site",
		},
		{
			name:     "repeated leading slashes",
			path:     "//blog/post-1/",
			wantFile: "/site/blog/post-1/index.html",
			wantDir:  "/site/blog/post-1",
		},
		{
			name:     "empty path is the root itself",
			path:     "",
			wantFile: "/site",
			wantDir:  "/",
		},
		{
			name:     "parent segments are cleaned",
			path:     "/a/../../etc/passwd",
			wantFile: "/etc/passwd",
			wantDir:  "/etc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := Resolve(root, tt.path)
			assert.Equal(t, filepath.FromSlash(tt.wantFile), loc.FilePath)
			assert.Equal(t, filepath.FromSlash(tt.wantDir), loc.Dir)
		})
	}
}

func TestResolve_JoinLaws(t *testing.T) {
	root := filepath.FromSlash("/var/www")
	paths := []string{"/a", "/a/b.html", "x/y/z", "/deep/nested/page.json", "/trailing/", "/", "a/"}

	for _, p := range paths {
		loc := Resolve(root, p)
		stripped := p
		for len(stripped) > 0 && stripped[0] == '/' {
			stripped = stripped[1:]
		}
		if len(p) > 0 && p[len(p)-1] == '/' {
			stripped += IndexFile
		}
		assert.Equal(t, filepath.Join(root, filepath.FromSlash(stripped)), loc.FilePath, p)
		assert.Equal(t, filepath.Dir(loc.FilePath), loc.Dir, p)
	}
}

func TestResolve_IsDeterministic(t *testing.T) {
	assert.Equal(t, Resolve("/site", "/a/b/"), Resolve("/site", "/a/b/"))
}

func TestContains(t *testing.T) {
	root := filepath.FromSlash("/site")

	tests := []struct {
		path string
		want bool
	}{
		{"/site/index.html", true},
		{"/site/a/b/c", true},
		{"/site/..hidden", true},
		{"/site", false},
		{"/site/", false},
		{"/etc/passwd", false},
		{"/sitemap/index.html", false},
		{"/", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Contains(root, filepath.FromSlash(tt.path)))
		})
	}
}
