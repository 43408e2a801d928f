// Package resolver maps logical URL paths to locations under a web root.
package resolver

import (
	"path/filepath"
	"strings"
)

// IndexFile is appended to logical paths that end in a slash.
const IndexFile = "index.html"

// Location is where a logical path is published.
type Location struct {
	FilePath string // File that holds the snapshot
	Dir      string // Directory containing FilePath
}

// Resolve maps logicalPath onto webRoot. It performs no I/O and never fails.
//
// A trailing slash selects IndexFile inside that directory. Leading slashes are
// stripped so the result is joined under webRoot rather than replacing it. The
// empty path resolves to webRoot itself.
func Resolve(webRoot, logicalPath string) Location {
	if strings.HasSuffix(logicalPath, "/") {
		logicalPath += IndexFile
	}
	rel := filepath.FromSlash(strings.TrimLeft(logicalPath, "/"))
	file := filepath.Join(webRoot, rel)
	return Location{
		FilePath: file,
		Dir:      filepath.Dir(file),
	}
}

// Contains reports whether path lies under webRoot once both are cleaned.
// webRoot itself is not contained in webRoot.
func Contains(webRoot, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(webRoot), filepath.Clean(path))
	if err != nil {
		return false
	}
	if rel == "." || rel == ".." || filepath.IsAbs(rel) {
		return false
	}
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
