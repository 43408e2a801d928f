package summarizer

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Formatter defines the interface for formatting a Summary.
type Formatter interface {
	// Format converts a Summary to a formatted string.
	Format(summary *Summary) string
}

// FormatFunc is a function adapter for the Formatter interface.
type FormatFunc func(summary *Summary) string

// Format implements the Formatter interface.
func (f FormatFunc) Format(summary *Summary) string {
	return f(summary)
}

// TextFormatter renders one line per path, failures last.
var TextFormatter = FormatFunc(func(s *Summary) string {
	var ok, failed strings.Builder
	for _, r := range s.Rows {
		if r.Error == "" {
			fmt.Fprintf(&ok, "ok\t%s\t%s\n", r.Path, r.File)
		} else {
			fmt.Fprintf(&failed, "failed\t%s\t%s\n", r.Path, r.Error)
		}
	}
	return fmt.Sprintf("%s%s%s %d/%d succeeded\n", ok.String(), failed.String(), s.RunID, s.Succeeded(), len(s.Rows))
})

// ForPath picks a formatter from the file extension: Markdown for .md and
// .markdown, text otherwise.
func ForPath(path string) Formatter {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return NewMarkdownFormatter()
	}
	return TextFormatter
}
