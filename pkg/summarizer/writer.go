package summarizer

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// Writer writes formatted summaries to files.
type Writer struct {
	formatter Formatter
	fs        afero.Fs
}

// NewWriter creates a Writer on the OS filesystem.
func NewWriter(formatter Formatter) *Writer {
	return NewWriterWithFs(formatter, afero.NewOsFs())
}

// NewWriterWithFs creates a Writer on fs.
func NewWriterWithFs(formatter Formatter, fs afero.Fs) *Writer {
	return &Writer{
		formatter: formatter,
		fs:        fs,
	}
}

// Write formats the summary and writes it to the specified path.
// Creates parent directories if they don't exist.
func (w *Writer) Write(path string, summary *Summary) error {
	content := w.formatter.Format(summary)

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := w.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}

	if err := afero.WriteFile(w.fs, path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
