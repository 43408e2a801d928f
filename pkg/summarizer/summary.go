// Package summarizer provides summary generation for batch runs.
package summarizer

import (
	"time"

	"github.com/google/uuid"

	"github.com/user/staticgen/pkg/batch"
)

// Summary contains all data collected during one batch run.
type Summary struct {
	// Metadata
	RunID       string
	GeneratedAt time.Time

	// Run settings
	Operation  string // publish or delete
	WebRoot    string
	ServerName string
	Mode       string
	Workers    int

	Duration time.Duration
	Rows     []Row
}

// Row is the outcome of one path.
type Row struct {
	Path       string
	File       string
	Bytes      int
	DurationMs int64
	Error      string // Empty on success
}

// Succeeded returns the number of successful rows.
func (s *Summary) Succeeded() int {
	n := 0
	for _, r := range s.Rows {
		if r.Error == "" {
			n++
		}
	}
	return n
}

// Failed returns the number of failed rows.
func (s *Summary) Failed() int {
	return len(s.Rows) - s.Succeeded()
}

// TotalBytes returns the bytes written across all rows.
func (s *Summary) TotalBytes() int64 {
	var total int64
	for _, r := range s.Rows {
		total += int64(r.Bytes)
	}
	return total
}

// NewSummary creates a new Summary with a fresh run id and the current
// timestamp.
func NewSummary() *Summary {
	return &Summary{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithOperation sets the operation name.
func (b *Builder) WithOperation(op string) *Builder {
	b.summary.Operation = op
	return b
}

// WithTarget sets the web root and server name.
func (b *Builder) WithTarget(webRoot, serverName string) *Builder {
	b.summary.WebRoot = webRoot
	b.summary.ServerName = serverName
	return b
}

// WithBatch sets the batch settings.
func (b *Builder) WithBatch(cfg batch.Config) *Builder {
	b.summary.Mode = string(cfg.Mode)
	b.summary.Workers = cfg.Workers
	return b
}

// WithDuration sets the wall-clock duration of the run.
func (b *Builder) WithDuration(d time.Duration) *Builder {
	b.summary.Duration = d
	return b
}

// WithResults appends one row per result.
func (b *Builder) WithResults(results []batch.Result) *Builder {
	for _, r := range results {
		row := Row{
			Path:       r.Path,
			File:       r.Location.FilePath,
			Bytes:      r.Bytes,
			DurationMs: r.Duration.Milliseconds(),
		}
		if r.Err != nil {
			row.Error = r.Err.Error()
		}
		b.summary.Rows = append(b.summary.Rows, row)
	}
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
