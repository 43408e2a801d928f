package publisher

import (
	"errors"
	"fmt"
)

var (
	// ErrNoWebRoot indicates the web root was not configured.
	ErrNoWebRoot = errors.New("you must specify a web root")
	// ErrNoFetcher indicates content was requested without a content fetcher.
	ErrNoFetcher = errors.New("no content fetcher configured")
)

// Kind classifies engine failures.
type Kind string

const (
	KindConfiguration   Kind = "configuration"
	KindPath            Kind = "path"
	KindDirectoryCreate Kind = "directory_create"
	KindFileWrite       Kind = "file_write"
	KindFileDelete      Kind = "file_delete"
)

// Error is returned by the engine for every fatal condition except render
// failures, which surface as *ports.RenderError unchanged.
type Error struct {
	Kind Kind
	Path string // Offending file or directory
	Err  error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindDirectoryCreate:
		msg = "could not create the directory: " + e.Path
	case KindFileWrite:
		msg = "could not create the file: " + e.Path
	case KindFileDelete:
		msg = "could not delete file: " + e.Path
	case KindPath:
		msg = "path resolves outside the web root: " + e.Path
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
