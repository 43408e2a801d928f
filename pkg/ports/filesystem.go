package ports

import "os"

// FileSystem abstracts the file system primitives used to publish and remove
// snapshots under the web root.
type FileSystem interface {
	// Exists checks if a file or directory exists.
	Exists(path string) (bool, error)

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string) error

	// TempFile creates a uniquely named file inside dir and opens it for writing.
	// The file is never created outside dir, so a later Rename into the same
	// directory stays on one file system.
	TempFile(dir string) (StagedFile, error)

	// Chmod sets the permission bits of a file.
	Chmod(path string, mode os.FileMode) error

	// Rename replaces newPath with oldPath in a single operation.
	Rename(oldPath, newPath string) error

	// Remove deletes a file.
	Remove(path string) error

	// RemoveDir deletes a directory. It fails when the directory is not empty.
	RemoveDir(path string) error
}

// StagedFile is a temporary file opened for writing by FileSystem.TempFile.
type StagedFile interface {
	// Name returns the full path of the file.
	Name() string

	// Write appends data to the file.
	Write(data []byte) (int, error)

	// Close flushes and closes the file.
	Close() error
}
