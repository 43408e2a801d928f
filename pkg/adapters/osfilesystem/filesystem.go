// Package osfilesystem provides a filesystem implementation backed by afero.
package osfilesystem

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/afero"

	"github.com/user/staticgen/pkg/ports"
)

// DirMode is the mode used for directories created under the web root.
const DirMode os.FileMode = 0755

// TempPattern names staged files; the random part replaces the asterisk.
const TempPattern = ".staticgen-*"

// FileSystem implements ports.FileSystem on top of an afero.Fs.
type FileSystem struct {
	fs afero.Fs
}

// New creates a FileSystem on the operating system's file system.
func New() *FileSystem {
	return NewWithFs(afero.NewOsFs())
}

// NewMemory creates a FileSystem that lives entirely in memory.
func NewMemory() *FileSystem {
	return NewWithFs(afero.NewMemMapFs())
}

// NewWithFs wraps an arbitrary afero.Fs.
func NewWithFs(fs afero.Fs) *FileSystem {
	return &FileSystem{fs: fs}
}

// Fs returns the underlying afero.Fs.
func (f *FileSystem) Fs() afero.Fs {
	return f.fs
}

// Exists checks if a file or directory exists.
func (f *FileSystem) Exists(path string) (bool, error) {
	return afero.Exists(f.fs, path)
}

// MkdirAll creates a directory and all parent directories.
func (f *FileSystem) MkdirAll(path string) error {
	return f.fs.MkdirAll(path, DirMode)
}

// TempFile creates a uniquely named file inside dir.
func (f *FileSystem) TempFile(dir string) (ports.StagedFile, error) {
	// afero's in-memory backend creates missing parents on open; refuse that
	// so both backends behave like the OS.
	isDir, err := afero.IsDir(f.fs, dir)
	if err != nil {
		return nil, err
	}
	if !isDir {
		return nil, &os.PathError{Op: "createtemp", Path: dir, Err: syscall.ENOTDIR}
	}
	file, err := afero.TempFile(f.fs, dir, TempPattern)
	if err != nil {
		return nil, err
	}
	return file, nil
}

// Chmod sets the permission bits of a file.
func (f *FileSystem) Chmod(path string, mode os.FileMode) error {
	return f.fs.Chmod(path, mode)
}

// Rename replaces newPath with oldPath.
func (f *FileSystem) Rename(oldPath, newPath string) error {
	return f.fs.Rename(oldPath, newPath)
}

// Remove deletes a file. Directories are refused.
func (f *FileSystem) Remove(path string) error {
	info, err := f.fs.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &os.PathError{Op: "remove", Path: path, Err: syscall.EISDIR}
	}
	return f.fs.Remove(path)
}

// RemoveDir deletes an empty directory.
func (f *FileSystem) RemoveDir(path string) error {
	info, err := f.fs.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "rmdir", Path: path, Err: syscall.ENOTDIR}
	}
	entries, err := afero.ReadDir(f.fs, path)
	if err != nil {
		return fmt.Errorf("read directory: %w", err)
	}
	if len(entries) > 0 {
		return &os.PathError{Op: "rmdir", Path: path, Err: syscall.ENOTEMPTY}
	}
	return f.fs.Remove(path)
}

// Ensure FileSystem implements ports.FileSystem
var _ ports.FileSystem = (*FileSystem)(nil)
