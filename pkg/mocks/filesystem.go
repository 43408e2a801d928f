package mocks

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"

	"github.com/user/staticgen/pkg/ports"
)

// FileSystem is a mock implementation of ports.FileSystem backed by an
// in-memory tree. Each *Func field, when set, replaces the default behaviour
// of its method so tests can inject failures at any step.
type FileSystem struct {
	mu      sync.RWMutex
	files   map[string]*memFile
	dirs    map[string]bool
	tempSeq int
	calls   []string

	ExistsFunc    func(path string) (bool, error)
	MkdirAllFunc  func(path string) error
	TempFileFunc  func(dir string) (ports.StagedFile, error)
	WriteFunc     func(name string, data []byte) (int, error)
	CloseFunc     func(name string) error
	ChmodFunc     func(path string, mode os.FileMode) error
	RenameFunc    func(oldPath, newPath string) error
	RemoveFunc    func(path string) error
	RemoveDirFunc func(path string) error
}

type memFile struct {
	data []byte
	mode os.FileMode
}

// NewFileSystem creates a new mock FileSystem containing only "/".
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files: make(map[string]*memFile),
		dirs:  map[string]bool{string(filepath.Separator): true},
	}
}

func (m *FileSystem) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

func (m *FileSystem) Exists(path string) (bool, error) {
	m.record("Exists " + path)
	if m.ExistsFunc != nil {
		return m.ExistsFunc(path)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, isFile := m.files[path]
	return isFile || m.dirs[path], nil
}

func (m *FileSystem) MkdirAll(path string) error {
	m.record("MkdirAll " + path)
	if m.MkdirAllFunc != nil {
		return m.MkdirAllFunc(path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mkdirAll(path)
}

func (m *FileSystem) mkdirAll(path string) error {
	for p := path; ; p = filepath.Dir(p) {
		if _, isFile := m.files[p]; isFile {
			return &os.PathError{Op: "mkdir", Path: p, Err: syscall.ENOTDIR}
		}
		if p == filepath.Dir(p) {
			break
		}
	}
	for p := path; !m.dirs[p]; p = filepath.Dir(p) {
		m.dirs[p] = true
	}
	return nil
}

func (m *FileSystem) TempFile(dir string) (ports.StagedFile, error) {
	m.record("TempFile " + dir)
	if m.TempFileFunc != nil {
		return m.TempFileFunc(dir)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.dirs[dir] {
		return nil, &os.PathError{Op: "createtemp", Path: dir, Err: os.ErrNotExist}
	}
	m.tempSeq++
	name := filepath.Join(dir, fmt.Sprintf(".staticgen-%d", m.tempSeq))
	m.files[name] = &memFile{mode: 0600}
	return &stagedFile{fs: m, name: name}, nil
}

func (m *FileSystem) Chmod(path string, mode os.FileMode) error {
	m.record("Chmod " + path)
	if m.ChmodFunc != nil {
		return m.ChmodFunc(path, mode)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[path]
	if !ok {
		return &os.PathError{Op: "chmod", Path: path, Err: os.ErrNotExist}
	}
	f.mode = mode
	return nil
}

func (m *FileSystem) Rename(oldPath, newPath string) error {
	m.record("Rename " + oldPath + " " + newPath)
	if m.RenameFunc != nil {
		return m.RenameFunc(oldPath, newPath)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[oldPath]
	if !ok {
		return &os.LinkError{Op: "rename", Old: oldPath, New: newPath, Err: os.ErrNotExist}
	}
	if m.dirs[newPath] {
		return &os.LinkError{Op: "rename", Old: oldPath, New: newPath, Err: syscall.EISDIR}
	}
	delete(m.files, oldPath)
	m.files[newPath] = f
	return nil
}

func (m *FileSystem) Remove(path string) error {
	m.record("Remove " + path)
	if m.RemoveFunc != nil {
		return m.RemoveFunc(path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[path]; !ok {
		return &os.PathError{Op: "remove", Path: path, Err: os.ErrNotExist}
	}
	delete(m.files, path)
	return nil
}

func (m *FileSystem) RemoveDir(path string) error {
	m.record("RemoveDir " + path)
	if m.RemoveDirFunc != nil {
		return m.RemoveDirFunc(path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.dirs[path] {
		return &os.PathError{Op: "rmdir", Path: path, Err: os.ErrNotExist}
	}
	for name := range m.files {
		if filepath.Dir(name) == path {
			return &os.PathError{Op: "rmdir", Path: path, Err: syscall.ENOTEMPTY}
		}
	}
	for dir := range m.dirs {
		if dir != path && filepath.Dir(dir) == path {
			return &os.PathError{Op: "rmdir", Path: path, Err: syscall.ENOTEMPTY}
		}
	}
	delete(m.dirs, path)
	return nil
}

// AddFile stores a file and creates its parent directories (for test setup).
func (m *FileSystem) AddFile(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mkdirAll(filepath.Dir(path))
	m.files[path] = &memFile{data: append([]byte(nil), data...), mode: 0644}
}

// AddDir creates a directory and its parents (for test setup).
func (m *FileSystem) AddDir(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mkdirAll(path)
}

// GetFile returns the contents of a file (for test verification).
func (m *FileSystem) GetFile(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[path]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), f.data...), true
}

// Mode returns the permission bits of a file (for test verification).
func (m *FileSystem) Mode(path string) (os.FileMode, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[path]
	if !ok {
		return 0, false
	}
	return f.mode, true
}

// HasDir reports whether a directory exists (for test verification).
func (m *FileSystem) HasDir(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dirs[path]
}

// FileNames returns every file path, sorted (for test verification).
func (m *FileSystem) FileNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Calls returns the recorded method calls in order, each formatted as
// "Method arg..." (for test verification).
func (m *FileSystem) Calls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.calls...)
}

// CallsTo returns the recorded calls of one method.
func (m *FileSystem) CallsTo(method string) []string {
	var out []string
	for _, c := range m.Calls() {
		if strings.HasPrefix(c, method+" ") {
			out = append(out, c)
		}
	}
	return out
}

// stagedFile is the ports.StagedFile handed out by FileSystem.TempFile.
type stagedFile struct {
	fs     *FileSystem
	name   string
	buf    bytes.Buffer
	closed bool
}

func (f *stagedFile) Name() string {
	return f.name
}

func (f *stagedFile) Write(data []byte) (int, error) {
	f.fs.record("Write " + f.name)
	if f.fs.WriteFunc != nil {
		return f.fs.WriteFunc(f.name, data)
	}
	if f.closed {
		return 0, os.ErrClosed
	}
	n, _ := f.buf.Write(data)
	f.fs.mu.Lock()
	if mf, ok := f.fs.files[f.name]; ok {
		mf.data = append([]byte(nil), f.buf.Bytes()...)
	}
	f.fs.mu.Unlock()
	return n, nil
}

func (f *stagedFile) Close() error {
	f.fs.record("Close " + f.name)
	if f.fs.CloseFunc != nil {
		return f.fs.CloseFunc(f.name)
	}
	if f.closed {
		return os.ErrClosed
	}
	f.closed = true
	return nil
}

var _ ports.FileSystem = (*FileSystem)(nil)
