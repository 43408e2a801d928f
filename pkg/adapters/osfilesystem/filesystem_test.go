package osfilesystem

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends runs each test against the real file system and the in-memory one.
func backends(t *testing.T) map[string]func(t *testing.T) (*FileSystem, string) {
	t.Helper()
	return map[string]func(t *testing.T) (*FileSystem, string){
		"os": func(t *testing.T) (*FileSystem, string) {
			return New(), t.TempDir()
		},
		"memory": func(t *testing.T) (*FileSystem, string) {
			fs := NewMemory()
			require.NoError(t, fs.MkdirAll("/root"))
			return fs, "/root"
		},
	}
}

func TestFileSystem_Exists(t *testing.T) {
	for name, setup := range backends(t) {
		t.Run(name, func(t *testing.T) {
			fs, root := setup(t)

			exists, err := fs.Exists(root)
			require.NoError(t, err)
			assert.True(t, exists)

			exists, err = fs.Exists(filepath.Join(root, "missing"))
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestFileSystem_MkdirAll(t *testing.T) {
	for name, setup := range backends(t) {
		t.Run(name, func(t *testing.T) {
			fs, root := setup(t)
			dir := filepath.Join(root, "a", "b", "c")

			require.NoError(t, fs.MkdirAll(dir))

			info, err := fs.Fs().Stat(dir)
			require.NoError(t, err)
			assert.True(t, info.IsDir())
		})
	}
}

func TestFileSystem_TempFileStaysInDirectory(t *testing.T) {
	for name, setup := range backends(t) {
		t.Run(name, func(t *testing.T) {
			fs, root := setup(t)

			first, err := fs.TempFile(root)
			require.NoError(t, err)
			second, err := fs.TempFile(root)
			require.NoError(t, err)

			assert.Equal(t, root, filepath.Dir(first.Name()))
			assert.True(t, strings.HasPrefix(filepath.Base(first.Name()), ".staticgen-"))
			assert.NotEqual(t, first.Name(), second.Name())

			n, err := first.Write([]byte("foo"))
			require.NoError(t, err)
			assert.Equal(t, 3, n)
			require.NoError(t, first.Close())
			require.NoError(t, second.Close())

			data, err := afero.ReadFile(fs.Fs(), first.Name())
			require.NoError(t, err)
			assert.Equal(t, "foo", string(data))
		})
	}
}

func TestFileSystem_TempFileMissingDirectory(t *testing.T) {
	for name, setup := range backends(t) {
		t.Run(name, func(t *testing.T) {
			fs, root := setup(t)

			_, err := fs.TempFile(filepath.Join(root, "nope"))
			assert.Error(t, err)
		})
	}
}

func TestFileSystem_ChmodAndRename(t *testing.T) {
	for name, setup := range backends(t) {
		t.Run(name, func(t *testing.T) {
			fs, root := setup(t)
			target := filepath.Join(root, "index.html")
			require.NoError(t, afero.WriteFile(fs.Fs(), target, []byte("old"), 0600))

			staged, err := fs.TempFile(root)
			require.NoError(t, err)
			_, err = staged.Write([]byte("new"))
			require.NoError(t, err)
			require.NoError(t, staged.Close())

			// MemMapFs renames the open handle too, so keep the staged name.
			stagedName := staged.Name()
			require.NoError(t, fs.Chmod(stagedName, 0644))
			require.NoError(t, fs.Rename(stagedName, target))

			data, err := afero.ReadFile(fs.Fs(), target)
			require.NoError(t, err)
			assert.Equal(t, "new", string(data))

			info, err := fs.Fs().Stat(target)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

			exists, err := fs.Exists(stagedName)
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestFileSystem_Remove(t *testing.T) {
	for name, setup := range backends(t) {
		t.Run(name, func(t *testing.T) {
			fs, root := setup(t)
			file := filepath.Join(root, "some_file")
			require.NoError(t, afero.WriteFile(fs.Fs(), file, []byte("content"), 0644))

			require.NoError(t, fs.Remove(file))

			exists, err := fs.Exists(file)
			require.NoError(t, err)
			assert.False(t, exists)

			err = fs.Remove(file)
			assert.True(t, errors.Is(err, os.ErrNotExist))

			assert.Error(t, fs.Remove(root), "directories must be refused")
		})
	}
}

func TestFileSystem_RemoveDir(t *testing.T) {
	for name, setup := range backends(t) {
		t.Run(name, func(t *testing.T) {
			fs, root := setup(t)
			empty := filepath.Join(root, "empty")
			full := filepath.Join(root, "full")
			require.NoError(t, fs.MkdirAll(empty))
			require.NoError(t, fs.MkdirAll(full))
			require.NoError(t, afero.WriteFile(fs.Fs(), filepath.Join(full, "sibling.html"), []byte("x"), 0644))

			require.NoError(t, fs.RemoveDir(empty))
			exists, err := fs.Exists(empty)
			require.NoError(t, err)
			assert.False(t, exists)

			err = fs.RemoveDir(full)
			assert.True(t, errors.Is(err, syscall.ENOTEMPTY))
			exists, err = fs.Exists(full)
			require.NoError(t, err)
			assert.True(t, exists)

			err = fs.RemoveDir(empty)
			assert.True(t, errors.Is(err, os.ErrNotExist))
		})
	}
}
