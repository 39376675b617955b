package filesystem

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio"

	"github.com/packsmith/packsmith/pkg/types"
)

// osFS implements types.FS using the OS filesystem
type osFS struct{}

// NewOS creates a new OS filesystem implementation
func NewOS() types.FS {
	return &osFS{}
}

func (o *osFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (o *osFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (o *osFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (o *osFS) WriteFileAtomic(name string, data []byte, perm fs.FileMode) error {
	// renameio stages the write in a temp file in the same directory and
	// renames it over name as the final operation.
	t, err := renameio.TempFile(filepath.Dir(name), name)
	if err != nil {
		return err
	}
	defer func() { _ = t.Cleanup() }()

	if err := t.Chmod(perm); err != nil {
		return err
	}
	if _, err := t.Write(data); err != nil {
		return err
	}
	return t.CloseAtomicallyReplace()
}

func (o *osFS) Create(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

func (o *osFS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (o *osFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

func (o *osFS) Remove(name string) error {
	return os.Remove(name)
}

func (o *osFS) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

func (o *osFS) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}
