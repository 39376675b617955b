package types

import (
	"io"
	"io/fs"
)

// FS is the filesystem interface required for packsmith operations. The OS
// implementation lives in pkg/filesystem; tests use the in-memory
// implementation from pkg/testutil.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// WriteFileAtomic writes data so that a crash leaves either the old
	// or the new content at name, never a partial write.
	WriteFileAtomic(name string, data []byte, perm fs.FileMode) error

	// Create opens name for streaming writes, truncating it if present.
	Create(name string) (io.WriteCloser, error)

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error
}
