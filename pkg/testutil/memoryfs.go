package testutil

import (
	"bytes"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryFS implements types.FS with in-memory storage. Directories are
// implicit: any path prefix of a stored file is treated as an existing
// directory. Error injection lets tests simulate filesystem failures on
// specific paths and operations.
type MemoryFS struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool

	// errorPaths maps "op path" (e.g. "remove /inst/mods/x.jar") to an
	// injected error returned instead of performing the operation.
	errorPaths map[string]error
}

// NewMemoryFS creates a new in-memory filesystem
func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		files:      make(map[string][]byte),
		dirs:       map[string]bool{"/": true},
		errorPaths: make(map[string]error),
	}
}

// FailWith injects an error for a given operation and path. Supported ops:
// stat, read, write, create, remove, rename, readdir.
func (m *MemoryFS) FailWith(op, path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorPaths[op+" "+filepath.Clean(path)] = err
}

func (m *MemoryFS) injected(op, path string) error {
	return m.errorPaths[op+" "+filepath.Clean(path)]
}

func (m *MemoryFS) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.injected("stat", name); err != nil {
		return nil, err
	}

	name = filepath.Clean(name)
	if data, ok := m.files[name]; ok {
		return memInfo{name: filepath.Base(name), size: int64(len(data))}, nil
	}
	if m.hasDir(name) {
		return memInfo{name: filepath.Base(name), dir: true}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

func (m *MemoryFS) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.injected("read", name); err != nil {
		return nil, err
	}

	name = filepath.Clean(name)
	data, ok := m.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.injected("write", name); err != nil {
		return err
	}

	name = filepath.Clean(name)
	m.files[name] = append([]byte(nil), data...)
	m.mkdirs(filepath.Dir(name))
	return nil
}

func (m *MemoryFS) WriteFileAtomic(name string, data []byte, perm fs.FileMode) error {
	// In memory, a plain write is already atomic. Error injection still
	// applies so tests can simulate persist failures.
	return m.WriteFile(name, data, perm)
}

func (m *MemoryFS) Create(name string) (io.WriteCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.injected("create", name); err != nil {
		return nil, err
	}

	return &memWriter{fs: m, name: filepath.Clean(name)}, nil
}

func (m *MemoryFS) MkdirAll(path string, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mkdirs(filepath.Clean(path))
	return nil
}

func (m *MemoryFS) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.injected("readdir", name); err != nil {
		return nil, err
	}

	name = filepath.Clean(name)
	if !m.hasDir(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	seen := map[string]fs.DirEntry{}
	prefix := name + string(filepath.Separator)
	for p, data := range m.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		if i := strings.IndexRune(rest, filepath.Separator); i >= 0 {
			sub := rest[:i]
			seen[sub] = memEntry{memInfo{name: sub, dir: true}}
		} else {
			seen[rest] = memEntry{memInfo{name: rest, size: int64(len(data))}}
		}
	}
	for d := range m.dirs {
		if filepath.Dir(d) == name && d != name {
			base := filepath.Base(d)
			if _, ok := seen[base]; !ok {
				seen[base] = memEntry{memInfo{name: base, dir: true}}
			}
		}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)

	entries := make([]fs.DirEntry, 0, len(names))
	for _, n := range names {
		entries = append(entries, seen[n])
	}
	return entries, nil
}

func (m *MemoryFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.injected("remove", name); err != nil {
		return err
	}

	name = filepath.Clean(name)
	if _, ok := m.files[name]; !ok {
		if m.dirs[name] {
			delete(m.dirs, name)
			return nil
		}
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}
	delete(m.files, name)
	return nil
}

func (m *MemoryFS) RemoveAll(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	prefix := path + string(filepath.Separator)
	for p := range m.files {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(m.files, p)
		}
	}
	for d := range m.dirs {
		if d == path || strings.HasPrefix(d, prefix) {
			delete(m.dirs, d)
		}
	}
	return nil
}

func (m *MemoryFS) Rename(oldpath, newpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.injected("rename", oldpath); err != nil {
		return err
	}

	oldpath = filepath.Clean(oldpath)
	newpath = filepath.Clean(newpath)
	data, ok := m.files[oldpath]
	if !ok {
		return &fs.PathError{Op: "rename", Path: oldpath, Err: fs.ErrNotExist}
	}
	delete(m.files, oldpath)
	m.files[newpath] = data
	m.mkdirs(filepath.Dir(newpath))
	return nil
}

// Exists reports whether a file exists; a convenience for assertions.
func (m *MemoryFS) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[filepath.Clean(name)]
	return ok
}

// Paths returns every stored file path, sorted. Useful for asserting on the
// exact final state of a tree.
func (m *MemoryFS) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// mkdirs records path and all ancestors as directories. Caller holds mu.
func (m *MemoryFS) mkdirs(path string) {
	for path != "/" && path != "." && path != "" {
		m.dirs[path] = true
		path = filepath.Dir(path)
	}
}

// hasDir reports whether path is a known directory. Caller holds mu (read).
func (m *MemoryFS) hasDir(path string) bool {
	if m.dirs[path] {
		return true
	}
	prefix := path + string(filepath.Separator)
	for p := range m.files {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

type memWriter struct {
	fs   *MemoryFS
	name string
	buf  bytes.Buffer
}

func (w *memWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *memWriter) Close() error {
	w.fs.mu.Lock()
	defer w.fs.mu.Unlock()
	w.fs.files[w.name] = append([]byte(nil), w.buf.Bytes()...)
	w.fs.mkdirs(filepath.Dir(w.name))
	return nil
}

type memInfo struct {
	name string
	size int64
	dir  bool
}

func (i memInfo) Name() string       { return i.name }
func (i memInfo) Size() int64        { return i.size }
func (i memInfo) Mode() fs.FileMode  { return 0644 }
func (i memInfo) ModTime() time.Time { return time.Time{} }
func (i memInfo) IsDir() bool        { return i.dir }
func (i memInfo) Sys() interface{}   { return nil }

type memEntry struct {
	info memInfo
}

func (e memEntry) Name() string               { return e.info.name }
func (e memEntry) IsDir() bool                { return e.info.dir }
func (e memEntry) Type() fs.FileMode          { return e.info.Mode().Type() }
func (e memEntry) Info() (fs.FileInfo, error) { return e.info, nil }
