package fsops

import (
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemFS is an in-memory FS implementation for tests. It records every
// destructive call so tests can assert which primitives were invoked.
type MemFS struct {
	mu    sync.Mutex
	nodes map[string]*memNode

	// FailWith makes operations on a path return the mapped error.
	FailWith map[string]error

	Trashed []string // paths passed to MoveToTrash
	Removed []string // paths passed to Remove/RemoveAll
	Copied  []string // destination paths passed to Copy
}

type memNode struct {
	dir     bool
	size    int64
	modTime time.Time
}

func NewMemFS() *MemFS {
	return &MemFS{
		nodes:    map[string]*memNode{"/": {dir: true}},
		FailWith: make(map[string]error),
	}
}

// AddFile creates a file and any missing parent directories.
func (m *MemFS) AddFile(p string, size int64, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	m.mkParents(p)
	m.nodes[p] = &memNode{size: size, modTime: modTime}
}

// AddDir creates a directory and any missing parents.
func (m *MemFS) AddDir(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	m.mkParents(p)
	m.nodes[p] = &memNode{dir: true}
}

func (m *MemFS) mkParents(p string) {
	for dir := path.Dir(p); dir != "/" && dir != "."; dir = path.Dir(dir) {
		if _, ok := m.nodes[dir]; !ok {
			m.nodes[dir] = &memNode{dir: true}
		}
	}
}

// Exists reports whether the path is still present.
func (m *MemFS) Exists(p string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.nodes[path.Clean(p)]
	return ok
}

func (m *MemFS) ReadDir(p string) ([]fs.DirEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	if err, ok := m.FailWith[p]; ok {
		return nil, &fs.PathError{Op: "readdir", Path: p, Err: err}
	}
	n, ok := m.nodes[p]
	if !ok {
		return nil, &fs.PathError{Op: "readdir", Path: p, Err: fs.ErrNotExist}
	}
	if !n.dir {
		return nil, &fs.PathError{Op: "readdir", Path: p, Err: fs.ErrInvalid}
	}

	prefix := p
	if prefix != "/" {
		prefix += "/"
	}
	var out []fs.DirEntry
	for childPath, child := range m.nodes {
		if !strings.HasPrefix(childPath, prefix) || childPath == p {
			continue
		}
		rest := childPath[len(prefix):]
		if strings.Contains(rest, "/") {
			continue // not an immediate child
		}
		out = append(out, memDirEntry{name: rest, node: child})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func (m *MemFS) Stat(p string) (fs.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	if err, ok := m.FailWith[p]; ok {
		return nil, &fs.PathError{Op: "stat", Path: p, Err: err}
	}
	n, ok := m.nodes[p]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: p, Err: fs.ErrNotExist}
	}
	return memFileInfo{name: path.Base(p), node: n}, nil
}

func (m *MemFS) Remove(p string) error {
	return m.remove(p, false)
}

func (m *MemFS) RemoveAll(p string) error {
	return m.remove(p, true)
}

func (m *MemFS) remove(p string, recursive bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	m.Removed = append(m.Removed, p)
	if err, ok := m.FailWith[p]; ok {
		return &fs.PathError{Op: "remove", Path: p, Err: err}
	}
	if _, ok := m.nodes[p]; !ok {
		if recursive {
			return nil // RemoveAll on a missing path succeeds, like os.RemoveAll
		}
		return &fs.PathError{Op: "remove", Path: p, Err: fs.ErrNotExist}
	}
	m.deleteSubtree(p)
	return nil
}

func (m *MemFS) deleteSubtree(p string) {
	prefix := p + "/"
	for other := range m.nodes {
		if other == p || strings.HasPrefix(other, prefix) {
			delete(m.nodes, other)
		}
	}
}

func (m *MemFS) MkdirAll(p string, _ fs.FileMode) error {
	p = path.Clean(p)
	m.mu.Lock()
	if err, ok := m.FailWith[p]; ok {
		m.mu.Unlock()
		return &fs.PathError{Op: "mkdir", Path: p, Err: err}
	}
	m.mu.Unlock()
	m.AddDir(p)
	return nil
}

func (m *MemFS) Copy(src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	src, dst = path.Clean(src), path.Clean(dst)
	if err, ok := m.FailWith[src]; ok {
		return &fs.PathError{Op: "copy", Path: src, Err: err}
	}
	n, ok := m.nodes[src]
	if !ok {
		return &fs.PathError{Op: "copy", Path: src, Err: fs.ErrNotExist}
	}
	m.Copied = append(m.Copied, dst)
	m.mkParents(dst)
	m.nodes[dst] = &memNode{dir: n.dir, size: n.size, modTime: n.modTime}
	prefix := src + "/"
	for other, node := range m.nodes {
		if strings.HasPrefix(other, prefix) {
			cp := *node
			m.nodes[path.Join(dst, other[len(prefix):])] = &cp
		}
	}
	return nil
}

func (m *MemFS) MoveToTrash(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	if err, ok := m.FailWith[p]; ok {
		return &fs.PathError{Op: "trash", Path: p, Err: err}
	}
	if _, ok := m.nodes[p]; !ok {
		return &fs.PathError{Op: "trash", Path: p, Err: fs.ErrNotExist}
	}
	m.Trashed = append(m.Trashed, p)
	m.deleteSubtree(p)
	return nil
}

type memDirEntry struct {
	name string
	node *memNode
}

func (e memDirEntry) Name() string { return e.name }
func (e memDirEntry) IsDir() bool  { return e.node.dir }

func (e memDirEntry) Type() fs.FileMode {
	if e.node.dir {
		return fs.ModeDir
	}
	return 0
}

func (e memDirEntry) Info() (fs.FileInfo, error) {
	return memFileInfo{name: e.name, node: e.node}, nil
}

type memFileInfo struct {
	name string
	node *memNode
}

func (i memFileInfo) Name() string { return i.name }
func (i memFileInfo) Size() int64  { return i.node.size }

func (i memFileInfo) Mode() fs.FileMode {
	if i.node.dir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}

func (i memFileInfo) ModTime() time.Time { return i.node.modTime }
func (i memFileInfo) IsDir() bool        { return i.node.dir }
func (i memFileInfo) Sys() any           { return nil }
