package vfs

import (
	"bytes"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tidwall/btree"

	"github.com/wippyai/fs-bridge/vpath"
)

// MemFS is an in-memory sandbox. Paths are indexed in an ordered B-tree
// keyed by the cleaned absolute path, so enumeration order falls out of
// the index scan; object content and metadata live in a flat table keyed
// by object id.
type MemFS struct {
	mu      sync.RWMutex
	keys    *btree.Map[string, string]
	objects map[string]*memObject
	home    vpath.Path
	cwd     vpath.Path
}

type memObject struct {
	id   string
	dir  bool
	data []byte
}

// NewMemFS creates an empty in-memory sandbox seeded with the standard
// per-app directory layout.
func NewMemFS(opts *Options) *MemFS {
	fs := &MemFS{
		keys:    btree.NewMap[string, string](0),
		objects: make(map[string]*memObject),
		home:    opts.home(),
	}
	fs.cwd = fs.home

	fs.putLocked(vpath.Root, &memObject{id: uuid.NewString(), dir: true})
	for _, dir := range skeleton(fs.home) {
		fs.createDirLocked(dir)
	}
	return fs
}

func (fs *MemFS) putLocked(path vpath.Path, obj *memObject) {
	fs.keys.Set(path.String(), obj.id)
	fs.objects[obj.id] = obj
}

func (fs *MemFS) getLocked(path vpath.Path) (*memObject, bool) {
	id, ok := fs.keys.Get(path.String())
	if !ok {
		return nil, false
	}
	obj, ok := fs.objects[id]
	return obj, ok
}

// Exists reports whether a file or directory is present at path.
func (fs *MemFS) Exists(path vpath.Path) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	_, ok := fs.getLocked(path)
	return ok
}

// IsFile reports whether path names a regular file.
func (fs *MemFS) IsFile(path vpath.Path) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	obj, ok := fs.getLocked(path)
	return ok && !obj.dir
}

// Open opens the file at path for reading.
func (fs *MemFS) Open(path vpath.Path) (File, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	obj, ok := fs.getLocked(path)
	if !ok {
		return nil, ErrNotExist
	}
	if obj.dir {
		return nil, ErrIsDirectory
	}

	// Snapshot the content so the handle is stable across later writes.
	data := make([]byte, len(obj.data))
	copy(data, obj.data)
	return &memFile{Reader: bytes.NewReader(data), size: uint64(len(data))}, nil
}

// Read returns the entire content of the file at path.
func (fs *MemFS) Read(path vpath.Path) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	obj, ok := fs.getLocked(path)
	if !ok {
		return nil, ErrNotExist
	}
	if obj.dir {
		return nil, ErrIsDirectory
	}

	data := make([]byte, len(obj.data))
	copy(data, obj.data)
	return data, nil
}

// Write replaces the file at path with data, creating it if absent.
func (fs *MemFS) Write(path vpath.Path, data []byte) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if path.IsRoot() {
		return ErrIsDirectory
	}

	parent, ok := fs.getLocked(path.Dir())
	if !ok {
		return ErrNotExist
	}
	if !parent.dir {
		return ErrNotDirectory
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	if obj, ok := fs.getLocked(path); ok {
		if obj.dir {
			return ErrIsDirectory
		}
		obj.data = buf
		return nil
	}

	fs.putLocked(path, &memObject{id: uuid.NewString(), data: buf})
	return nil
}

// Enumerate lists the immediate children of the directory at path.
func (fs *MemFS) Enumerate(path vpath.Path) ([]vpath.Path, error) {
	return fs.enumerate(path, false)
}

// EnumerateRecursive lists the full subtree under path, depth-first.
func (fs *MemFS) EnumerateRecursive(path vpath.Path) ([]vpath.Path, error) {
	return fs.enumerate(path, true)
}

func (fs *MemFS) enumerate(path vpath.Path, recursive bool) ([]vpath.Path, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	obj, ok := fs.getLocked(path)
	if !ok {
		return nil, ErrNotExist
	}
	if !obj.dir {
		return nil, ErrNotDirectory
	}

	prefix := path.String()
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var out []vpath.Path
	fs.keys.Ascend(prefix, func(key, _ string) bool {
		if !strings.HasPrefix(key, prefix) {
			return false
		}
		rel := key[len(prefix):]
		if rel == "" {
			return true
		}
		if !recursive && strings.Contains(rel, "/") {
			return true
		}
		out = append(out, vpath.New(rel))
		return true
	})
	return out, nil
}

// CreateDir creates the directory at path and any missing intermediate
// directories. An existing directory at path is not an error.
func (fs *MemFS) CreateDir(path vpath.Path) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.createDirLocked(path)
}

func (fs *MemFS) createDirLocked(path vpath.Path) error {
	cur := vpath.Root
	for _, seg := range path.Segments() {
		cur = cur.Join(seg)
		if obj, ok := fs.getLocked(cur); ok {
			if !obj.dir {
				return ErrNotDirectory
			}
			continue
		}
		fs.putLocked(cur, &memObject{id: uuid.NewString(), dir: true})
	}
	return nil
}

// Remove deletes the file or empty directory at path.
func (fs *MemFS) Remove(path vpath.Path) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if path.IsRoot() {
		return ErrNotEmpty
	}

	obj, ok := fs.getLocked(path)
	if !ok {
		return ErrNotExist
	}
	if obj.dir {
		prefix := path.String() + "/"
		empty := true
		fs.keys.Ascend(prefix, func(key, _ string) bool {
			empty = !strings.HasPrefix(key, prefix)
			return false
		})
		if !empty {
			return ErrNotEmpty
		}
	}

	fs.keys.Delete(path.String())
	delete(fs.objects, obj.id)
	return nil
}

// HomeDirectory returns the per-app sandbox home.
func (fs *MemFS) HomeDirectory() vpath.Path {
	return fs.home
}

// WorkingDirectory returns the current working directory.
func (fs *MemFS) WorkingDirectory() vpath.Path {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	return fs.cwd
}

// ChangeWorkingDirectory sets the working directory.
func (fs *MemFS) ChangeWorkingDirectory(path vpath.Path) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	obj, ok := fs.getLocked(path)
	if !ok {
		return ErrNotExist
	}
	if !obj.dir {
		return ErrNotDirectory
	}
	fs.cwd = path
	return nil
}

type memFile struct {
	*bytes.Reader
	size uint64
}

func (f *memFile) Size() uint64 { return f.size }
func (f *memFile) Close() error { return nil }
