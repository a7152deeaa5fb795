package vfs

import (
	"errors"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/afero"

	"github.com/wippyai/fs-bridge/vpath"
)

// HostFS is a sandbox stored in a host directory. The guest never sees
// host locations: every operation goes through an afero filesystem that
// is rooted at the sandbox directory, so guest "/" is the sandbox root.
type HostFS struct {
	mu   sync.RWMutex
	fs   afero.Fs
	home vpath.Path
	cwd  vpath.Path
}

// NewHostFS creates a sandbox over the given afero filesystem, seeding
// the standard per-app layout. The filesystem should already be rooted
// at the sandbox directory.
func NewHostFS(base afero.Fs, opts *Options) (*HostFS, error) {
	h := &HostFS{fs: base, home: opts.home()}
	h.cwd = h.home

	for _, dir := range skeleton(h.home) {
		if err := base.MkdirAll(dir.String(), 0o755); err != nil {
			return nil, mapHostError(err)
		}
	}
	return h, nil
}

// NewHostDirFS creates a sandbox rooted at the host directory root.
func NewHostDirFS(root string, opts *Options) (*HostFS, error) {
	return NewHostFS(afero.NewBasePathFs(afero.NewOsFs(), root), opts)
}

// Exists reports whether a file or directory is present at path.
func (h *HostFS) Exists(path vpath.Path) bool {
	_, err := h.fs.Stat(path.String())
	return err == nil
}

// IsFile reports whether path names a regular file.
func (h *HostFS) IsFile(path vpath.Path) bool {
	info, err := h.fs.Stat(path.String())
	return err == nil && !info.IsDir()
}

// Open opens the file at path for reading.
func (h *HostFS) Open(path vpath.Path) (File, error) {
	info, err := h.fs.Stat(path.String())
	if err != nil {
		return nil, mapHostError(err)
	}
	if info.IsDir() {
		return nil, ErrIsDirectory
	}

	f, err := h.fs.Open(path.String())
	if err != nil {
		return nil, mapHostError(err)
	}
	return &hostFile{File: f, size: uint64(info.Size())}, nil
}

// Read returns the entire content of the file at path.
func (h *HostFS) Read(path vpath.Path) ([]byte, error) {
	info, err := h.fs.Stat(path.String())
	if err != nil {
		return nil, mapHostError(err)
	}
	if info.IsDir() {
		return nil, ErrIsDirectory
	}

	data, err := afero.ReadFile(h.fs, path.String())
	if err != nil {
		return nil, mapHostError(err)
	}
	return data, nil
}

// Write replaces the file at path with data, creating it if absent.
func (h *HostFS) Write(path vpath.Path, data []byte) error {
	if info, err := h.fs.Stat(path.String()); err == nil && info.IsDir() {
		return ErrIsDirectory
	}
	// Some afero backends create missing parents on write; the storage
	// contract requires the parent to exist already.
	parent, err := h.fs.Stat(path.Dir().String())
	if err != nil {
		return mapHostError(err)
	}
	if !parent.IsDir() {
		return ErrNotDirectory
	}
	if err := afero.WriteFile(h.fs, path.String(), data, 0o644); err != nil {
		return mapHostError(err)
	}
	return nil
}

// Enumerate lists the immediate children of the directory at path.
func (h *HostFS) Enumerate(path vpath.Path) ([]vpath.Path, error) {
	info, err := h.fs.Stat(path.String())
	if err != nil {
		return nil, mapHostError(err)
	}
	if !info.IsDir() {
		return nil, ErrNotDirectory
	}

	infos, err := afero.ReadDir(h.fs, path.String())
	if err != nil {
		return nil, mapHostError(err)
	}

	out := make([]vpath.Path, 0, len(infos))
	for _, info := range infos {
		out = append(out, vpath.New(info.Name()))
	}
	return out, nil
}

// EnumerateRecursive lists the full subtree under path, ordered
// lexicographically by relative path.
func (h *HostFS) EnumerateRecursive(path vpath.Path) ([]vpath.Path, error) {
	root := path.String()
	if info, err := h.fs.Stat(root); err != nil {
		return nil, mapHostError(err)
	} else if !info.IsDir() {
		return nil, ErrNotDirectory
	}

	// Walk yields traversal order, where "save/slot1.dat" precedes the
	// sibling "save.txt". Collect and sort to match the other backends.
	var rels []string
	err := afero.Walk(h.fs, root, func(p string, _ fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		if rel == "" {
			return nil
		}
		rels = append(rels, rel)
		return nil
	})
	if err != nil {
		return nil, mapHostError(err)
	}
	sort.Strings(rels)

	out := make([]vpath.Path, 0, len(rels))
	for _, rel := range rels {
		out = append(out, vpath.New(rel))
	}
	return out, nil
}

// CreateDir creates the directory at path and any missing intermediate
// directories.
func (h *HostFS) CreateDir(path vpath.Path) error {
	cur := vpath.Root
	for _, seg := range path.Segments() {
		cur = cur.Join(seg)
		if info, err := h.fs.Stat(cur.String()); err == nil && !info.IsDir() {
			return ErrNotDirectory
		}
	}
	if err := h.fs.MkdirAll(path.String(), 0o755); err != nil {
		return mapHostError(err)
	}
	return nil
}

// Remove deletes the file or empty directory at path.
func (h *HostFS) Remove(path vpath.Path) error {
	if path.IsRoot() {
		return ErrNotEmpty
	}
	info, err := h.fs.Stat(path.String())
	if err != nil {
		return mapHostError(err)
	}
	// Not every afero backend reports ENOTEMPTY, so check explicitly.
	if info.IsDir() {
		children, err := afero.ReadDir(h.fs, path.String())
		if err != nil {
			return mapHostError(err)
		}
		if len(children) > 0 {
			return ErrNotEmpty
		}
	}
	if err := h.fs.Remove(path.String()); err != nil {
		return mapHostError(err)
	}
	return nil
}

// HomeDirectory returns the per-app sandbox home.
func (h *HostFS) HomeDirectory() vpath.Path {
	return h.home
}

// WorkingDirectory returns the current working directory.
func (h *HostFS) WorkingDirectory() vpath.Path {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.cwd
}

// ChangeWorkingDirectory sets the working directory.
func (h *HostFS) ChangeWorkingDirectory(path vpath.Path) error {
	info, err := h.fs.Stat(path.String())
	if err != nil {
		return mapHostError(err)
	}
	if !info.IsDir() {
		return ErrNotDirectory
	}

	h.mu.Lock()
	h.cwd = path
	h.mu.Unlock()
	return nil
}

type hostFile struct {
	afero.File
	size uint64
}

func (f *hostFile) Size() uint64 { return f.size }

// mapHostError translates host filesystem failures into the storage
// sentinels so callers never branch on host error types.
func mapHostError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case os.IsNotExist(err):
		return ErrNotExist
	case os.IsExist(err):
		return ErrExist
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EISDIR:
			return ErrIsDirectory
		case syscall.ENOTDIR:
			return ErrNotDirectory
		case syscall.ENOTEMPTY, syscall.EEXIST:
			return ErrNotEmpty
		}
	}
	return err
}
