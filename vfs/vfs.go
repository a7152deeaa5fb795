package vfs

import (
	"io"

	"github.com/wippyai/fs-bridge/vpath"
)

// Storage is the virtual filesystem service the bridge operates against.
// All paths are absolute guest paths; implementations own the mapping to
// real storage and must never surface host locations.
//
// Enumeration results are ordered lexicographically by path, so repeated
// listings of an unchanged directory are identical.
//
// The bridge calls Storage from a single logical guest thread.
// Implementations still guard their internal state so that tooling can
// share a backend with a running session.
type Storage interface {
	// Exists reports whether a file or directory is present at path.
	Exists(path vpath.Path) bool

	// IsFile reports whether path names a regular file.
	IsFile(path vpath.Path) bool

	// Open opens the file at path for reading.
	Open(path vpath.Path) (File, error)

	// Read returns the entire content of the file at path.
	Read(path vpath.Path) ([]byte, error)

	// Write replaces the file at path with data, creating it if absent.
	// The parent directory must exist.
	Write(path vpath.Path, data []byte) error

	// Enumerate lists the immediate children of the directory at path as
	// single-segment relative paths.
	Enumerate(path vpath.Path) ([]vpath.Path, error)

	// EnumerateRecursive lists the full subtree under path, depth-first,
	// as paths relative to path.
	EnumerateRecursive(path vpath.Path) ([]vpath.Path, error)

	// CreateDir creates the directory at path along with any missing
	// intermediate directories. Creating an existing directory succeeds.
	CreateDir(path vpath.Path) error

	// Remove deletes the file or empty directory at path.
	Remove(path vpath.Path) error

	// HomeDirectory returns the per-app sandbox home.
	HomeDirectory() vpath.Path

	// WorkingDirectory returns the current working directory.
	WorkingDirectory() vpath.Path

	// ChangeWorkingDirectory sets the working directory. The target must
	// be an existing directory.
	ChangeWorkingDirectory(path vpath.Path) error
}

// File is a read-only handle to an open regular file.
type File interface {
	io.Reader
	io.Closer

	// Size returns the file size in bytes.
	Size() uint64
}

// DefaultHome is the sandbox home used when a backend is not configured
// with an explicit one.
const DefaultHome = "/var/mobile"

// skeleton returns the directories every fresh sandbox starts with.
func skeleton(home vpath.Path) []vpath.Path {
	return []vpath.Path{
		vpath.ApplicationsPath(),
		home,
		vpath.DocumentsPath(home),
		vpath.TemporaryPath(home),
		vpath.AppSupportPath(home),
	}
}
