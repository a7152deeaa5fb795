package vpath

import (
	"strings"

	"github.com/wippyai/fs-bridge/errors"
)

// Path is an immutable guest-visible path: a cleaned sequence of
// forward-slash segments plus an absolute flag. Paths are values; every
// method returns a new Path and never mutates the receiver.
type Path struct {
	segments []string
	abs      bool
}

// Root is the sandbox root, the guest-visible "/".
var Root = Path{abs: true}

// New parses a guest path string into a cleaned Path. "." segments are
// dropped and ".." segments collapse lexically; on an absolute path a
// ".." that would climb above the root is clamped at the root.
func New(s string) Path {
	abs := strings.HasPrefix(s, "/")
	p := Path{abs: abs}
	return p.join(s)
}

// Join appends path elements, applying the same cleaning rules as New.
// Absolute elements do not reset the path; their segments append like any
// other.
func (p Path) Join(elems ...string) Path {
	out := p.clone()
	for _, e := range elems {
		out = out.join(e)
	}
	return out
}

func (p Path) join(s string) Path {
	segs := p.segments
	for _, seg := range strings.Split(s, "/") {
		switch seg {
		case "", ".":
		case "..":
			if n := len(segs); n > 0 && segs[n-1] != ".." {
				segs = segs[:n-1]
			} else if !p.abs {
				segs = append(segs, "..")
			}
			// absolute paths clamp at the root
		default:
			segs = append(segs, seg)
		}
	}
	return Path{segments: segs, abs: p.abs}
}

// IsAbs reports whether the path is anchored at the sandbox root.
func (p Path) IsAbs() bool {
	return p.abs
}

// IsRoot reports whether the path is the sandbox root itself.
func (p Path) IsRoot() bool {
	return p.abs && len(p.segments) == 0
}

// String renders the path in guest notation.
func (p Path) String() string {
	joined := strings.Join(p.segments, "/")
	if p.abs {
		return "/" + joined
	}
	if joined == "" {
		return "."
	}
	return joined
}

// Segments returns a copy of the path segments.
func (p Path) Segments() []string {
	out := make([]string, len(p.segments))
	copy(out, p.segments)
	return out
}

// Base returns the final segment, or "/" for the root and "." for an
// empty relative path.
func (p Path) Base() string {
	if n := len(p.segments); n > 0 {
		return p.segments[n-1]
	}
	if p.abs {
		return "/"
	}
	return "."
}

// Dir returns the path with its final segment removed.
func (p Path) Dir() Path {
	if len(p.segments) == 0 {
		return p
	}
	out := p.clone()
	out.segments = out.segments[:len(out.segments)-1]
	return out
}

// Equal reports segment-wise equality.
func (p Path) Equal(o Path) bool {
	if p.abs != o.abs || len(p.segments) != len(o.segments) {
		return false
	}
	for i, s := range p.segments {
		if o.segments[i] != s {
			return false
		}
	}
	return true
}

func (p Path) clone() Path {
	segs := make([]string, len(p.segments), len(p.segments)+4)
	copy(segs, p.segments)
	return Path{segments: segs, abs: p.abs}
}

// Resolve anchors a guest-supplied path string at the sandbox. Absolute
// inputs resolve against the root, relative inputs against base (which
// must itself be absolute, typically the working directory). The result
// is always absolute and never escapes the sandbox root: parent-directory
// traversal clamps at "/".
func Resolve(base Path, guest string) (Path, error) {
	if guest == "" {
		return Path{}, errors.InvalidPath("resolve", guest, "empty path")
	}
	if strings.HasPrefix(guest, "/") {
		return Root.Join(guest), nil
	}
	if !base.IsAbs() {
		return Path{}, errors.InvalidPath("resolve", base.String(), "base path must be absolute")
	}
	return base.Join(guest), nil
}
