// Package vpath implements guest path values and search-path domain
// resolution for the sandboxed filesystem.
//
// A Path is a cleaned, immutable sequence of forward-slash segments.
// Resolution is purely lexical: parent-directory traversal on an absolute
// path clamps at the sandbox root, so no resolved path can escape the
// sandbox. The package performs no I/O.
package vpath
