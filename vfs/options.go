package vfs

import "github.com/wippyai/fs-bridge/vpath"

// Options configures a backend. A nil Options uses defaults throughout.
type Options struct {
	// Home overrides the sandbox home directory (default DefaultHome).
	Home string
}

func (o *Options) home() vpath.Path {
	if o == nil || o.Home == "" {
		return vpath.New(DefaultHome)
	}
	return vpath.New(o.Home)
}
