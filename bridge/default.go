package bridge

import (
	"sync"

	"github.com/wippyai/fs-bridge/vfs"
)

var (
	defaultMu  sync.Mutex
	defaultMgr *Manager
)

// Default returns the process-wide manager, creating it on first use
// over an in-memory backend. Every later call returns the same
// instance.
func Default() *Manager {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultMgr == nil {
		defaultMgr = New(vfs.NewMemFS(nil))
	}
	return defaultMgr
}

// SetDefault installs a manager as the process-wide instance. It is
// meant for session setup before any guest code runs; calling it after
// Default has handed out the lazily created manager replaces that
// manager for future callers only.
func SetDefault(m *Manager) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultMgr = m
}
