// Package fsbridge provides the guest-facing file management bridge of an
// application-compatibility runtime.
//
// Guest programs issue high-level file and directory calls against a
// POSIX-like, app-sandboxed filesystem (a Documents directory, a per-app
// home, a temporary directory, symbolic search-path domains). All real
// storage lives behind a virtual filesystem service that is never exposed
// directly: guest paths cannot traverse outside the sandbox and host
// locations never leak into results.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct
// responsibilities:
//
//	fsbridge/        Root package with the guest Memory interface
//	├── vpath/       Virtual path values and search-path domain resolution
//	├── vfs/         Storage service interface and backends (memory, host, sqlite)
//	├── bridge/      Guest-visible file manager facade and proxy objects
//	├── resource/    Resource handle table implementation
//	├── guestmem/    wazero-backed guest memory adapter
//	└── errors/      Structured error types for debugging
//
// # Quick Start
//
// Create a manager over an in-memory sandbox and use it directly:
//
//	store := vfs.NewMemFS(nil)
//	mgr := bridge.New(store)
//
//	home := mgr.HomeDirectory()
//	ok, err := mgr.CreateDirectory(mgr.PathHandle("/var/mobile/Documents/save"), true, 0, 0)
//
// # Thread Safety
//
// The bridge is single-threaded by contract: all guest filesystem calls
// arrive on the guest's one logical thread of execution. The default
// manager uses idempotent lazy initialization and is the only shared
// state; backends provide their own internal consistency.
package fsbridge
