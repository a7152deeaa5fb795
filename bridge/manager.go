package bridge

import (
	"strings"

	"go.uber.org/zap"

	fsbridge "github.com/wippyai/fs-bridge"
	"github.com/wippyai/fs-bridge/errors"
	"github.com/wippyai/fs-bridge/resource"
	"github.com/wippyai/fs-bridge/vfs"
	"github.com/wippyai/fs-bridge/vpath"
)

// Option configures a Manager.
type Option func(*Manager)

// WithMemory attaches the guest linear memory used for boolean and
// error out-parameters. Without it any call that asks for an
// out-parameter fails.
func WithMemory(mem fsbridge.Memory) Option {
	return func(m *Manager) { m.mem = mem }
}

// WithProxyTable shares an existing proxy table with the manager.
func WithProxyTable(t *ProxyTable) Option {
	return func(m *Manager) { m.proxies = t }
}

// WithLogger overrides the package logger for this manager.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// Manager is the guest-facing file management facade. Guest code holds
// proxy handles for paths, listings, blobs and enumerators; the manager
// resolves guest paths into the sandbox and forwards to the storage
// backend, translating failures into the boolean and nil-handle
// conventions the emulated API expects.
//
// Recoverable failures become false or a zero handle. Configurations
// the bridge does not implement return an error with kind
// "unsupported"; the dispatcher must treat those as fatal instead of
// mapping them onto a boolean result.
type Manager struct {
	store   vfs.Storage
	proxies *ProxyTable
	pool    *ReleasePool
	mem     fsbridge.Memory
	log     *zap.Logger
}

// New creates a manager over the given storage backend.
func New(store vfs.Storage, opts ...Option) *Manager {
	m := &Manager{store: store}
	for _, opt := range opts {
		opt(m)
	}
	if m.proxies == nil {
		m.proxies = NewProxyTable()
	}
	if m.log == nil {
		m.log = Logger()
	}
	m.pool = NewReleasePool(m.proxies)
	return m
}

// Store returns the storage backend.
func (m *Manager) Store() vfs.Storage { return m.store }

// Proxies returns the proxy table shared with the guest dispatcher.
func (m *Manager) Proxies() *ProxyTable { return m.proxies }

// Pool returns the release pool collecting returned proxy handles.
// The dispatcher drains it after each guest call completes.
func (m *Manager) Pool() *ReleasePool { return m.pool }

// PathHandle allocates a string proxy for a guest path. Host-side
// callers use it to hand a path into the facade the same way guest
// code does, through a handle. The handle is not autoreleased; it
// lives until the table drops it.
func (m *Manager) PathHandle(path string) resource.Handle {
	return m.proxies.Add(NewStringProxy(path))
}

// pathArg extracts the guest path behind a string proxy handle. A zero
// or dangling handle reports false, which callers translate into the
// operation's failure result without touching storage.
func (m *Manager) pathArg(handle resource.Handle) (string, bool) {
	if handle == 0 {
		return "", false
	}
	return m.proxies.String(handle)
}

// resolve anchors a guest path in the sandbox, relative paths against
// the current working directory.
func (m *Manager) resolve(guest string) (vpath.Path, error) {
	return vpath.Resolve(m.store.WorkingDirectory(), guest)
}

func (m *Manager) newString(s string) resource.Handle {
	return m.pool.Autorelease(m.proxies.Add(NewStringProxy(s)))
}

func (m *Manager) newStringList(values []string) resource.Handle {
	return m.pool.Autorelease(m.proxies.Add(NewStringListProxy(values)))
}

// writeBool stores a boolean out-parameter in guest memory. A nil
// address means the guest did not ask for the value.
func (m *Manager) writeBool(op string, addr uint32, v bool) error {
	if addr == fsbridge.NilAddr {
		return nil
	}
	if m.mem == nil {
		return errors.New(errors.PhaseMemory, errors.KindInvalidInput).
			Op(op).
			Detail("out-parameter requested but no guest memory is attached").
			Build()
	}
	var b byte
	if v {
		b = 1
	}
	if err := m.mem.WriteU8(addr, b); err != nil {
		return err
	}
	return nil
}

// HomeDirectory returns a string proxy for the sandbox home.
func (m *Manager) HomeDirectory() resource.Handle {
	return m.newString(m.store.HomeDirectory().String())
}

// TemporaryDirectory returns a string proxy for the sandbox temporary
// directory.
func (m *Manager) TemporaryDirectory() resource.Handle {
	return m.newString(vpath.TemporaryPath(m.store.HomeDirectory()).String())
}

// SearchPathForDirectoriesInDomains resolves a search-path domain to a
// string-list proxy holding its single canonical location. Unsupported
// domain or mask configurations are fatal.
func (m *Manager) SearchPathForDirectoriesInDomains(dir vpath.Domain, mask vpath.DomainMask, expandTilde bool) (resource.Handle, error) {
	p, err := vpath.SearchPath(m.store.HomeDirectory(), dir, mask, expandTilde)
	if err != nil {
		return 0, err
	}
	m.log.Debug("resolved search path",
		zap.Uint32("domain", uint32(dir)),
		zap.String("path", p.String()))
	return m.newStringList([]string{p.String()}), nil
}

// CurrentDirectoryPath returns a string proxy for the working
// directory.
func (m *Manager) CurrentDirectoryPath() resource.Handle {
	return m.newString(m.store.WorkingDirectory().String())
}

// ChangeCurrentDirectoryPath sets the working directory. Returns false
// when the target does not exist or is not a directory.
func (m *Manager) ChangeCurrentDirectoryPath(path resource.Handle) bool {
	guest, ok := m.pathArg(path)
	if !ok {
		return false
	}
	p, err := m.resolve(guest)
	if err != nil {
		return false
	}
	if err := m.store.ChangeWorkingDirectory(p); err != nil {
		m.log.Debug("change working directory failed",
			zap.String("path", p.String()),
			zap.Error(err))
		return false
	}
	return true
}

// FileExists reports whether a file or directory exists at path.
func (m *Manager) FileExists(path resource.Handle) bool {
	guest, ok := m.pathArg(path)
	if !ok {
		return false
	}
	p, err := m.resolve(guest)
	if err != nil {
		return false
	}
	return m.store.Exists(p)
}

// FileExistsIsDir reports existence and, when isDirAddr is non-nil,
// additionally writes whether the entry is a directory. The flag is
// the negation of "regular file", so a missing path writes true and a
// nil path handle writes false.
func (m *Manager) FileExistsIsDir(path resource.Handle, isDirAddr uint32) (bool, error) {
	const op = "fileExistsAtPath:isDirectory:"

	exists := false
	isDir := false
	if guest, ok := m.pathArg(path); ok {
		if p, err := m.resolve(guest); err == nil {
			exists = m.store.Exists(p)
			isDir = !m.store.IsFile(p)
		}
	}
	if err := m.writeBool(op, isDirAddr, isDir); err != nil {
		return false, err
	}
	return exists, nil
}

// IsReadableFile reports whether the file at path could be opened for
// reading. Sandbox storage carries no permission model, so this is a
// stub that always claims readability.
func (m *Manager) IsReadableFile(path resource.Handle) bool {
	guest, _ := m.pathArg(path)
	m.log.Debug("isReadableFileAtPath is a stub returning true",
		zap.String("path", guest))
	return true
}

// FileModificationDate returns the modification date proxy for path.
// Storage keeps no timestamps, so this is a stub that always returns
// the nil handle.
func (m *Manager) FileModificationDate(path resource.Handle) resource.Handle {
	guest, _ := m.pathArg(path)
	m.log.Debug("fileModificationDate is a stub returning nil",
		zap.String("path", guest))
	return 0
}

// FileAttributes is a no-op stub; traverseLink is ignored. Guests that
// want sizes use AttributesOfItem instead.
func (m *Manager) FileAttributes(path resource.Handle, traverseLink bool) {
	guest, _ := m.pathArg(path)
	m.log.Debug("fileAttributesAtPath is a stub doing nothing",
		zap.String("path", guest),
		zap.Bool("traverseLink", traverseLink))
}

// CreateFile writes contents (an optional blob proxy, nil meaning
// empty) to path. An existing regular file reports success without
// being overwritten. Attribute dictionaries are not implemented and
// are fatal when supplied.
func (m *Manager) CreateFile(path, contents, attributes resource.Handle) (bool, error) {
	const op = "createFileAtPath:contents:attributes:"

	if attributes != 0 {
		return false, errors.Unsupported(errors.PhaseBridge, op, "file attribute dictionaries are not implemented")
	}
	guest, ok := m.pathArg(path)
	if !ok {
		return false, nil
	}
	p, err := m.resolve(guest)
	if err != nil {
		return false, nil
	}
	if m.store.IsFile(p) {
		// Matches the emulated behavior: an existing file is success,
		// its content stays as-is.
		return true, nil
	}
	data, _ := m.proxies.Blob(contents)
	if err := m.store.Write(p, data); err != nil {
		m.log.Debug("create file failed",
			zap.String("path", p.String()),
			zap.Error(err))
		return false, nil
	}
	return true, nil
}

// ContentsAtPath reads the file at path into a blob proxy, or returns
// the nil handle when it cannot be read. The path must be absolute;
// relative paths are a configuration error and fatal.
func (m *Manager) ContentsAtPath(path resource.Handle) (resource.Handle, error) {
	const op = "contentsAtPath:"

	guest, ok := m.pathArg(path)
	if !ok {
		return 0, nil
	}
	if !strings.HasPrefix(guest, "/") {
		return 0, errors.Unsupported(errors.PhaseBridge, op, "relative paths are not implemented")
	}
	p, err := m.resolve(guest)
	if err != nil {
		return 0, nil
	}
	data, err := m.store.Read(p)
	if err != nil {
		m.log.Debug("read failed",
			zap.String("path", p.String()),
			zap.Error(err))
		return 0, nil
	}
	return m.pool.Autorelease(m.proxies.Add(NewBlobProxy(data))), nil
}

// RemoveItem deletes the file or empty directory at path. On success
// it returns true. Producing a structured error object for a failed
// removal is not implemented, so a failure while errAddr is non-nil is
// fatal; without an error out-parameter the failure reports false.
func (m *Manager) RemoveItem(path resource.Handle, errAddr uint32) (bool, error) {
	const op = "removeItemAtPath:error:"

	guest, ok := m.pathArg(path)
	if !ok {
		return m.removeFailed(op, guest, errAddr, nil)
	}
	p, err := m.resolve(guest)
	if err != nil {
		return m.removeFailed(op, guest, errAddr, err)
	}
	if err := m.store.Remove(p); err != nil {
		return m.removeFailed(op, p.String(), errAddr, err)
	}
	return true, nil
}

func (m *Manager) removeFailed(op, path string, errAddr uint32, cause error) (bool, error) {
	if errAddr != fsbridge.NilAddr {
		return false, errors.New(errors.PhaseBridge, errors.KindUnsupported).
			Op(op).
			Path(path).
			Cause(cause).
			Detail("returning a structured error object is not implemented").
			Build()
	}
	m.log.Debug("remove failed",
		zap.String("path", path),
		zap.Error(cause))
	return false, nil
}

// CreateDirectory creates the directory at path. Only creation with
// intermediate directories is implemented, and attribute dictionaries
// are fatal when supplied. A storage failure reports false; the error
// out-parameter is accepted but never written.
func (m *Manager) CreateDirectory(path resource.Handle, intermediates bool, attributes resource.Handle, errAddr uint32) (bool, error) {
	return m.createDirectory("createDirectoryAtPath:withIntermediateDirectories:attributes:error:",
		path, intermediates, attributes, errAddr)
}

// CreateDirectoryLegacy is the older call shape for directory
// creation. It accepts the same arguments in the same resolved roles
// and shares CreateDirectory's implementation; only the guest-facing
// entry point differs.
func (m *Manager) CreateDirectoryLegacy(path resource.Handle, intermediates bool, attributes resource.Handle, errAddr uint32) (bool, error) {
	return m.createDirectory("createDirectoryAtPath:attributes:",
		path, intermediates, attributes, errAddr)
}

func (m *Manager) createDirectory(op string, path resource.Handle, intermediates bool, attributes resource.Handle, errAddr uint32) (bool, error) {
	_ = errAddr // accepted for ABI compatibility, never written

	if attributes != 0 {
		return false, errors.Unsupported(errors.PhaseBridge, op, "directory attribute dictionaries are not implemented")
	}
	if !intermediates {
		return false, errors.Unsupported(errors.PhaseBridge, op, "creation without intermediate directories is not implemented")
	}
	guest, ok := m.pathArg(path)
	if !ok {
		return false, nil
	}
	p, err := m.resolve(guest)
	if err != nil {
		return false, nil
	}
	if err := m.store.CreateDir(p); err != nil {
		m.log.Warn("create directory failed",
			zap.String("path", p.String()),
			zap.Error(err))
		return false, nil
	}
	return true, nil
}

// CopyItem copies the regular file at src to dst. Failure paths are
// not implemented and are fatal regardless of the error out-parameter.
func (m *Manager) CopyItem(src, dst resource.Handle, errAddr uint32) (bool, error) {
	const op = "copyItemAtPath:toPath:error:"
	_ = errAddr

	srcGuest, ok := m.pathArg(src)
	if !ok {
		return false, errors.Unsupported(errors.PhaseBridge, op, "copy failure paths are not implemented")
	}
	dstGuest, ok := m.pathArg(dst)
	if !ok {
		return false, errors.Unsupported(errors.PhaseBridge, op, "copy failure paths are not implemented")
	}
	srcPath, err := m.resolve(srcGuest)
	if err != nil {
		return false, errors.Unsupported(errors.PhaseBridge, op, "copy failure paths are not implemented")
	}
	dstPath, err := m.resolve(dstGuest)
	if err != nil {
		return false, errors.Unsupported(errors.PhaseBridge, op, "copy failure paths are not implemented")
	}
	data, err := m.store.Read(srcPath)
	if err != nil {
		return false, errors.New(errors.PhaseBridge, errors.KindUnsupported).
			Op(op).
			Path(srcPath.String()).
			Cause(err).
			Detail("copy failure paths are not implemented").
			Build()
	}
	if err := m.store.Write(dstPath, data); err != nil {
		return false, errors.New(errors.PhaseBridge, errors.KindUnsupported).
			Op(op).
			Path(dstPath.String()).
			Cause(err).
			Detail("copy failure paths are not implemented").
			Build()
	}
	m.log.Debug("copied item",
		zap.String("src", srcPath.String()),
		zap.String("dst", dstPath.String()),
		zap.Int("bytes", len(data)))
	return true, nil
}

// AttrFileSize is the attribute key for an item's size in bytes.
const AttrFileSize = "fileSize"

// AttributesOfItem returns a dict proxy describing the item at path.
// The only attribute carried is the file size, reported as zero when
// the item is missing or not a regular file. The error out-parameter
// is accepted but never written.
func (m *Manager) AttributesOfItem(path resource.Handle, errAddr uint32) resource.Handle {
	_ = errAddr

	var size uint64
	if guest, ok := m.pathArg(path); ok {
		if p, err := m.resolve(guest); err == nil {
			if f, err := m.store.Open(p); err == nil {
				size = f.Size()
				_ = f.Close()
			}
		}
	}
	dict := NewDictProxy(map[string]any{AttrFileSize: size})
	return m.pool.Autorelease(m.proxies.Add(dict))
}

// DirectoryContents lists the immediate children of the directory at
// path as a string-list proxy of entry names, or the nil handle when
// the listing fails.
func (m *Manager) DirectoryContents(path resource.Handle) resource.Handle {
	guest, ok := m.pathArg(path)
	if !ok {
		return 0
	}
	p, err := m.resolve(guest)
	if err != nil {
		return 0
	}
	entries, err := m.store.Enumerate(p)
	if err != nil {
		m.log.Debug("directory listing failed",
			zap.String("path", p.String()),
			zap.Error(err))
		return 0
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.String()
	}
	return m.newStringList(names)
}

// DirectoryContentsWithError lists the directory like
// DirectoryContents. Producing a structured error object for a failed
// listing is not implemented, so a failure while errAddr is non-nil is
// fatal.
func (m *Manager) DirectoryContentsWithError(path resource.Handle, errAddr uint32) (resource.Handle, error) {
	const op = "contentsOfDirectoryAtPath:error:"

	handle := m.DirectoryContents(path)
	if handle == 0 && errAddr != fsbridge.NilAddr {
		return 0, errors.Unsupported(errors.PhaseBridge, op, "returning a structured error object is not implemented")
	}
	return handle, nil
}

// EnumeratorAtPath takes a snapshot of the subtree under path and
// returns an enumerator proxy over it, or the nil handle when the path
// cannot be enumerated. Later storage mutations do not affect the
// snapshot.
func (m *Manager) EnumeratorAtPath(path resource.Handle) resource.Handle {
	guest, ok := m.pathArg(path)
	if !ok {
		return 0
	}
	p, err := m.resolve(guest)
	if err != nil {
		return 0
	}
	entries, err := m.store.EnumerateRecursive(p)
	if err != nil {
		m.log.Debug("enumerator snapshot failed",
			zap.String("path", p.String()),
			zap.Error(err))
		return 0
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.String()
	}
	return m.pool.Autorelease(m.proxies.Add(NewDirectoryEnumerator(names)))
}

// NextObject advances the enumerator and returns a string proxy for
// the next entry, or the nil handle once the snapshot is exhausted.
// Exhaustion is stable: every later call also returns the nil handle.
func (m *Manager) NextObject(enumerator resource.Handle) resource.Handle {
	e, ok := m.proxies.Enumerator(enumerator)
	if !ok {
		return 0
	}
	entry, ok := e.Next()
	if !ok {
		return 0
	}
	return m.newString(entry)
}
