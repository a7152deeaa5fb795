package bridge

import (
	"github.com/wippyai/fs-bridge/resource"
)

// ProxyKind identifies the type of a guest-visible proxy object.
type ProxyKind uint8

const (
	ProxyString ProxyKind = iota
	ProxyStringList
	ProxyBlob
	ProxyDict
	ProxyEnumerator
)

// Proxy is a host-side value the guest refers to by handle: a path
// string, a listing, a byte blob, an attribute map or a directory
// enumerator.
type Proxy interface {
	// Kind returns the proxy type identifier.
	Kind() ProxyKind
	// Drop releases any underlying resources.
	Drop()
}

// ProxyTable manages guest-visible proxy handles.
// It is an adapter over the generic resource.Table.
type ProxyTable struct {
	table *resource.Table
}

// NewProxyTable creates a new proxy table.
func NewProxyTable() *ProxyTable {
	return &ProxyTable{table: resource.NewTable()}
}

// Add stores a proxy and returns a stable handle.
func (t *ProxyTable) Add(p Proxy) resource.Handle {
	return t.table.Insert(uint32(p.Kind()), p)
}

// Get returns the proxy for a handle, or (nil, false) if invalid.
func (t *ProxyTable) Get(handle resource.Handle) (Proxy, bool) {
	v, ok := t.table.Get(handle)
	if !ok {
		return nil, false
	}
	p, ok := v.(Proxy)
	return p, ok
}

// GetKind returns the proxy for a handle only if it has the wanted kind.
func (t *ProxyTable) GetKind(handle resource.Handle, kind ProxyKind) (Proxy, bool) {
	v, ok := t.table.GetTyped(handle, uint32(kind))
	if !ok {
		return nil, false
	}
	p, ok := v.(Proxy)
	return p, ok
}

// String returns the string value behind a string proxy handle.
func (t *ProxyTable) String(handle resource.Handle) (string, bool) {
	p, ok := t.GetKind(handle, ProxyString)
	if !ok {
		return "", false
	}
	return p.(*StringProxy).Value(), true
}

// Blob returns the byte content behind a blob proxy handle.
func (t *ProxyTable) Blob(handle resource.Handle) ([]byte, bool) {
	p, ok := t.GetKind(handle, ProxyBlob)
	if !ok {
		return nil, false
	}
	return p.(*BlobProxy).Bytes(), true
}

// Enumerator returns the enumerator behind a handle.
func (t *ProxyTable) Enumerator(handle resource.Handle) (*DirectoryEnumerator, bool) {
	p, ok := t.GetKind(handle, ProxyEnumerator)
	if !ok {
		return nil, false
	}
	return p.(*DirectoryEnumerator), true
}

// Remove drops the proxy and removes it from the table.
func (t *ProxyTable) Remove(handle resource.Handle) {
	t.table.Remove(handle)
}

// Len returns the number of live proxies.
func (t *ProxyTable) Len() int {
	return t.table.Len()
}

// Clear drops all proxies. Used during session teardown.
func (t *ProxyTable) Clear() {
	t.table.Clear()
}

// StringProxy carries a path or name string across the guest boundary.
type StringProxy struct {
	value string
}

func NewStringProxy(s string) *StringProxy {
	return &StringProxy{value: s}
}

func (p *StringProxy) Kind() ProxyKind { return ProxyString }
func (p *StringProxy) Drop()           {}
func (p *StringProxy) Value() string   { return p.value }

// StringListProxy carries an ordered sequence of strings.
type StringListProxy struct {
	values []string
}

func NewStringListProxy(values []string) *StringListProxy {
	return &StringListProxy{values: values}
}

func (p *StringListProxy) Kind() ProxyKind { return ProxyStringList }
func (p *StringListProxy) Drop()           { p.values = nil }

// Values returns the underlying sequence. Callers must not mutate it.
func (p *StringListProxy) Values() []string { return p.values }

// BlobProxy carries file content across the guest boundary.
type BlobProxy struct {
	data []byte
}

func NewBlobProxy(data []byte) *BlobProxy {
	return &BlobProxy{data: data}
}

func (p *BlobProxy) Kind() ProxyKind { return ProxyBlob }
func (p *BlobProxy) Drop()           { p.data = nil }
func (p *BlobProxy) Bytes() []byte   { return p.data }

// DictProxy carries a key/value attribute mapping.
type DictProxy struct {
	values map[string]any
}

func NewDictProxy(values map[string]any) *DictProxy {
	return &DictProxy{values: values}
}

func (p *DictProxy) Kind() ProxyKind { return ProxyDict }
func (p *DictProxy) Drop()           { p.values = nil }

func (p *DictProxy) Get(key string) (any, bool) {
	v, ok := p.values[key]
	return v, ok
}

// ReleasePool collects proxy handles for deferred release. The facade
// autoreleases every proxy it returns; the dispatcher drains the pool
// at the scope boundary it manages, typically once per guest run-loop
// iteration, so handles stay valid across the calls inside that scope.
type ReleasePool struct {
	table   *ProxyTable
	handles []resource.Handle
}

// NewReleasePool creates a pool releasing into the given table.
func NewReleasePool(table *ProxyTable) *ReleasePool {
	return &ReleasePool{table: table}
}

// Autorelease registers a handle for deferred release and returns it.
// The zero handle is ignored.
func (p *ReleasePool) Autorelease(handle resource.Handle) resource.Handle {
	if handle != 0 {
		p.handles = append(p.handles, handle)
	}
	return handle
}

// Drain removes every registered proxy from the table.
func (p *ReleasePool) Drain() {
	for _, h := range p.handles {
		p.table.Remove(h)
	}
	p.handles = p.handles[:0]
}

// Len returns the number of pending handles.
func (p *ReleasePool) Len() int {
	return len(p.handles)
}
