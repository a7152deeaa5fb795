package resource

import (
	"errors"
	"sync"
)

// ErrClosed is returned when creating resources on a closed backend.
var ErrClosed = errors.New("resource backend closed")

// slotBackend is the in-memory slot store behind a Table. Handles index
// into a slot slice; freed slots are recycled through a free list, so
// handles stay dense and allocation stays cheap.
type slotBackend struct {
	entries  []entry
	freeList []Handle
	mu       sync.RWMutex
	closed   bool
}

type entry struct {
	value  any
	typeID uint32
	valid  bool
}

func newSlotBackend() *slotBackend {
	return &slotBackend{
		entries:  make([]entry, 0, 64),
		freeList: make([]Handle, 0, 16),
	}
}

// create stores a value and returns a handle.
func (b *slotBackend) create(typeID uint32, value any) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrClosed
	}

	e := entry{
		typeID: typeID,
		value:  value,
		valid:  true,
	}

	if len(b.freeList) > 0 {
		handle := b.freeList[len(b.freeList)-1]
		b.freeList = b.freeList[:len(b.freeList)-1]
		b.entries[handle-1] = e
		return handle, nil
	}

	b.entries = append(b.entries, e)
	return Handle(len(b.entries)), nil
}

// get retrieves a value by handle.
func (b *slotBackend) get(handle Handle) (any, bool) {
	if handle == 0 {
		return nil, false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	idx := handle - 1
	if int(idx) >= len(b.entries) {
		return nil, false
	}

	e := b.entries[idx]
	if !e.valid {
		return nil, false
	}
	return e.value, true
}

// typeID returns the type of a live handle.
func (b *slotBackend) typeID(handle Handle) (uint32, bool) {
	if handle == 0 {
		return 0, false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	idx := handle - 1
	if int(idx) >= len(b.entries) {
		return 0, false
	}

	e := b.entries[idx]
	if !e.valid {
		return 0, false
	}
	return e.typeID, true
}

// drop removes a resource and returns (value, true) if it was live.
func (b *slotBackend) drop(handle Handle) (any, bool) {
	if handle == 0 {
		return nil, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	idx := handle - 1
	if int(idx) >= len(b.entries) {
		return nil, false
	}

	e := &b.entries[idx]
	if !e.valid {
		return nil, false
	}

	value := e.value
	e.valid = false
	e.value = nil
	b.freeList = append(b.freeList, handle)

	return value, true
}

// each visits every live resource; the callback returns false to stop.
func (b *slotBackend) each(fn func(Handle, uint32, any) bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for i := range b.entries {
		e := b.entries[i]
		if !e.valid {
			continue
		}
		if !fn(Handle(i+1), e.typeID, e.value) {
			return
		}
	}
}

// length returns the number of live resources.
func (b *slotBackend) length() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for i := range b.entries {
		if b.entries[i].valid {
			n++
		}
	}
	return n
}

// close invalidates all slots and stops accepting creates.
func (b *slotBackend) close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	b.entries = nil
	b.freeList = nil
	return nil
}
