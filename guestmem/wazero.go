// Package guestmem provides guest memory access adapters for the bridge.
package guestmem

import (
	"github.com/tetratelabs/wazero/api"

	fsbridge "github.com/wippyai/fs-bridge"
	"github.com/wippyai/fs-bridge/errors"
)

// Wrap adapts a wazero api.Memory to fsbridge.Memory.
func Wrap(mem api.Memory) fsbridge.Memory {
	if mem == nil {
		return nil
	}
	return &wrapper{mem: mem}
}

type wrapper struct {
	mem api.Memory
}

// Read reads bytes from memory.
func (m *wrapper) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds("read", offset, int(length))
	}
	return data, nil
}

// Write writes bytes to memory.
func (m *wrapper) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return errors.OutOfBounds("write", offset, len(data))
	}
	return nil
}

// ReadU8 reads an unsigned 8-bit value.
func (m *wrapper) ReadU8(offset uint32) (uint8, error) {
	v, ok := m.mem.ReadByte(offset)
	if !ok {
		return 0, errors.OutOfBounds("readU8", offset, 1)
	}
	return v, nil
}

// ReadU32 reads an unsigned 32-bit little-endian value.
func (m *wrapper) ReadU32(offset uint32) (uint32, error) {
	v, ok := m.mem.ReadUint32Le(offset)
	if !ok {
		return 0, errors.OutOfBounds("readU32", offset, 4)
	}
	return v, nil
}

// WriteU8 writes an unsigned 8-bit value.
func (m *wrapper) WriteU8(offset uint32, value uint8) error {
	if !m.mem.WriteByte(offset, value) {
		return errors.OutOfBounds("writeU8", offset, 1)
	}
	return nil
}

// WriteU32 writes an unsigned 32-bit little-endian value.
func (m *wrapper) WriteU32(offset uint32, value uint32) error {
	if !m.mem.WriteUint32Le(offset, value) {
		return errors.OutOfBounds("writeU32", offset, 4)
	}
	return nil
}
