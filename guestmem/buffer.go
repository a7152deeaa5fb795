package guestmem

import (
	"encoding/binary"

	"github.com/wippyai/fs-bridge/errors"
)

// Buffer is a fixed-size in-process guest address space. It backs tests
// and tooling that drive the bridge without a real guest instance.
// Values are little-endian, matching guest byte order.
type Buffer struct {
	data []byte
}

// NewBuffer allocates a zeroed address space of size bytes.
func NewBuffer(size uint32) *Buffer {
	return &Buffer{data: make([]byte, size)}
}

func (b *Buffer) bounds(op string, offset uint32, length int) error {
	if int(offset)+length > len(b.data) {
		return errors.OutOfBounds(op, offset, length)
	}
	return nil
}

func (b *Buffer) Read(offset uint32, length uint32) ([]byte, error) {
	if err := b.bounds("read", offset, int(length)); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, b.data[offset:])
	return out, nil
}

func (b *Buffer) Write(offset uint32, data []byte) error {
	if err := b.bounds("write", offset, len(data)); err != nil {
		return err
	}
	copy(b.data[offset:], data)
	return nil
}

func (b *Buffer) ReadU8(offset uint32) (uint8, error) {
	if err := b.bounds("readU8", offset, 1); err != nil {
		return 0, err
	}
	return b.data[offset], nil
}

func (b *Buffer) ReadU32(offset uint32) (uint32, error) {
	if err := b.bounds("readU32", offset, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b.data[offset:]), nil
}

func (b *Buffer) WriteU8(offset uint32, value uint8) error {
	if err := b.bounds("writeU8", offset, 1); err != nil {
		return err
	}
	b.data[offset] = value
	return nil
}

func (b *Buffer) WriteU32(offset uint32, value uint32) error {
	if err := b.bounds("writeU32", offset, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b.data[offset:], value)
	return nil
}
