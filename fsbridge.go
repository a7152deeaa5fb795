package fsbridge

// NilAddr is the guest address sentinel meaning "no out-parameter was
// supplied". Writes targeted at NilAddr are silently skipped.
const NilAddr uint32 = 0

// Memory represents the guest's linear address space as seen by the
// bridge. Out-parameter writes (booleans, handles) go through this
// interface; the bridge never touches guest memory any other way.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU8(offset uint32) (uint8, error)
	ReadU32(offset uint32) (uint32, error)
	WriteU8(offset uint32, value uint8) error
	WriteU32(offset uint32, value uint32) error
}
