package bridge

// DirectoryEnumerator walks a snapshot of a directory subtree taken at
// creation time. Mutations to storage after the snapshot are not
// reflected. Entries are yielded in the storage listing order, which
// is lexicographic for every backend.
type DirectoryEnumerator struct {
	entries []string
	offset  int
}

// NewDirectoryEnumerator creates an enumerator over a pre-built
// snapshot of relative paths. The enumerator takes ownership of the
// slice.
func NewDirectoryEnumerator(entries []string) *DirectoryEnumerator {
	return &DirectoryEnumerator{entries: entries}
}

func (e *DirectoryEnumerator) Kind() ProxyKind { return ProxyEnumerator }

func (e *DirectoryEnumerator) Drop() {
	e.entries = nil
	e.offset = 0
}

// Next returns the next entry of the snapshot. Once the snapshot is
// exhausted it returns ("", false) on every subsequent call.
func (e *DirectoryEnumerator) Next() (string, bool) {
	if e.offset >= len(e.entries) {
		return "", false
	}
	entry := e.entries[e.offset]
	e.offset++
	return entry, true
}

// Remaining returns the number of entries not yet yielded.
func (e *DirectoryEnumerator) Remaining() int {
	if e.offset >= len(e.entries) {
		return 0
	}
	return len(e.entries) - e.offset
}
