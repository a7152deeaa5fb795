package vfs

import (
	"bytes"
	"database/sql"
	"errors"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/wippyai/fs-bridge/vpath"
)

// SQLiteFS is a persistent sandbox stored in a single SQLite database.
// One row per object: the cleaned absolute path is the primary key, so
// ordered enumeration is an index scan. The database can be ":memory:"
// or a file path; a file-backed sandbox survives across sessions.
type SQLiteFS struct {
	mu   sync.RWMutex
	db   *sql.DB
	home vpath.Path
	cwd  vpath.Path
}

// NewSQLiteFS opens (or creates) a sandbox database and seeds the
// standard per-app layout.
func NewSQLiteFS(dbPath string, opts *Options) (*SQLiteFS, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// A pooled connection would see a different database when dbPath is
	// ":memory:", so pin the pool to one connection.
	db.SetMaxOpenConns(1)

	// WAL mode for better concurrency with tooling that shares the file
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS vfs_objects (
		path TEXT PRIMARY KEY,
		dir INTEGER NOT NULL,
		content BLOB
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	fs := &SQLiteFS{db: db, home: opts.home()}
	fs.cwd = fs.home

	if err := fs.putDir(vpath.Root); err != nil {
		db.Close()
		return nil, err
	}
	for _, dir := range skeleton(fs.home) {
		if err := fs.createDirLocked(dir); err != nil {
			db.Close()
			return nil, err
		}
	}
	return fs, nil
}

// Close releases the database handle.
func (fs *SQLiteFS) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.db.Close()
}

func (fs *SQLiteFS) putDir(path vpath.Path) error {
	_, err := fs.db.Exec(
		"INSERT OR IGNORE INTO vfs_objects (path, dir) VALUES (?, 1)",
		path.String())
	return err
}

// stat returns (isDir, found) for a path.
func (fs *SQLiteFS) stat(path vpath.Path) (bool, bool) {
	var dir bool
	err := fs.db.QueryRow(
		"SELECT dir FROM vfs_objects WHERE path = ?",
		path.String()).Scan(&dir)
	if err != nil {
		return false, false
	}
	return dir, true
}

// Exists reports whether a file or directory is present at path.
func (fs *SQLiteFS) Exists(path vpath.Path) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	_, found := fs.stat(path)
	return found
}

// IsFile reports whether path names a regular file.
func (fs *SQLiteFS) IsFile(path vpath.Path) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	dir, found := fs.stat(path)
	return found && !dir
}

// Open opens the file at path for reading.
func (fs *SQLiteFS) Open(path vpath.Path) (File, error) {
	data, err := fs.Read(path)
	if err != nil {
		return nil, err
	}
	return &memFile{Reader: bytes.NewReader(data), size: uint64(len(data))}, nil
}

// Read returns the entire content of the file at path.
func (fs *SQLiteFS) Read(path vpath.Path) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	var dir bool
	var content []byte
	err := fs.db.QueryRow(
		"SELECT dir, content FROM vfs_objects WHERE path = ?",
		path.String()).Scan(&dir, &content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, err
	}
	if dir {
		return nil, ErrIsDirectory
	}
	if content == nil {
		content = []byte{}
	}
	return content, nil
}

// Write replaces the file at path with data, creating it if absent.
func (fs *SQLiteFS) Write(path vpath.Path, data []byte) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if path.IsRoot() {
		return ErrIsDirectory
	}

	parentDir, found := fs.stat(path.Dir())
	if !found {
		return ErrNotExist
	}
	if !parentDir {
		return ErrNotDirectory
	}
	if dir, found := fs.stat(path); found && dir {
		return ErrIsDirectory
	}

	_, err := fs.db.Exec(
		"INSERT INTO vfs_objects (path, dir, content) VALUES (?, 0, ?) "+
			"ON CONFLICT(path) DO UPDATE SET content = excluded.content",
		path.String(), data)
	return err
}

// Enumerate lists the immediate children of the directory at path.
func (fs *SQLiteFS) Enumerate(path vpath.Path) ([]vpath.Path, error) {
	return fs.enumerate(path, false)
}

// EnumerateRecursive lists the full subtree under path, depth-first.
func (fs *SQLiteFS) EnumerateRecursive(path vpath.Path) ([]vpath.Path, error) {
	return fs.enumerate(path, true)
}

func (fs *SQLiteFS) enumerate(path vpath.Path, recursive bool) ([]vpath.Path, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	dir, found := fs.stat(path)
	if !found {
		return nil, ErrNotExist
	}
	if !dir {
		return nil, ErrNotDirectory
	}

	prefix := path.String()
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	rows, err := fs.db.Query(
		"SELECT path FROM vfs_objects WHERE substr(path, 1, ?) = ? AND path != ? ORDER BY path",
		len(prefix), prefix, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []vpath.Path
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		rel := key[len(prefix):]
		if !recursive && strings.Contains(rel, "/") {
			continue
		}
		out = append(out, vpath.New(rel))
	}
	return out, rows.Err()
}

// CreateDir creates the directory at path and any missing intermediate
// directories.
func (fs *SQLiteFS) CreateDir(path vpath.Path) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.createDirLocked(path)
}

func (fs *SQLiteFS) createDirLocked(path vpath.Path) error {
	cur := vpath.Root
	for _, seg := range path.Segments() {
		cur = cur.Join(seg)
		if dir, found := fs.stat(cur); found {
			if !dir {
				return ErrNotDirectory
			}
			continue
		}
		if err := fs.putDir(cur); err != nil {
			return err
		}
	}
	return nil
}

// Remove deletes the file or empty directory at path.
func (fs *SQLiteFS) Remove(path vpath.Path) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if path.IsRoot() {
		return ErrNotEmpty
	}

	dir, found := fs.stat(path)
	if !found {
		return ErrNotExist
	}
	if dir {
		prefix := path.String() + "/"
		var n int
		err := fs.db.QueryRow(
			"SELECT COUNT(*) FROM vfs_objects WHERE substr(path, 1, ?) = ?",
			len(prefix), prefix).Scan(&n)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrNotEmpty
		}
	}

	_, err := fs.db.Exec("DELETE FROM vfs_objects WHERE path = ?", path.String())
	return err
}

// HomeDirectory returns the per-app sandbox home.
func (fs *SQLiteFS) HomeDirectory() vpath.Path {
	return fs.home
}

// WorkingDirectory returns the current working directory.
func (fs *SQLiteFS) WorkingDirectory() vpath.Path {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	return fs.cwd
}

// ChangeWorkingDirectory sets the working directory.
func (fs *SQLiteFS) ChangeWorkingDirectory(path vpath.Path) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	dir, found := fs.stat(path)
	if !found {
		return ErrNotExist
	}
	if !dir {
		return ErrNotDirectory
	}
	fs.cwd = path
	return nil
}
