package vfs

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/spf13/afero"

	"github.com/wippyai/fs-bridge/vpath"
)

// testBackendFactory creates a fresh backend for a subtest.
type testBackendFactory func(t *testing.T) Storage

func testBackendFactories() map[string]testBackendFactory {
	return map[string]testBackendFactory{
		"memory": func(t *testing.T) Storage {
			return NewMemFS(nil)
		},
		"host": func(t *testing.T) Storage {
			fs, err := NewHostFS(afero.NewMemMapFs(), nil)
			if err != nil {
				t.Fatalf("host backend init failed: %v", err)
			}
			return fs
		},
		"hostdir": func(t *testing.T) Storage {
			fs, err := NewHostDirFS(t.TempDir(), nil)
			if err != nil {
				t.Fatalf("hostdir backend init failed: %v", err)
			}
			return fs
		},
		"sqlite": func(t *testing.T) Storage {
			fs, err := NewSQLiteFS(":memory:", nil)
			if err != nil {
				t.Fatalf("sqlite backend init failed: %v", err)
			}
			t.Cleanup(func() { fs.Close() })
			return fs
		},
	}
}

func TestAllBackends_Skeleton(t *testing.T) {
	for name, factory := range testBackendFactories() {
		t.Run(name, func(t *testing.T) {
			store := factory(t)

			home := store.HomeDirectory()
			if home.String() != DefaultHome {
				t.Errorf("home = %q, want %q", home, DefaultHome)
			}

			for _, p := range []vpath.Path{
				home,
				vpath.DocumentsPath(home),
				vpath.TemporaryPath(home),
				vpath.AppSupportPath(home),
				vpath.ApplicationsPath(),
			} {
				if !store.Exists(p) {
					t.Errorf("skeleton directory %q missing", p)
				}
				if store.IsFile(p) {
					t.Errorf("skeleton entry %q should be a directory", p)
				}
			}

			if !store.WorkingDirectory().Equal(home) {
				t.Errorf("initial working directory = %q", store.WorkingDirectory())
			}
		})
	}
}

func TestAllBackends_WriteRead(t *testing.T) {
	for name, factory := range testBackendFactories() {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			docs := vpath.DocumentsPath(store.HomeDirectory())
			file := docs.Join("save.dat")
			content := []byte("level 3, 250 points")

			if err := store.Write(file, content); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if !store.IsFile(file) {
				t.Error("written path should be a regular file")
			}

			got, err := store.Read(file)
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if !bytes.Equal(got, content) {
				t.Errorf("Read = %q, want %q", got, content)
			}

			// overwrite
			if err := store.Write(file, []byte("new")); err != nil {
				t.Fatalf("overwrite failed: %v", err)
			}
			got, _ = store.Read(file)
			if string(got) != "new" {
				t.Errorf("overwrite read = %q", got)
			}

			// open handle
			f, err := store.Open(file)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			defer f.Close()
			if f.Size() != 3 {
				t.Errorf("Size = %d, want 3", f.Size())
			}
			data, err := io.ReadAll(f)
			if err != nil {
				t.Fatalf("read from handle failed: %v", err)
			}
			if string(data) != "new" {
				t.Errorf("handle read = %q", data)
			}
		})
	}
}

func TestAllBackends_WriteErrors(t *testing.T) {
	for name, factory := range testBackendFactories() {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			home := store.HomeDirectory()

			if err := store.Write(vpath.New("/no/such/parent/f.txt"), nil); !errors.Is(err, ErrNotExist) {
				t.Errorf("missing parent: got %v, want ErrNotExist", err)
			}
			if err := store.Write(vpath.DocumentsPath(home), []byte("x")); !errors.Is(err, ErrIsDirectory) {
				t.Errorf("write over directory: got %v, want ErrIsDirectory", err)
			}
			if _, err := store.Read(vpath.New("/nonexistent")); !errors.Is(err, ErrNotExist) {
				t.Errorf("read missing: got %v, want ErrNotExist", err)
			}
			if _, err := store.Read(home); !errors.Is(err, ErrIsDirectory) {
				t.Errorf("read directory: got %v, want ErrIsDirectory", err)
			}
		})
	}
}

func TestAllBackends_EnumerateOrdered(t *testing.T) {
	for name, factory := range testBackendFactories() {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			docs := vpath.DocumentsPath(store.HomeDirectory())

			// create out of order; enumeration must come back sorted
			for _, n := range []string{"zeta.txt", "alpha.txt", "mid.txt"} {
				if err := store.Write(docs.Join(n), []byte(n)); err != nil {
					t.Fatalf("Write %s failed: %v", n, err)
				}
			}
			if err := store.CreateDir(docs.Join("saves")); err != nil {
				t.Fatalf("CreateDir failed: %v", err)
			}
			if err := store.Write(docs.Join("saves", "slot1.dat"), []byte("s1")); err != nil {
				t.Fatalf("Write nested failed: %v", err)
			}

			shallow, err := store.Enumerate(docs)
			if err != nil {
				t.Fatalf("Enumerate failed: %v", err)
			}
			want := []string{"alpha.txt", "mid.txt", "saves", "zeta.txt"}
			if len(shallow) != len(want) {
				t.Fatalf("Enumerate returned %d entries, want %d: %v", len(shallow), len(want), shallow)
			}
			for i, w := range want {
				if shallow[i].String() != w {
					t.Errorf("entry %d = %q, want %q", i, shallow[i], w)
				}
			}

			deep, err := store.EnumerateRecursive(docs)
			if err != nil {
				t.Fatalf("EnumerateRecursive failed: %v", err)
			}
			wantDeep := []string{"alpha.txt", "mid.txt", "saves", "saves/slot1.dat", "zeta.txt"}
			if len(deep) != len(wantDeep) {
				t.Fatalf("recursive returned %d entries, want %d: %v", len(deep), len(wantDeep), deep)
			}
			for i, w := range wantDeep {
				if deep[i].String() != w {
					t.Errorf("recursive entry %d = %q, want %q", i, deep[i], w)
				}
			}

			if _, err := store.Enumerate(docs.Join("alpha.txt")); !errors.Is(err, ErrNotDirectory) {
				t.Errorf("enumerate file: got %v, want ErrNotDirectory", err)
			}
			if _, err := store.Enumerate(vpath.New("/missing")); !errors.Is(err, ErrNotExist) {
				t.Errorf("enumerate missing: got %v, want ErrNotExist", err)
			}
		})
	}
}

func TestAllBackends_EnumerateRecursiveSiblingOrder(t *testing.T) {
	for name, factory := range testBackendFactories() {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			docs := vpath.DocumentsPath(store.HomeDirectory())

			// "save.txt" sorts before anything under "save/" ('.' < '/'),
			// which traversal-ordered walks get wrong.
			if err := store.CreateDir(docs.Join("save")); err != nil {
				t.Fatalf("CreateDir failed: %v", err)
			}
			if err := store.Write(docs.Join("save", "slot1.dat"), []byte("s1")); err != nil {
				t.Fatalf("Write nested failed: %v", err)
			}
			if err := store.Write(docs.Join("save.txt"), []byte("meta")); err != nil {
				t.Fatalf("Write sibling failed: %v", err)
			}

			deep, err := store.EnumerateRecursive(docs)
			if err != nil {
				t.Fatalf("EnumerateRecursive failed: %v", err)
			}
			want := []string{"save", "save.txt", "save/slot1.dat"}
			if len(deep) != len(want) {
				t.Fatalf("recursive returned %d entries, want %d: %v", len(deep), len(want), deep)
			}
			for i, w := range want {
				if deep[i].String() != w {
					t.Errorf("recursive entry %d = %q, want %q", i, deep[i], w)
				}
			}
		})
	}
}

func TestAllBackends_CreateDirIntermediates(t *testing.T) {
	for name, factory := range testBackendFactories() {
		t.Run(name, func(t *testing.T) {
			store := factory(t)

			target := vpath.New("/a/b/c")
			if err := store.CreateDir(target); err != nil {
				t.Fatalf("CreateDir failed: %v", err)
			}
			for _, p := range []string{"/a", "/a/b", "/a/b/c"} {
				if !store.Exists(vpath.New(p)) {
					t.Errorf("intermediate %q missing", p)
				}
			}

			// creating an existing directory is not an error
			if err := store.CreateDir(target); err != nil {
				t.Errorf("CreateDir on existing: %v", err)
			}

			// a file in the chain blocks creation
			if err := store.Write(vpath.New("/a/file"), nil); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if err := store.CreateDir(vpath.New("/a/file/sub")); !errors.Is(err, ErrNotDirectory) {
				t.Errorf("CreateDir through file: got %v, want ErrNotDirectory", err)
			}
		})
	}
}

func TestAllBackends_Remove(t *testing.T) {
	for name, factory := range testBackendFactories() {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			docs := vpath.DocumentsPath(store.HomeDirectory())
			file := docs.Join("gone.txt")

			if err := store.Write(file, []byte("x")); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if err := store.Remove(file); err != nil {
				t.Fatalf("Remove failed: %v", err)
			}
			if store.Exists(file) {
				t.Error("file still present after Remove")
			}

			if err := store.Remove(file); !errors.Is(err, ErrNotExist) {
				t.Errorf("remove missing: got %v, want ErrNotExist", err)
			}

			if err := store.CreateDir(docs.Join("d")); err != nil {
				t.Fatalf("CreateDir failed: %v", err)
			}
			if err := store.Write(docs.Join("d", "f"), nil); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if err := store.Remove(docs.Join("d")); !errors.Is(err, ErrNotEmpty) {
				t.Errorf("remove non-empty dir: got %v, want ErrNotEmpty", err)
			}
			if err := store.Remove(docs.Join("d", "f")); err != nil {
				t.Fatalf("Remove nested file failed: %v", err)
			}
			if err := store.Remove(docs.Join("d")); err != nil {
				t.Errorf("remove emptied dir: %v", err)
			}
		})
	}
}

func TestAllBackends_WorkingDirectory(t *testing.T) {
	for name, factory := range testBackendFactories() {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			docs := vpath.DocumentsPath(store.HomeDirectory())

			if err := store.ChangeWorkingDirectory(docs); err != nil {
				t.Fatalf("ChangeWorkingDirectory failed: %v", err)
			}
			if !store.WorkingDirectory().Equal(docs) {
				t.Errorf("working directory = %q", store.WorkingDirectory())
			}

			if err := store.ChangeWorkingDirectory(vpath.New("/missing")); !errors.Is(err, ErrNotExist) {
				t.Errorf("cwd to missing: got %v, want ErrNotExist", err)
			}

			if err := store.Write(docs.Join("f"), nil); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if err := store.ChangeWorkingDirectory(docs.Join("f")); !errors.Is(err, ErrNotDirectory) {
				t.Errorf("cwd to file: got %v, want ErrNotDirectory", err)
			}
		})
	}
}

func TestOptions_Home(t *testing.T) {
	store := NewMemFS(&Options{Home: "/home/app"})
	if store.HomeDirectory().String() != "/home/app" {
		t.Errorf("home = %q", store.HomeDirectory())
	}
	if !store.Exists(vpath.New("/home/app/Documents")) {
		t.Error("custom home skeleton missing")
	}
}
