package vpath

import (
	"strings"
	"testing"
)

func TestNew_Cleaning(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/", "/"},
		{"/a/b/c", "/a/b/c"},
		{"a/b", "a/b"},
		{"/a//b/", "/a/b"},
		{"/a/./b", "/a/b"},
		{"/a/b/../c", "/a/c"},
		{"/../a", "/a"},
		{"/../../..", "/"},
		{"..", ".."},
		{"../a", "../a"},
		{"a/../..", ".."},
		{"", "."},
		{".", "."},
	}

	for _, tt := range tests {
		if got := New(tt.in).String(); got != tt.want {
			t.Errorf("New(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPath_Join(t *testing.T) {
	p := New("/var/mobile")
	got := p.Join("Documents", "save/slot1.dat")
	if got.String() != "/var/mobile/Documents/save/slot1.dat" {
		t.Errorf("unexpected join result %q", got)
	}

	// receiver is not mutated
	if p.String() != "/var/mobile" {
		t.Errorf("Join mutated receiver: %q", p)
	}

	up := p.Join("../..")
	if up.String() != "/" {
		t.Errorf("Join(../..) = %q, want /", up)
	}
}

func TestPath_BaseDir(t *testing.T) {
	p := New("/a/b/c")
	if p.Base() != "c" {
		t.Errorf("Base = %q", p.Base())
	}
	if p.Dir().String() != "/a/b" {
		t.Errorf("Dir = %q", p.Dir())
	}
	if Root.Base() != "/" {
		t.Errorf("root Base = %q", Root.Base())
	}
	if New(".").Base() != "." {
		t.Errorf("relative empty Base = %q", New(".").Base())
	}
}

func TestPath_Segments_Copy(t *testing.T) {
	p := New("/a/b")
	segs := p.Segments()
	segs[0] = "mutated"
	if p.String() != "/a/b" {
		t.Errorf("Segments leaked internal state: %q", p)
	}
}

func TestResolve_Containment(t *testing.T) {
	base := New("/var/mobile")

	tests := []struct {
		guest string
		want  string
	}{
		{"/Documents/file.txt", "/Documents/file.txt"},
		{"Documents/file.txt", "/var/mobile/Documents/file.txt"},
		{"/../../../etc/passwd", "/etc/passwd"},
		{"../../../../..", "/"},
		{"../..", "/"},
		{"a/../../../../b", "/b"},
	}

	for _, tt := range tests {
		got, err := Resolve(base, tt.guest)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", tt.guest, err)
		}
		if got.String() != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.guest, got, tt.want)
		}
		if !got.IsAbs() {
			t.Errorf("Resolve(%q) returned relative path", tt.guest)
		}
		// no resolved path may climb above the sandbox root
		if strings.Contains(got.String(), "..") {
			t.Errorf("Resolve(%q) leaked parent traversal: %q", tt.guest, got)
		}
	}
}

func TestResolve_Errors(t *testing.T) {
	if _, err := Resolve(Root, ""); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := Resolve(New("relative"), "a"); err == nil {
		t.Error("expected error for relative base")
	}
}

func TestPath_Equal(t *testing.T) {
	if !New("/a/b/../c").Equal(New("/a/c")) {
		t.Error("cleaned paths should compare equal")
	}
	if New("/a").Equal(New("a")) {
		t.Error("absolute and relative paths should differ")
	}
}
