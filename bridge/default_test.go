package bridge

import (
	"testing"

	"github.com/wippyai/fs-bridge/vfs"
)

func TestDefaultIsSingleton(t *testing.T) {
	a := Default()
	b := Default()
	if a == nil {
		t.Fatal("default manager is nil")
	}
	if a != b {
		t.Error("repeated calls must return the same instance")
	}
	if a.Store() == nil {
		t.Error("lazily created default must carry a backend")
	}
}

func TestSetDefault(t *testing.T) {
	old := Default()
	t.Cleanup(func() { SetDefault(old) })

	m := New(vfs.NewMemFS(nil))
	SetDefault(m)
	if Default() != m {
		t.Error("SetDefault must replace the process-wide instance")
	}
}
