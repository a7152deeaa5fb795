package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseBridge,
				Kind:   KindNotFound,
				Op:     "copyItemAtPath",
				Path:   "/Documents/save.dat",
				Detail: "source missing",
			},
			contains: []string{"[bridge]", "not_found", "copyItemAtPath", "/Documents/save.dat", "source missing"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseResolve,
				Kind:  KindInvalidPath,
			},
			contains: []string{"[resolve]", "invalid_path"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseStorage,
				Kind:   KindIO,
				Detail: "write failed",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[storage]", "io", "write failed", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseStorage,
		Kind:  KindIO,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseBridge,
		Kind:  KindUnsupported,
		Op:    "removeItemAtPath",
	}

	same := &Error{Phase: PhaseBridge, Kind: KindUnsupported}
	if !errors.Is(err, same) {
		t.Error("expected match on Phase and Kind")
	}

	otherKind := &Error{Phase: PhaseBridge, Kind: KindNotFound}
	if errors.Is(err, otherKind) {
		t.Error("unexpected match across kinds")
	}

	otherPhase := &Error{Phase: PhaseResolve, Kind: KindUnsupported}
	if errors.Is(err, otherPhase) {
		t.Error("unexpected match across phases")
	}
}

func TestIsUnsupported(t *testing.T) {
	if !IsUnsupported(Unsupported(PhaseBridge, "createFileAtPath", "attributes dictionary")) {
		t.Error("expected unsupported signal")
	}
	if IsUnsupported(NotFound(PhaseStorage, "removeItemAtPath", "/tmp/x")) {
		t.Error("not_found should not classify as unsupported")
	}
	if IsUnsupported(errors.New("plain")) {
		t.Error("plain error should not classify as unsupported")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("disk gone")
	err := New(PhaseStorage, KindIO).
		Op("createFileAtPath").
		Path("/Documents/a.txt").
		Detail("write of %d bytes failed", 12).
		Cause(cause).
		Build()

	if err.Op != "createFileAtPath" {
		t.Errorf("unexpected op %q", err.Op)
	}
	if err.Detail != "write of 12 bytes failed" {
		t.Errorf("unexpected detail %q", err.Detail)
	}
	if !errors.Is(err, &Error{Phase: PhaseStorage, Kind: KindIO}) {
		t.Error("builder lost phase/kind")
	}
	if !errors.Is(err, cause) {
		t.Error("builder lost cause")
	}
}
