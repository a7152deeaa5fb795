package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the bridge the error occurred
type Phase string

const (
	PhaseResolve Phase = "resolve" // path and domain resolution
	PhaseBridge  Phase = "bridge"  // guest-facing facade operations
	PhaseStorage Phase = "storage" // virtual filesystem service
	PhaseMemory  Phase = "memory"  // guest memory access
)

// Kind categorizes the error
type Kind string

const (
	KindUnsupported  Kind = "unsupported"   // unimplemented configuration or feature
	KindNotFound     Kind = "not_found"     // missing file or directory
	KindInvalidPath  Kind = "invalid_path"  // malformed or escaping guest path
	KindInvalidInput Kind = "invalid_input" // bad argument from the guest
	KindOutOfBounds  Kind = "out_of_bounds" // guest memory access outside linear memory
	KindExists       Kind = "exists"        // target already present
	KindIsDirectory  Kind = "is_directory"  // file operation on a directory
	KindNotDirectory Kind = "not_directory" // directory operation on a file
	KindIO           Kind = "io"            // other host storage failure
	KindBadHandle    Kind = "bad_handle"    // invalid or released proxy handle
)

// Error is the structured error type used throughout the bridge.
//
// Unsupported-kind errors are precondition violations: the guest asked for
// a configuration the bridge does not implement (non-user search domains,
// attribute dictionaries, structured error objects on failure paths). The
// dispatcher must treat them as fatal rather than translating them into a
// boolean result.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Op     string
	Path   string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}

	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IsUnsupported reports whether err is a fatal unsupported-feature signal.
func IsUnsupported(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Kind == KindUnsupported
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Op sets the guest-facing operation name
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// Path sets the guest path involved
func (b *Builder) Path(path string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Unsupported creates a fatal unsupported-feature error
func Unsupported(phase Phase, op, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Op:     op,
		Detail: what,
	}
}

// NotFound creates a missing file or directory error
func NotFound(phase Phase, op, path string) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindNotFound,
		Op:    op,
		Path:  path,
	}
}

// InvalidPath creates a malformed or sandbox-escaping path error
func InvalidPath(op, path, detail string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindInvalidPath,
		Op:     op,
		Path:   path,
		Detail: detail,
	}
}

// OutOfBounds creates a guest memory bounds error
func OutOfBounds(op string, offset uint32, length int) *Error {
	return &Error{
		Phase:  PhaseMemory,
		Kind:   KindOutOfBounds,
		Op:     op,
		Detail: fmt.Sprintf("access at offset %d (length %d) outside linear memory", offset, length),
		Value:  offset,
	}
}

// BadHandle creates an invalid proxy handle error
func BadHandle(op string, handle uint32) *Error {
	return &Error{
		Phase:  PhaseBridge,
		Kind:   KindBadHandle,
		Op:     op,
		Detail: fmt.Sprintf("handle %d is not a live proxy object", handle),
		Value:  handle,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
