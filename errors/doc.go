// Package errors provides structured error types for the file bridge.
//
// Errors carry a Phase (where in processing the failure happened), a Kind
// (what category of failure), the guest-facing operation name and path,
// and an optional wrapped cause. Two errors match under errors.Is when
// their Phase and Kind agree, so callers can classify without string
// comparison.
//
// The bridge distinguishes recoverable host I/O failures, which are
// translated to boolean results at the facade boundary, from unsupported
// configurations, which are returned as KindUnsupported and must abort
// the guest call.
package errors
