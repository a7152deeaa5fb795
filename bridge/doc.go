// Package bridge implements the guest-facing file management facade.
//
// Guest code never sees host paths or file descriptors. It holds
// handles to proxy objects (path strings, listings, blobs, attribute
// dictionaries, directory enumerators) managed by a ProxyTable, and
// calls facade operations on a Manager. The manager resolves every
// guest path into the sandbox, forwards to a vfs.Storage backend and
// translates the outcome into the boolean and nil-handle conventions
// the emulated API expects:
//
//   - recoverable host failures become false or the zero handle
//   - configurations the bridge does not implement return an error of
//     kind "unsupported", which the dispatcher treats as fatal
//
// Proxies returned to the guest are registered with a ReleasePool and
// stay valid until the dispatcher drains the pool at the end of the
// current guest scope.
package bridge
