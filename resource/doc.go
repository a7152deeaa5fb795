// Package resource provides handle management for guest-visible proxy
// objects.
//
// Results that cross the guest boundary (path strings, listings, byte
// blobs, attribute maps, directory enumerators) are host-side values the
// guest refers to by opaque integer handle. This package implements the
// handle table behind those proxies.
//
// # Handle Table
//
// The Table maps integer handles to Go values:
//
//	table := resource.NewTable()
//
//	// Insert a value, get a handle
//	handle := table.Insert(typeID, myValue)
//
//	// Retrieve value by handle
//	value, ok := table.Get(handle)
//
//	// Drop the handle, running cleanup
//	value, ok := table.Remove(handle)
//
// # Type Safety
//
// Handles are typed - each resource type gets a unique type ID, and
// GetTyped only returns a value when the type matches.
//
// # Memory Management
//
// Resources are not garbage collected; the bridge removes a handle when
// the guest's proxy is released (directly or through a release pool).
// Call Close() to release everything when a session ends.
package resource
