// Package vfs defines the storage service behind the file bridge and
// provides three interchangeable backends: an in-memory sandbox, a
// host-directory sandbox, and a persistent sqlite sandbox.
//
// Every fresh sandbox is seeded with the standard per-app layout: the
// home directory, Documents, tmp, Library/Application Support and the
// shared /Applications directory.
package vfs
