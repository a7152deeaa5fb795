package vfs

import "errors"

var (
	ErrNotExist     = errors.New("file or directory does not exist")
	ErrExist        = errors.New("file or directory already exists")
	ErrIsDirectory  = errors.New("is a directory")
	ErrNotDirectory = errors.New("not a directory")
	ErrNotEmpty     = errors.New("directory not empty")
)
