// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

// Package localops defines the "local-operation capability" named in the
// remotefs design notes: the small interface a host environment supplies
// for the ten intercepted operations, standing in for the dynamic-linker
// symbol interposition the original relied on. The server uses the same
// interface to perform operations on its own filesystem.
package localops

import (
	"github.com/cs15440/remotefs/dirtree"
	"golang.org/x/sys/unix"
)

// LocalOps is the set of native file operations the remotefs shim and
// server fall back to (on the client, for local descriptors; on the
// server, always). Not all methods need an interesting implementation on
// every platform: embed NotImplementedLocalOps to get ENOSYS defaults for
// whatever is left unimplemented.
//
// Must be safe for concurrent use.
type LocalOps interface {
	Open(path string, flags int, mode uint32) (fd int, errno unix.Errno)
	Close(fd int) (errno unix.Errno)
	Read(fd int, buf []byte) (n int, errno unix.Errno)
	Write(fd int, buf []byte) (n int, errno unix.Errno)
	Lseek(fd int, offset int64, whence int) (newOffset int64, errno unix.Errno)
	Stat(path string) (st unix.Stat_t, errno unix.Errno)
	Unlink(path string) (errno unix.Errno)

	// Getdirentries fills buf with raw directory-entry bytes and returns the
	// number of bytes written. Real reads from the descriptor's current
	// position and neither reads nor updates *basep.
	Getdirentries(fd int, buf []byte, basep *int64) (n int, errno unix.Errno)

	// Getdirtree recursively walks path and returns the resulting tree.
	// Unlike the other methods this reports failure through a Go error,
	// since it has no single kernel errno to carry and the original
	// implementation's getdirtree has no documented failure contract
	// beyond "the call succeeded or it didn't" (see original_source).
	Getdirtree(path string) (*dirtree.Node, error)
}
