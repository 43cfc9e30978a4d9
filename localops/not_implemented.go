// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package localops

import (
	"github.com/cs15440/remotefs/dirtree"
	"golang.org/x/sys/unix"
)

// NotImplementedLocalOps may be embedded within a LocalOps implementation
// to inherit ENOSYS-returning defaults for any method not of interest to
// a particular host environment.
type NotImplementedLocalOps struct{}

var _ LocalOps = &NotImplementedLocalOps{}

func (NotImplementedLocalOps) Open(path string, flags int, mode uint32) (int, unix.Errno) {
	return -1, unix.ENOSYS
}

func (NotImplementedLocalOps) Close(fd int) unix.Errno {
	return unix.ENOSYS
}

func (NotImplementedLocalOps) Read(fd int, buf []byte) (int, unix.Errno) {
	return -1, unix.ENOSYS
}

func (NotImplementedLocalOps) Write(fd int, buf []byte) (int, unix.Errno) {
	return -1, unix.ENOSYS
}

func (NotImplementedLocalOps) Lseek(fd int, offset int64, whence int) (int64, unix.Errno) {
	return -1, unix.ENOSYS
}

func (NotImplementedLocalOps) Stat(path string) (unix.Stat_t, unix.Errno) {
	return unix.Stat_t{}, unix.ENOSYS
}

func (NotImplementedLocalOps) Unlink(path string) unix.Errno {
	return unix.ENOSYS
}

func (NotImplementedLocalOps) Getdirentries(fd int, buf []byte, basep *int64) (int, unix.Errno) {
	return -1, unix.ENOSYS
}

func (NotImplementedLocalOps) Getdirtree(path string) (*dirtree.Node, error) {
	return nil, unix.ENOSYS
}
