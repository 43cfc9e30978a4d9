// Copyright 2015 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rfsproto

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// StatTSize is the size in bytes of the host's unix.Stat_t layout. Client
// and server must be built for the same platform for this to be a valid
// wire format; see spec.md §6 on stat_t being sent "verbatim". Declared as
// an untyped-int-compatible int constant (rather than the uintptr
// unsafe.Sizeof returns) so it can be compared against and added to
// ordinary int values (message lengths, len() results) without a
// conversion at every call site.
const StatTSize = int(unsafe.Sizeof(unix.Stat_t{}))

// PutStatT writes the raw in-memory layout of st into buf, the same way
// fuseutil.WriteDirent packs a fuse_dirent: a direct unsafe copy of the
// host struct rather than a field-by-field codec.
func PutStatT(buf []byte, st *unix.Stat_t) {
	src := (*[StatTSize]byte)(unsafe.Pointer(st))
	copy(buf, src[:])
}

// StatTFrom reinterprets buf (which must be at least StatTSize bytes) as a
// unix.Stat_t and returns a copy of it.
func StatTFrom(buf []byte) (st unix.Stat_t) {
	copy((*[StatTSize]byte)(unsafe.Pointer(&st))[:], buf)
	return st
}
