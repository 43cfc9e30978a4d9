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

// Package dirtree implements the recursive directory-tree structure
// returned by getdirtree and its pre-order wire serialization.
package dirtree

import (
	"encoding/binary"
	"fmt"
)

// Node is a single entry in a directory tree: a name and an ordered list
// of children. Node names must be non-empty and must not contain an
// embedded NUL byte, since NUL is the serialized delimiter.
type Node struct {
	Name     string
	Children []*Node
}

// NumSubdirs is the field name the original getdirtree callers use; it is
// just len(Children), exposed for readability at call sites that mirror
// the spec's "num_subdirs" terminology.
func (n *Node) NumSubdirs() int {
	return len(n.Children)
}

// Serialize writes a pre-order encoding of n: name, a NUL delimiter, a
// 4-byte little-endian child count, then each child in order. It does not
// prepend the 4-byte total-length header that precedes the payload frame
// on the wire; callers add that separately (see rfsd and the client
// decoder), matching the server's two-step send in spec.md §4.3.
func Serialize(n *Node) ([]byte, error) {
	var buf []byte
	if err := serializeInto(&buf, n); err != nil {
		return nil, err
	}
	return buf, nil
}

func serializeInto(buf *[]byte, n *Node) error {
	if n == nil {
		return nil
	}
	if len(n.Name) == 0 {
		return fmt.Errorf("dirtree: node name must not be empty")
	}
	for i := 0; i < len(n.Name); i++ {
		if n.Name[i] == 0 {
			return fmt.Errorf("dirtree: node name %q contains an embedded NUL", n.Name)
		}
	}

	*buf = append(*buf, n.Name...)
	*buf = append(*buf, 0)

	var countBuf [4]byte
	binary.LittleEndian.PutUint32(countBuf[:], uint32(len(n.Children)))
	*buf = append(*buf, countBuf[:]...)

	for _, child := range n.Children {
		if err := serializeInto(buf, child); err != nil {
			return err
		}
	}

	return nil
}

// Deserialize is the exact inverse of Serialize: it scans to the next NUL
// for the name, reads the child count, then recurses into that many
// children, returning the node and the number of bytes it consumed from
// buf (so a caller decoding nested calls can find the next sibling, though
// top-level callers generally only care about the root).
func Deserialize(buf []byte) (n *Node, consumed int, err error) {
	nameEnd := -1
	for i, b := range buf {
		if b == 0 {
			nameEnd = i
			break
		}
	}
	if nameEnd < 0 {
		return nil, 0, fmt.Errorf("dirtree: no NUL delimiter found in %d bytes", len(buf))
	}
	if nameEnd == 0 {
		return nil, 0, fmt.Errorf("dirtree: empty node name")
	}

	name := string(buf[:nameEnd])
	off := nameEnd + 1

	if off+4 > len(buf) {
		return nil, 0, fmt.Errorf("dirtree: truncated child count after %q", name)
	}
	childCount := binary.LittleEndian.Uint32(buf[off : off+4])
	off += 4

	node := &Node{Name: name, Children: make([]*Node, 0, childCount)}
	for i := uint32(0); i < childCount; i++ {
		child, n, err := Deserialize(buf[off:])
		if err != nil {
			return nil, 0, fmt.Errorf("dirtree: child %d of %q: %w", i, name, err)
		}
		node.Children = append(node.Children, child)
		off += n
	}

	return node, off, nil
}
