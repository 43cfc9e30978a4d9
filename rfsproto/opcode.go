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

// Package rfsproto implements the wire codec for the remotefs protocol: a
// 4-byte little-endian opcode followed by an opcode-specific grammar of
// fixed and variable-length fields, with no outer length prefix on
// requests. See the per-opcode Marshal/Unmarshal pairs in this package.
package rfsproto

import "fmt"

// Opcode identifies the operation carried by a single request frame. Values
// 0 through 8 are assigned; there is no opcode for freedirtree, which never
// crosses the wire.
type Opcode uint32

const (
	OpOpen Opcode = iota
	OpRead
	OpWrite
	OpClose
	OpLseek
	OpStat
	OpUnlink
	OpGetdirentries
	OpGetdirtree

	opcodeCount
)

func (o Opcode) String() string {
	switch o {
	case OpOpen:
		return "open"
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	case OpClose:
		return "close"
	case OpLseek:
		return "lseek"
	case OpStat:
		return "stat"
	case OpUnlink:
		return "unlink"
	case OpGetdirentries:
		return "getdirentries"
	case OpGetdirtree:
		return "getdirtree"
	default:
		return fmt.Sprintf("opcode(%d)", uint32(o))
	}
}

// Valid reports whether o is one of the nine assigned opcodes.
func (o Opcode) Valid() bool {
	return o < opcodeCount
}

const (
	// MaxMsgLen is the ceiling on any single wire frame, request or reply.
	MaxMsgLen = 4096

	// DescriptorBias (B in spec terms) is added to a server-side descriptor
	// to produce the value the shim hands back to its caller, and
	// subtracted back off before a descriptor is sent to the server.
	DescriptorBias = 5000

	// ReadReplyOverhead is the fixed portion (bytes-read + errno) of a read
	// reply frame; chunked reads must keep count*1+overhead <= MaxMsgLen.
	ReadReplyOverhead = 8

	// WriteRequestOverhead is the fixed portion (opcode + fd + count) of a
	// write request frame.
	WriteRequestOverhead = 12
)

// MaxReadChunk is the largest payload a single read sub-frame may carry.
const MaxReadChunk = MaxMsgLen - ReadReplyOverhead

// MaxWriteChunk is the largest payload a single write sub-frame may carry.
const MaxWriteChunk = MaxMsgLen - WriteRequestOverhead
