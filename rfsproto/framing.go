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
	"encoding/binary"
	"fmt"
	"io"
)

// ReadFrame reads one full request frame from r: the 4-byte opcode
// followed by exactly as many bytes as that opcode's grammar calls for.
// There is no outer length prefix (spec.md §3); the grammar for each
// opcode is fixed except for the single length-prefixed path or data
// field it carries, so the reader pulls those length prefixes first and
// uses them to size the rest of the read. Returns io.EOF only if the
// peer closed the connection cleanly before sending any opcode bytes.
func ReadFrame(r io.Reader) (op Opcode, body []byte, err error) {
	opBuf, err := readExact(r, 4)
	if err != nil {
		return 0, nil, err
	}
	op = Opcode(binary.LittleEndian.Uint32(opBuf))

	if !op.Valid() {
		return op, nil, fmt.Errorf("rfsproto: unknown opcode %d", uint32(op))
	}

	var rest []byte
	switch op {
	case OpOpen:
		rest, err = readLengthPrefixedThenFixed(r, 8)
	case OpRead:
		rest, err = readExact(r, 8)
	case OpWrite:
		rest, err = readWriteRequestRest(r)
	case OpClose:
		rest, err = readExact(r, 4)
	case OpLseek:
		rest, err = readExact(r, 16)
	case OpStat:
		rest, err = readLengthPrefixedThenFixed(r, 0)
	case OpUnlink:
		rest, err = readLengthPrefixedThenFixed(r, 0)
	case OpGetdirentries:
		rest, err = readExact(r, 16)
	case OpGetdirtree:
		rest, err = readLengthPrefixedThenFixed(r, 0)
	default:
		// Unreachable: op.Valid() above already rejected anything outside
		// the nine assigned opcodes.
		return op, nil, fmt.Errorf("rfsproto: unhandled opcode %v", op)
	}
	if err != nil {
		if err == io.EOF {
			// The opcode already arrived, so this is a truncated request,
			// not a clean close.
			err = io.ErrUnexpectedEOF
		}
		return 0, nil, err
	}

	return op, rest, nil
}

func readExact(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// readLengthPrefixedThenFixed reads a 4-byte length, that many bytes of
// payload, then trailingFixed more bytes, and returns the concatenation
// (length prefix included) so the result feeds straight into the
// corresponding Unmarshal*Request function.
func readLengthPrefixedThenFixed(r io.Reader, trailingFixed int) ([]byte, error) {
	lenBuf, err := readExact(r, 4)
	if err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint32(lenBuf)
	if n > MaxMsgLen {
		return nil, fmt.Errorf("rfsproto: length-prefixed field too long: %d", n)
	}
	payload, err := readExact(r, int(n))
	if err != nil {
		return nil, err
	}

	body := append(lenBuf, payload...)
	if trailingFixed > 0 {
		tail, err := readExact(r, trailingFixed)
		if err != nil {
			return nil, err
		}
		body = append(body, tail...)
	}
	return body, nil
}

func readWriteRequestRest(r io.Reader) ([]byte, error) {
	head, err := readExact(r, 8)
	if err != nil {
		return nil, err
	}
	count := binary.LittleEndian.Uint32(head[4:8])
	if count > MaxMsgLen {
		return nil, fmt.Errorf("rfsproto: write count too large: %d", count)
	}
	data, err := readExact(r, int(count))
	if err != nil {
		return nil, err
	}
	return append(head, data...), nil
}
