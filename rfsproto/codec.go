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
)

// A cursor over a request or reply body, used by the per-opcode
// Marshal/Unmarshal pairs below. All integers are little-endian; string
// fields carry an explicit 4-byte length prefix and no trailing NUL.
type encoder struct {
	buf []byte
}

func newEncoder(opcode Opcode, bodyLen int) *encoder {
	e := &encoder{buf: make([]byte, 4, 4+bodyLen)}
	binary.LittleEndian.PutUint32(e.buf, uint32(opcode))
	return e
}

func (e *encoder) putU32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	e.buf = append(e.buf, tmp[:]...)
}

func (e *encoder) putI32(v int32) { e.putU32(uint32(v)) }

func (e *encoder) putI64(v int64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], uint64(v))
	e.buf = append(e.buf, tmp[:]...)
}

func (e *encoder) putBytes(b []byte) {
	e.buf = append(e.buf, b...)
}

func (e *encoder) putString(s string) {
	e.putU32(uint32(len(s)))
	e.buf = append(e.buf, s...)
}

func (e *encoder) bytes() []byte { return e.buf }

// A cursor for decoding a request or reply body (the bytes after the
// 4-byte opcode have already been stripped off by the caller).
type decoder struct {
	buf []byte
	off int
}

func newDecoder(body []byte) *decoder {
	return &decoder{buf: body}
}

func (d *decoder) need(n int) error {
	if d.off+n > len(d.buf) {
		return fmt.Errorf("rfsproto: short frame: need %d bytes at offset %d, have %d", n, d.off, len(d.buf))
	}
	return nil
}

func (d *decoder) u32() (uint32, error) {
	if err := d.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(d.buf[d.off:])
	d.off += 4
	return v, nil
}

func (d *decoder) i32() (int32, error) {
	v, err := d.u32()
	return int32(v), err
}

func (d *decoder) i64() (int64, error) {
	if err := d.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(d.buf[d.off:])
	d.off += 8
	return int64(v), nil
}

func (d *decoder) bytes(n int) ([]byte, error) {
	if err := d.need(n); err != nil {
		return nil, err
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *decoder) string() (string, error) {
	n, err := d.u32()
	if err != nil {
		return "", err
	}
	b, err := d.bytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// putI32/getI32/putU32/getU32/putI64/getI64 are used by the fixed-size
// reply structs, which size their buffer exactly and so skip the growable
// encoder above.
func putI32(b []byte, v int32)  { binary.LittleEndian.PutUint32(b, uint32(v)) }
func getI32(b []byte) int32     { return int32(binary.LittleEndian.Uint32(b)) }
func putU32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }
func getU32(b []byte) uint32    { return binary.LittleEndian.Uint32(b) }
func putI64(b []byte, v int64)  { binary.LittleEndian.PutUint64(b, uint64(v)) }
func getI64(b []byte) int64     { return int64(binary.LittleEndian.Uint64(b)) }

func errShortReply(name string, want, got int) error {
	return fmt.Errorf("rfsproto: short %s reply: want %d bytes, got %d", name, want, got)
}

// DecodeOpcode reads the leading 4-byte opcode from a frame and returns the
// remaining bytes as the request/reply body.
func DecodeOpcode(frame []byte) (op Opcode, body []byte, err error) {
	if len(frame) < 4 {
		err = fmt.Errorf("rfsproto: frame too short for opcode: %d bytes", len(frame))
		return
	}
	op = Opcode(binary.LittleEndian.Uint32(frame))
	body = frame[4:]
	return
}
