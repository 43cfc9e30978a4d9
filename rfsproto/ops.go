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

////////////////////////////////////////////////////////////////////////
// open
////////////////////////////////////////////////////////////////////////

type OpenRequest struct {
	Path  string
	Flags int32
	Mode  uint32
}

func (r *OpenRequest) Marshal() []byte {
	e := newEncoder(OpOpen, 4+len(r.Path)+4+4)
	e.putString(r.Path)
	e.putI32(r.Flags)
	e.putU32(r.Mode)
	return e.bytes()
}

func UnmarshalOpenRequest(body []byte) (r *OpenRequest, err error) {
	d := newDecoder(body)
	r = &OpenRequest{}
	if r.Path, err = d.string(); err != nil {
		return nil, err
	}
	if r.Flags, err = d.i32(); err != nil {
		return nil, err
	}
	if r.Mode, err = d.u32(); err != nil {
		return nil, err
	}
	return r, nil
}

type OpenReply struct {
	Fd    int32
	Errno int32
}

func (r *OpenReply) Marshal() []byte {
	var buf [8]byte
	putI32(buf[0:4], r.Fd)
	putI32(buf[4:8], r.Errno)
	return buf[:]
}

func UnmarshalOpenReply(body []byte) (*OpenReply, error) {
	if len(body) < 8 {
		return nil, errShortReply("open", 8, len(body))
	}
	return &OpenReply{Fd: getI32(body[0:4]), Errno: getI32(body[4:8])}, nil
}

////////////////////////////////////////////////////////////////////////
// read
////////////////////////////////////////////////////////////////////////

type ReadRequest struct {
	Fd    int32
	Count uint32
}

func (r *ReadRequest) Marshal() []byte {
	e := newEncoder(OpRead, 8)
	e.putI32(r.Fd)
	e.putU32(r.Count)
	return e.bytes()
}

func UnmarshalReadRequest(body []byte) (r *ReadRequest, err error) {
	d := newDecoder(body)
	r = &ReadRequest{}
	if r.Fd, err = d.i32(); err != nil {
		return nil, err
	}
	if r.Count, err = d.u32(); err != nil {
		return nil, err
	}
	return r, nil
}

// ReadReply is bytes|errno|data, where data is always Count bytes long on
// the wire (the payload bound is known at encode time); only the first
// Bytes of it are valid.
type ReadReply struct {
	Bytes int32
	Errno int32
	Data  []byte
}

func (r *ReadReply) Marshal() []byte {
	buf := make([]byte, 8+len(r.Data))
	putI32(buf[0:4], r.Bytes)
	putI32(buf[4:8], r.Errno)
	copy(buf[8:], r.Data)
	return buf
}

func UnmarshalReadReply(body []byte) (*ReadReply, error) {
	if len(body) < 8 {
		return nil, errShortReply("read", 8, len(body))
	}
	return &ReadReply{
		Bytes: getI32(body[0:4]),
		Errno: getI32(body[4:8]),
		Data:  body[8:],
	}, nil
}

////////////////////////////////////////////////////////////////////////
// write
////////////////////////////////////////////////////////////////////////

type WriteRequest struct {
	Fd    int32
	Count uint32
	Data  []byte
}

func (r *WriteRequest) Marshal() []byte {
	e := newEncoder(OpWrite, 8+len(r.Data))
	e.putI32(r.Fd)
	e.putU32(r.Count)
	e.putBytes(r.Data)
	return e.bytes()
}

func UnmarshalWriteRequest(body []byte) (r *WriteRequest, err error) {
	d := newDecoder(body)
	r = &WriteRequest{}
	if r.Fd, err = d.i32(); err != nil {
		return nil, err
	}
	if r.Count, err = d.u32(); err != nil {
		return nil, err
	}
	if r.Data, err = d.bytes(int(r.Count)); err != nil {
		return nil, err
	}
	return r, nil
}

type WriteReply struct {
	Bytes int32
	Errno int32
}

func (r *WriteReply) Marshal() []byte {
	var buf [8]byte
	putI32(buf[0:4], r.Bytes)
	putI32(buf[4:8], r.Errno)
	return buf[:]
}

func UnmarshalWriteReply(body []byte) (*WriteReply, error) {
	if len(body) < 8 {
		return nil, errShortReply("write", 8, len(body))
	}
	return &WriteReply{Bytes: getI32(body[0:4]), Errno: getI32(body[4:8])}, nil
}

////////////////////////////////////////////////////////////////////////
// close
////////////////////////////////////////////////////////////////////////

type CloseRequest struct {
	Fd int32
}

func (r *CloseRequest) Marshal() []byte {
	e := newEncoder(OpClose, 4)
	e.putI32(r.Fd)
	return e.bytes()
}

func UnmarshalCloseRequest(body []byte) (r *CloseRequest, err error) {
	d := newDecoder(body)
	r = &CloseRequest{}
	if r.Fd, err = d.i32(); err != nil {
		return nil, err
	}
	return r, nil
}

type CloseReply struct {
	Success int32
	Errno   int32
}

func (r *CloseReply) Marshal() []byte {
	var buf [8]byte
	putI32(buf[0:4], r.Success)
	putI32(buf[4:8], r.Errno)
	return buf[:]
}

func UnmarshalCloseReply(body []byte) (*CloseReply, error) {
	if len(body) < 8 {
		return nil, errShortReply("close", 8, len(body))
	}
	return &CloseReply{Success: getI32(body[0:4]), Errno: getI32(body[4:8])}, nil
}

////////////////////////////////////////////////////////////////////////
// lseek
////////////////////////////////////////////////////////////////////////

type LseekRequest struct {
	Fd     int32
	Offset int64
	Whence int32
}

func (r *LseekRequest) Marshal() []byte {
	e := newEncoder(OpLseek, 16)
	e.putI32(r.Fd)
	e.putI64(r.Offset)
	e.putI32(r.Whence)
	return e.bytes()
}

func UnmarshalLseekRequest(body []byte) (r *LseekRequest, err error) {
	d := newDecoder(body)
	r = &LseekRequest{}
	if r.Fd, err = d.i32(); err != nil {
		return nil, err
	}
	if r.Offset, err = d.i64(); err != nil {
		return nil, err
	}
	if r.Whence, err = d.i32(); err != nil {
		return nil, err
	}
	return r, nil
}

type LseekReply struct {
	NewOffset int64
	Errno     int32
}

func (r *LseekReply) Marshal() []byte {
	buf := make([]byte, 12)
	putI64(buf[0:8], r.NewOffset)
	putI32(buf[8:12], r.Errno)
	return buf
}

func UnmarshalLseekReply(body []byte) (*LseekReply, error) {
	if len(body) < 12 {
		return nil, errShortReply("lseek", 12, len(body))
	}
	return &LseekReply{NewOffset: getI64(body[0:8]), Errno: getI32(body[8:12])}, nil
}

////////////////////////////////////////////////////////////////////////
// stat
////////////////////////////////////////////////////////////////////////

// StatRequest carries only the path. The original protocol also sent the
// caller's (uninitialized) output buffer and never sent it back filled in
// (see Open Question 2 in spec.md); SPEC_FULL drops that dead field and
// instead versions the reply to carry the real stat_t, see StatReply.
type StatRequest struct {
	Path string
}

func (r *StatRequest) Marshal() []byte {
	e := newEncoder(OpStat, 4+len(r.Path))
	e.putString(r.Path)
	return e.bytes()
}

func UnmarshalStatRequest(body []byte) (r *StatRequest, err error) {
	d := newDecoder(body)
	r = &StatRequest{}
	if r.Path, err = d.string(); err != nil {
		return nil, err
	}
	return r, nil
}

// StatReply is success|errno|statbuf, where statbuf is the host's raw
// unix.Stat_t layout and is only meaningful when Success == 0.
type StatReply struct {
	Success int32
	Errno   int32
	Statbuf [StatTSize]byte
}

func (r *StatReply) Marshal() []byte {
	buf := make([]byte, 8+StatTSize)
	putI32(buf[0:4], r.Success)
	putI32(buf[4:8], r.Errno)
	copy(buf[8:], r.Statbuf[:])
	return buf
}

func UnmarshalStatReply(body []byte) (*StatReply, error) {
	if len(body) < 8+StatTSize {
		return nil, errShortReply("stat", 8+StatTSize, len(body))
	}
	r := &StatReply{Success: getI32(body[0:4]), Errno: getI32(body[4:8])}
	copy(r.Statbuf[:], body[8:8+StatTSize])
	return r, nil
}

////////////////////////////////////////////////////////////////////////
// unlink
////////////////////////////////////////////////////////////////////////

type UnlinkRequest struct {
	Path string
}

func (r *UnlinkRequest) Marshal() []byte {
	e := newEncoder(OpUnlink, 4+len(r.Path))
	e.putString(r.Path)
	return e.bytes()
}

func UnmarshalUnlinkRequest(body []byte) (r *UnlinkRequest, err error) {
	d := newDecoder(body)
	r = &UnlinkRequest{}
	if r.Path, err = d.string(); err != nil {
		return nil, err
	}
	return r, nil
}

type UnlinkReply struct {
	Success int32
	Errno   int32
}

func (r *UnlinkReply) Marshal() []byte {
	var buf [8]byte
	putI32(buf[0:4], r.Success)
	putI32(buf[4:8], r.Errno)
	return buf[:]
}

func UnmarshalUnlinkReply(body []byte) (*UnlinkReply, error) {
	if len(body) < 8 {
		return nil, errShortReply("unlink", 8, len(body))
	}
	return &UnlinkReply{Success: getI32(body[0:4]), Errno: getI32(body[4:8])}, nil
}

////////////////////////////////////////////////////////////////////////
// getdirentries
////////////////////////////////////////////////////////////////////////

type GetdirentriesRequest struct {
	Fd    int32
	Nbyte uint32
	Basep int64
}

func (r *GetdirentriesRequest) Marshal() []byte {
	e := newEncoder(OpGetdirentries, 16)
	e.putI32(r.Fd)
	e.putU32(r.Nbyte)
	e.putI64(r.Basep)
	return e.bytes()
}

func UnmarshalGetdirentriesRequest(body []byte) (r *GetdirentriesRequest, err error) {
	d := newDecoder(body)
	r = &GetdirentriesRequest{}
	if r.Fd, err = d.i32(); err != nil {
		return nil, err
	}
	if r.Nbyte, err = d.u32(); err != nil {
		return nil, err
	}
	if r.Basep, err = d.i64(); err != nil {
		return nil, err
	}
	return r, nil
}

// GetdirentriesReplyHeader is the first of the two reply frames: bytes and
// errno. The second frame (raw directory entry bytes) is only sent when
// Errno == 0, and is exactly Bytes long.
type GetdirentriesReplyHeader struct {
	Bytes int32
	Errno int32
}

func (r *GetdirentriesReplyHeader) Marshal() []byte {
	var buf [8]byte
	putI32(buf[0:4], r.Bytes)
	putI32(buf[4:8], r.Errno)
	return buf[:]
}

func UnmarshalGetdirentriesReplyHeader(body []byte) (*GetdirentriesReplyHeader, error) {
	if len(body) < 8 {
		return nil, errShortReply("getdirentries header", 8, len(body))
	}
	return &GetdirentriesReplyHeader{Bytes: getI32(body[0:4]), Errno: getI32(body[4:8])}, nil
}

////////////////////////////////////////////////////////////////////////
// getdirtree
////////////////////////////////////////////////////////////////////////

type GetdirtreeRequest struct {
	Path string
}

func (r *GetdirtreeRequest) Marshal() []byte {
	e := newEncoder(OpGetdirtree, 4+len(r.Path))
	e.putString(r.Path)
	return e.bytes()
}

func UnmarshalGetdirtreeRequest(body []byte) (r *GetdirtreeRequest, err error) {
	d := newDecoder(body)
	r = &GetdirtreeRequest{}
	if r.Path, err = d.string(); err != nil {
		return nil, err
	}
	return r, nil
}

// GetdirtreeReplyHeader is the first reply frame: the length of the
// serialized tree that follows as the second frame.
type GetdirtreeReplyHeader struct {
	Length uint32
}

func (r *GetdirtreeReplyHeader) Marshal() []byte {
	var buf [4]byte
	putU32(buf[0:4], r.Length)
	return buf[:]
}

func UnmarshalGetdirtreeReplyHeader(body []byte) (*GetdirtreeReplyHeader, error) {
	if len(body) < 4 {
		return nil, errShortReply("getdirtree header", 4, len(body))
	}
	return &GetdirtreeReplyHeader{Length: getU32(body[0:4])}, nil
}
