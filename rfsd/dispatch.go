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

package rfsd

import (
	"fmt"

	"github.com/cs15440/remotefs/dirtree"
	"github.com/cs15440/remotefs/rfsproto"
)

// dispatch decodes the request body for op, performs the matching local
// operation, and writes the reply (or replies, for opcodes 7 and 8) to the
// session's connection. An error return means the connection is no longer
// usable and the session must end (spec.md §4.2, "Failure semantics").
func (s *session) dispatch(op rfsproto.Opcode, body []byte) error {
	switch op {
	case rfsproto.OpOpen:
		return s.handleOpen(body)
	case rfsproto.OpRead:
		return s.handleRead(body)
	case rfsproto.OpWrite:
		return s.handleWrite(body)
	case rfsproto.OpClose:
		return s.handleClose(body)
	case rfsproto.OpLseek:
		return s.handleLseek(body)
	case rfsproto.OpStat:
		return s.handleStat(body)
	case rfsproto.OpUnlink:
		return s.handleUnlink(body)
	case rfsproto.OpGetdirentries:
		return s.handleGetdirentries(body)
	case rfsproto.OpGetdirtree:
		return s.handleGetdirtree(body)
	default:
		return fmt.Errorf("unhandled opcode %v", op)
	}
}

func (s *session) sendAll(buf []byte) error {
	for len(buf) > 0 {
		n, err := s.conn.Write(buf)
		if err != nil {
			return err
		}
		buf = buf[n:]
	}
	return nil
}

func (s *session) handleOpen(body []byte) error {
	req, err := rfsproto.UnmarshalOpenRequest(body)
	if err != nil {
		return err
	}

	fd, errno := s.ops.Open(req.Path, int(req.Flags), req.Mode)
	if errno == 0 {
		s.noteOpen(1)
	}
	s.logger.Printf("open(%q, %#o, %#o) -> fd=%d errno=%v", req.Path, req.Flags, req.Mode, fd, errno)

	reply := &rfsproto.OpenReply{Fd: int32(fd), Errno: int32(errno)}
	return s.sendAll(reply.Marshal())
}

func (s *session) handleClose(body []byte) error {
	req, err := rfsproto.UnmarshalCloseRequest(body)
	if err != nil {
		return err
	}

	errno := s.ops.Close(int(req.Fd))
	success := int32(0)
	if errno != 0 {
		success = -1
	} else {
		s.noteOpen(-1)
	}
	s.logger.Printf("close(%d) -> success=%d errno=%v", req.Fd, success, errno)

	reply := &rfsproto.CloseReply{Success: success, Errno: int32(errno)}
	return s.sendAll(reply.Marshal())
}

func (s *session) handleRead(body []byte) error {
	req, err := rfsproto.UnmarshalReadRequest(body)
	if err != nil {
		return err
	}

	data := make([]byte, req.Count)
	n, errno := s.ops.Read(int(req.Fd), data)
	bytesRead := int32(n)
	if errno != 0 {
		bytesRead = -1
	}
	s.logger.Printf("read(%d, %d) -> bytes=%d errno=%v", req.Fd, req.Count, bytesRead, errno)

	reply := &rfsproto.ReadReply{Bytes: bytesRead, Errno: int32(errno), Data: data}
	return s.sendAll(reply.Marshal())
}

func (s *session) handleWrite(body []byte) error {
	req, err := rfsproto.UnmarshalWriteRequest(body)
	if err != nil {
		return err
	}

	n, errno := s.ops.Write(int(req.Fd), req.Data)
	bytesWritten := int32(n)
	if errno != 0 {
		bytesWritten = -1
	}
	s.logger.Printf("write(%d, %d) -> bytes=%d errno=%v", req.Fd, req.Count, bytesWritten, errno)

	reply := &rfsproto.WriteReply{Bytes: bytesWritten, Errno: int32(errno)}
	return s.sendAll(reply.Marshal())
}

func (s *session) handleLseek(body []byte) error {
	req, err := rfsproto.UnmarshalLseekRequest(body)
	if err != nil {
		return err
	}

	off, errno := s.ops.Lseek(int(req.Fd), req.Offset, int(req.Whence))
	s.logger.Printf("lseek(%d, %d, %d) -> off=%d errno=%v", req.Fd, req.Offset, req.Whence, off, errno)

	reply := &rfsproto.LseekReply{NewOffset: off, Errno: int32(errno)}
	return s.sendAll(reply.Marshal())
}

func (s *session) handleStat(body []byte) error {
	req, err := rfsproto.UnmarshalStatRequest(body)
	if err != nil {
		return err
	}

	st, errno := s.ops.Stat(req.Path)
	success := int32(0)
	if errno != 0 {
		success = -1
	}
	s.logger.Printf("stat(%q) -> success=%d errno=%v", req.Path, success, errno)

	reply := &rfsproto.StatReply{Success: success, Errno: int32(errno)}
	if errno == 0 {
		rfsproto.PutStatT(reply.Statbuf[:], &st)
	}
	return s.sendAll(reply.Marshal())
}

func (s *session) handleUnlink(body []byte) error {
	req, err := rfsproto.UnmarshalUnlinkRequest(body)
	if err != nil {
		return err
	}

	errno := s.ops.Unlink(req.Path)
	success := int32(0)
	if errno != 0 {
		success = -1
	}
	s.logger.Printf("unlink(%q) -> success=%d errno=%v", req.Path, success, errno)

	reply := &rfsproto.UnlinkReply{Success: success, Errno: int32(errno)}
	return s.sendAll(reply.Marshal())
}

// handleGetdirentries sends its own two-frame reply directly (spec.md
// §4.2): a small header naming the byte count, then the data itself only
// if the call succeeded.
func (s *session) handleGetdirentries(body []byte) error {
	req, err := rfsproto.UnmarshalGetdirentriesRequest(body)
	if err != nil {
		return err
	}

	data := make([]byte, req.Nbyte)
	basep := req.Basep
	n, errno := s.ops.Getdirentries(int(req.Fd), data, &basep)
	bytes := int32(n)
	if errno != 0 {
		bytes = -1
	}
	s.logger.Printf("getdirentries(%d, %d) -> bytes=%d errno=%v", req.Fd, req.Nbyte, bytes, errno)

	hdr := &rfsproto.GetdirentriesReplyHeader{Bytes: bytes, Errno: int32(errno)}
	if err := s.sendAll(hdr.Marshal()); err != nil {
		return err
	}
	if errno != 0 {
		return nil
	}
	return s.sendAll(data[:n])
}

// handleGetdirtree sends a 4-byte length header, then the serialized
// tree payload, matching the two-frame reply of spec.md §4.2/§4.3. The
// directory tree is always released after serialization (spec.md §5),
// which in Go just means letting it become garbage once this function
// returns.
func (s *session) handleGetdirtree(body []byte) error {
	req, err := rfsproto.UnmarshalGetdirtreeRequest(body)
	if err != nil {
		return err
	}

	tree, walkErr := s.ops.Getdirtree(req.Path)
	if walkErr != nil {
		s.logger.Printf("getdirtree(%q): %v", req.Path, walkErr)
		hdr := &rfsproto.GetdirtreeReplyHeader{Length: 0}
		return s.sendAll(hdr.Marshal())
	}

	payload, err := dirtree.Serialize(tree)
	if err != nil {
		return err
	}

	s.logger.Printf("getdirtree(%q) -> %d bytes, %d subdirs", req.Path, len(payload), tree.NumSubdirs())

	hdr := &rfsproto.GetdirtreeReplyHeader{Length: uint32(len(payload))}
	if err := s.sendAll(hdr.Marshal()); err != nil {
		return err
	}
	return s.sendAll(payload)
}
