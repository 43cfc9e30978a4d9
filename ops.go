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

package remotefs

import (
	"context"

	"github.com/jacobsa/reqtrace"
	"golang.org/x/sys/unix"

	"github.com/cs15440/remotefs/dirtree"
	"github.com/cs15440/remotefs/rfsproto"
)

func errnoErr(e int32) error {
	if e == 0 {
		return nil
	}
	return unix.Errno(e)
}

// isRemote reports whether fd names a descriptor the server is holding on
// the caller's behalf, per the biasing scheme in rfsproto.DescriptorBias.
func isRemote(fd int) bool {
	return fd >= rfsproto.DescriptorBias
}

// Open opens path on the server and returns a biased descriptor for it.
// Unlike the descriptor-taking operations, open always crosses the wire:
// there is no fd yet to route on.
func (s *Shim) Open(path string, flags int, mode uint32) (fd int, err error) {
	_, report := reqtrace.StartSpan(context.Background(), "open")
	defer func() { report(err) }()

	s.connMu.Lock()
	defer s.connMu.Unlock()

	if err = s.ensureConnected(); err != nil {
		return -1, err
	}

	req := &rfsproto.OpenRequest{Path: path, Flags: int32(flags), Mode: mode}
	if err = s.sendRequest(req.Marshal()); err != nil {
		return -1, err
	}

	body, err := s.recvFull(8)
	if err != nil {
		return -1, err
	}
	reply, err := rfsproto.UnmarshalOpenReply(body)
	if err != nil {
		return -1, err
	}

	getLogger().Printf("open(%q) -> fd=%d errno=%d", path, reply.Fd, reply.Errno)
	if reply.Fd == -1 {
		return -1, errnoErr(reply.Errno)
	}
	return int(reply.Fd) + rfsproto.DescriptorBias, nil
}

// Close closes fd, remotely if it names a descriptor the server is
// holding, locally otherwise.
func (s *Shim) Close(fd int) (err error) {
	if !isRemote(fd) {
		return errnoErr0(s.localOps.Close(fd))
	}

	_, report := reqtrace.StartSpan(context.Background(), "close")
	defer func() { report(err) }()

	s.connMu.Lock()
	defer s.connMu.Unlock()

	if err = s.ensureConnected(); err != nil {
		return err
	}

	req := &rfsproto.CloseRequest{Fd: int32(fd - rfsproto.DescriptorBias)}
	if err = s.sendRequest(req.Marshal()); err != nil {
		return err
	}

	body, err := s.recvFull(8)
	if err != nil {
		return err
	}
	reply, err := rfsproto.UnmarshalCloseReply(body)
	if err != nil {
		return err
	}

	getLogger().Printf("close(%d) -> success=%d errno=%d", fd, reply.Success, reply.Errno)
	err = errnoErr(reply.Errno)
	return err
}

// readChunk performs a single sub-frame read, bounded by
// rfsproto.MaxReadChunk, and reports the same (-1, err) on failure that
// the original readHelper did.
func (s *Shim) readChunk(fd int32, buf []byte) (int, error) {
	req := &rfsproto.ReadRequest{Fd: fd, Count: uint32(len(buf))}
	if err := s.sendRequest(req.Marshal()); err != nil {
		return -1, err
	}

	body, err := s.recvFull(8 + len(buf))
	if err != nil {
		return -1, err
	}
	reply, err := rfsproto.UnmarshalReadReply(body)
	if err != nil {
		return -1, err
	}
	if reply.Errno != 0 {
		return -1, errnoErr(reply.Errno)
	}

	copy(buf, reply.Data[:reply.Bytes])
	return int(reply.Bytes), nil
}

// Read reads into buf, splitting the request into rfsproto.MaxReadChunk
// sized sub-frames as the wire format requires (spec.md §4.1).
func (s *Shim) Read(fd int, buf []byte) (n int, err error) {
	if !isRemote(fd) {
		n, errno := s.localOps.Read(fd, buf)
		return n, errnoErr0(errno)
	}

	_, report := reqtrace.StartSpan(context.Background(), "read")
	defer func() { report(err) }()

	s.connMu.Lock()
	defer s.connMu.Unlock()

	if err = s.ensureConnected(); err != nil {
		return 0, err
	}

	remoteFd := int32(fd - rfsproto.DescriptorBias)
	total := 0
	remaining := buf
	for len(remaining) > 0 {
		chunkLen := len(remaining)
		if chunkLen > rfsproto.MaxReadChunk {
			chunkLen = rfsproto.MaxReadChunk
		}

		chunkN, chunkErr := s.readChunk(remoteFd, remaining[:chunkLen])
		if chunkErr != nil {
			return -1, chunkErr
		}
		if chunkN == 0 {
			break
		}

		total += chunkN
		remaining = remaining[chunkN:]
	}

	return total, nil
}

// writeChunk performs a single sub-frame write, bounded by
// rfsproto.MaxWriteChunk.
func (s *Shim) writeChunk(fd int32, chunk []byte) (int, error) {
	req := &rfsproto.WriteRequest{Fd: fd, Count: uint32(len(chunk)), Data: chunk}
	if err := s.sendRequest(req.Marshal()); err != nil {
		return -1, err
	}

	body, err := s.recvFull(8)
	if err != nil {
		return -1, err
	}
	reply, err := rfsproto.UnmarshalWriteReply(body)
	if err != nil {
		return -1, err
	}
	if reply.Errno != 0 {
		return -1, errnoErr(reply.Errno)
	}

	return int(reply.Bytes), nil
}

// Write writes buf, splitting it into rfsproto.MaxWriteChunk sized
// sub-frames. Matching the original exactly: a write whose sub-frames
// account for zero bytes in total is reported as -1 with a nil error
// (spec.md §9, Open Question 1, kept as-is). Since the loop only stops once
// every byte has been written, this is the case of an empty buf.
func (s *Shim) Write(fd int, buf []byte) (n int, err error) {
	if !isRemote(fd) {
		n, errno := s.localOps.Write(fd, buf)
		return n, errnoErr0(errno)
	}

	_, report := reqtrace.StartSpan(context.Background(), "write")
	defer func() { report(err) }()

	s.connMu.Lock()
	defer s.connMu.Unlock()

	if err = s.ensureConnected(); err != nil {
		return 0, err
	}

	remoteFd := int32(fd - rfsproto.DescriptorBias)
	total := 0
	remaining := buf
	for len(remaining) > 0 {
		chunkLen := len(remaining)
		if chunkLen > rfsproto.MaxWriteChunk {
			chunkLen = rfsproto.MaxWriteChunk
		}

		chunkN, chunkErr := s.writeChunk(remoteFd, remaining[:chunkLen])
		if chunkErr != nil {
			return -1, chunkErr
		}

		total += chunkN
		remaining = remaining[chunkN:]
	}

	if total == 0 {
		return -1, nil
	}
	return total, nil
}

// Lseek repositions fd's offset.
func (s *Shim) Lseek(fd int, offset int64, whence int) (int64, error) {
	if !isRemote(fd) {
		off, errno := s.localOps.Lseek(fd, offset, whence)
		return off, errnoErr0(errno)
	}

	s.connMu.Lock()
	defer s.connMu.Unlock()

	if err := s.ensureConnected(); err != nil {
		return -1, err
	}

	req := &rfsproto.LseekRequest{Fd: int32(fd - rfsproto.DescriptorBias), Offset: offset, Whence: int32(whence)}
	if err := s.sendRequest(req.Marshal()); err != nil {
		return -1, err
	}

	body, err := s.recvFull(12)
	if err != nil {
		return -1, err
	}
	reply, err := rfsproto.UnmarshalLseekReply(body)
	if err != nil {
		return -1, err
	}

	return reply.NewOffset, errnoErr(reply.Errno)
}

// Stat always goes to the server: unlike the other operations it has no
// descriptor to route on, and the original likewise never routed it
// locally.
func (s *Shim) Stat(path string) (unix.Stat_t, error) {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	var st unix.Stat_t
	if err := s.ensureConnected(); err != nil {
		return st, err
	}

	req := &rfsproto.StatRequest{Path: path}
	if err := s.sendRequest(req.Marshal()); err != nil {
		return st, err
	}

	body, err := s.recvFull(8 + rfsproto.StatTSize)
	if err != nil {
		return st, err
	}
	reply, err := rfsproto.UnmarshalStatReply(body)
	if err != nil {
		return st, err
	}
	if reply.Errno != 0 {
		return st, errnoErr(reply.Errno)
	}

	return rfsproto.StatTFrom(reply.Statbuf[:]), nil
}

// Unlink removes path's directory entry on the server.
func (s *Shim) Unlink(path string) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if err := s.ensureConnected(); err != nil {
		return err
	}

	req := &rfsproto.UnlinkRequest{Path: path}
	if err := s.sendRequest(req.Marshal()); err != nil {
		return err
	}

	body, err := s.recvFull(8)
	if err != nil {
		return err
	}
	reply, err := rfsproto.UnmarshalUnlinkReply(body)
	if err != nil {
		return err
	}

	return errnoErr(reply.Errno)
}

// Getdirentries fills buf with raw directory-entry bytes, routing to the
// host's own getdents when fd is local.
//
// The server never echoes an updated *basep back to the caller (spec.md
// §9, Open Question 3): a client that needs to resume a paused scan by
// offset cannot do so across this protocol. Left as a known limitation
// rather than silently patched, since fixing it requires a wire format
// change the rest of the pack gives no evidence the original ever made.
func (s *Shim) Getdirentries(fd int, buf []byte, basep *int64) (int, error) {
	if !isRemote(fd) {
		n, errno := s.localOps.Getdirentries(fd, buf, basep)
		return n, errnoErr0(errno)
	}

	s.connMu.Lock()
	defer s.connMu.Unlock()

	if err := s.ensureConnected(); err != nil {
		return -1, err
	}

	req := &rfsproto.GetdirentriesRequest{
		Fd:    int32(fd - rfsproto.DescriptorBias),
		Nbyte: uint32(len(buf)),
		Basep: *basep,
	}
	if err := s.sendRequest(req.Marshal()); err != nil {
		return -1, err
	}

	hdrBuf, err := s.recvFull(8)
	if err != nil {
		return -1, err
	}
	hdr, err := rfsproto.UnmarshalGetdirentriesReplyHeader(hdrBuf)
	if err != nil {
		return -1, err
	}
	if hdr.Errno != 0 {
		return -1, errnoErr(hdr.Errno)
	}

	data, err := s.recvFull(int(hdr.Bytes))
	if err != nil {
		return -1, err
	}
	copy(buf, data)

	return int(hdr.Bytes), nil
}

// Getdirtree fetches and deserializes the recursive directory tree rooted
// at path.
func (s *Shim) Getdirtree(path string) (*dirtree.Node, error) {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if err := s.ensureConnected(); err != nil {
		return nil, err
	}

	req := &rfsproto.GetdirtreeRequest{Path: path}
	if err := s.sendRequest(req.Marshal()); err != nil {
		return nil, err
	}

	hdrBuf, err := s.recvFull(4)
	if err != nil {
		return nil, err
	}
	hdr, err := rfsproto.UnmarshalGetdirtreeReplyHeader(hdrBuf)
	if err != nil {
		return nil, err
	}

	payload, err := s.recvFull(int(hdr.Length))
	if err != nil {
		return nil, err
	}

	root, _, err := dirtree.Deserialize(payload)
	return root, err
}

// Freedirtree releases a tree returned by Getdirtree. The original forwarded
// this to a C free(); in Go the tree is ordinary garbage, so this is a
// no-op kept only so callers ported from the original interface compile
// unchanged.
func (s *Shim) Freedirtree(*dirtree.Node) {}

// errnoErr0 adapts a unix.Errno, which is always present (possibly zero)
// in localops.LocalOps's return signature, to the nil-on-success error
// convention the rest of this file uses.
func errnoErr0(e unix.Errno) error {
	if e == 0 {
		return nil
	}
	return e
}
