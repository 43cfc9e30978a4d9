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
	"net"
	"sync"

	"github.com/jacobsa/timeutil"

	"github.com/cs15440/remotefs/localops"
)

// Shim holds the single TCP connection a process keeps to the remote
// server and exposes the ten intercepted operations. The original
// connected once at load time, from a dynamic-linker constructor; Shim
// instead connects lazily on first use (see DESIGN.md, Open Question 1),
// since Go code dialing the network from an init function is itself bad
// practice.
//
// All exported methods are safe for concurrent use: every request/reply
// round trip on the shared connection is serialized by connMu, since two
// goroutines interleaving writes or reads on one socket would desync the
// framing (DESIGN.md, Open Question 4). Descriptors below
// rfsproto.DescriptorBias bypass the network entirely and only take the
// lock incidentally, through whatever locking localOps itself provides.
type Shim struct {
	connectOnce sync.Once
	connectErr  error
	conn        net.Conn

	// connMu serializes request/reply round trips on conn.
	connMu sync.Mutex

	localOps localops.LocalOps
	clock    timeutil.Clock
}

// New returns a Shim that falls back to localOps for descriptors below
// rfsproto.DescriptorBias. localOps is typically localops.Real, the
// genuine syscall-backed implementation; tests may substitute a fake.
func New(localOps localops.LocalOps) *Shim {
	return &Shim{
		localOps: localOps,
		clock:    timeutil.RealClock(),
	}
}

func (s *Shim) ensureConnected() error {
	s.connectOnce.Do(func() {
		s.conn, s.connectErr = dial()
	})
	return s.connectErr
}

// sendRequest writes all of req (already framed with its opcode) to the
// connection, looping over partial writes. It does not read the reply,
// since each opcode's reply shape differs; callers read it with recvFull.
//
// Callers must hold connMu.
func (s *Shim) sendRequest(req []byte) error {
	for len(req) > 0 {
		n, err := s.conn.Write(req)
		if err != nil {
			return err
		}
		req = req[n:]
	}
	return nil
}

func (s *Shim) recvFull(n int) ([]byte, error) {
	buf := make([]byte, n)
	off := 0
	for off < n {
		m, err := s.conn.Read(buf[off:])
		if err != nil {
			return nil, err
		}
		off += m
	}
	return buf, nil
}
