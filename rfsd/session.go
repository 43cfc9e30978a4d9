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
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"time"

	"github.com/jacobsa/reqtrace"
	"github.com/jacobsa/syncutil"
	"github.com/jacobsa/timeutil"

	"github.com/cs15440/remotefs/localops"
	"github.com/cs15440/remotefs/rfsproto"
)

// session holds the per-client state: a dedicated handler reading requests
// from one connection strictly sequentially, holding real kernel
// descriptors on the client's behalf until it closes them. The session
// keeps only a count of open descriptors, not their numbers; descriptors
// still open when the session ends are not closed by it.
type session struct {
	conn    net.Conn
	ops     localops.LocalOps
	clock   timeutil.Clock
	logger  *log.Logger
	started time.Time

	// GUARDED_BY(mu)
	mu        syncutil.InvariantMutex
	openCount int
}

func newSession(conn net.Conn, ops localops.LocalOps, clock timeutil.Clock, logger *log.Logger) *session {
	s := &session{
		conn:    conn,
		ops:     ops,
		clock:   clock,
		logger:  logger,
		started: clock.Now(),
	}
	s.mu = syncutil.NewInvariantMutex(s.checkInvariants)
	return s
}

func (s *session) checkInvariants() {
	if s.openCount < 0 {
		panic(fmt.Sprintf("negative open descriptor count: %d", s.openCount))
	}
}

func (s *session) noteOpen(delta int) {
	s.mu.Lock()
	s.openCount += delta
	s.mu.Unlock()
}

// run processes requests from the session's connection until the peer
// closes it or a transport error occurs; both are terminal for the
// session (spec.md §4.2, "Failure semantics").
func (s *session) run() {
	defer s.conn.Close()

	for {
		op, body, err := rfsproto.ReadFrame(s.conn)
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Printf("session from %v ended after %v", s.conn.RemoteAddr(), s.clock.Now().Sub(s.started))
			} else {
				s.logger.Printf("session from %v: read error: %v", s.conn.RemoteAddr(), err)
			}
			return
		}

		_, report := reqtrace.StartSpan(context.Background(), op.String())

		if err := s.dispatch(op, body); err != nil {
			report(err)
			s.logger.Printf("session from %v: %s: %v", s.conn.RemoteAddr(), op, err)
			return
		}
		report(nil)
	}
}
