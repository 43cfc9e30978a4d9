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

// Package rfsd implements the server half of the remotefs protocol: accept
// TCP clients, give each one its own session, and perform the nine
// operations that cross the wire against the local filesystem on their
// behalf.
package rfsd

import (
	"io"
	"log"
	"net"

	"github.com/jacobsa/timeutil"

	"github.com/cs15440/remotefs/localops"
)

// Server accepts connections and spins up one session per client. Where
// the original forked a child process per connection for isolation
// (spec.md §9, "Patterns needing re-architecture"), Server spawns a
// goroutine instead. Sessions share no Go state, but they all run in one
// process and share its descriptor table: a session does not check that a
// descriptor number it receives was opened by that session.
type Server struct {
	ops    localops.LocalOps
	clock  timeutil.Clock
	logger *log.Logger
}

// New creates a Server that executes operations via ops, logging through
// logger (which may be nil, meaning discard) and using clock for session
// bookkeeping timestamps.
func New(ops localops.LocalOps, clock timeutil.Clock, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{ops: ops, clock: clock, logger: logger}
}

// Serve accepts connections from ln until it is closed or a
// non-recoverable error occurs. Unlike the original server, whose accept
// loop contained a stray break after the first session ended (see
// DESIGN.md, Open Question 5), Serve keeps accepting for the lifetime of
// the listener.
func (s *Server) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}

		sess := newSession(conn, s.ops, s.clock, s.logger)
		go sess.run()
	}
}
