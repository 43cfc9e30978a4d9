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

// Command remotefsd runs the remotefs server: it listens on
// serverport15440 (default 15440) and performs the nine intercepted
// operations that reach it (all but freedirtree) against its own local
// filesystem on behalf of any number of concurrently connected shims.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/jacobsa/timeutil"

	"github.com/cs15440/remotefs/localops"
	"github.com/cs15440/remotefs/rfsd"
)

var fDebug = flag.Bool("debug", false, "Write per-request logging to stderr.")

func listenAddr() string {
	port := os.Getenv("serverport15440")
	if port == "" {
		port = "15440"
	}
	return net.JoinHostPort("", port)
}

func main() {
	flag.Parse()
	addr := listenAddr()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("listen on %s: %v", addr, err)
	}
	defer ln.Close()

	var logger *log.Logger
	if *fDebug {
		logger = log.New(os.Stderr, "remotefsd: ", log.Ldate|log.Ltime|log.Lmicroseconds)
	}

	fmt.Fprintf(os.Stderr, "remotefsd listening on %s\n", addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	var shuttingDown int32
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "remotefsd: received %v, closing listener\n", sig)
		atomic.StoreInt32(&shuttingDown, 1)
		ln.Close()
	}()

	srv := rfsd.New(&localops.Real{}, timeutil.RealClock(), logger)
	err = srv.Serve(ln)
	if err != nil && !(atomic.LoadInt32(&shuttingDown) == 1 && errors.Is(err, net.ErrClosed)) {
		log.Fatalf("serve: %v", err)
	}
}
