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
	"os"
)

const (
	envServerHost = "server15440"
	envServerPort = "serverport15440"

	defaultServerHost = "127.0.0.1"
	defaultServerPort = "15440"
)

// serverAddr reads the host and port the shim should dial, falling back to
// the same defaults the original used when the environment variables are
// unset.
func serverAddr() string {
	host := os.Getenv(envServerHost)
	if host == "" {
		host = defaultServerHost
	}

	port := os.Getenv(envServerPort)
	if port == "" {
		port = defaultServerPort
	}

	return net.JoinHostPort(host, port)
}

// dial opens the single TCP connection a Shim keeps to the server for its
// whole lifetime.
func dial() (net.Conn, error) {
	addr := serverAddr()
	getLogger().Printf("connecting to %s", addr)
	return net.Dial("tcp", addr)
}
