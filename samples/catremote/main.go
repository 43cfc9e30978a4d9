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

// Command catremote is a minimal demonstration host: it opens a path on
// the remote server through the remotefs Shim directly (rather than via
// symbol interposition) and copies its contents to stdout.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cs15440/remotefs"
	"github.com/cs15440/remotefs/localops"
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatalf("usage: catremote <path>")
	}
	path := flag.Arg(0)

	shim := remotefs.New(&localops.Real{})

	fd, err := shim.Open(path, os.O_RDONLY, 0)
	if err != nil {
		log.Fatalf("open %q: %v", path, err)
	}
	defer shim.Close(fd)

	buf := make([]byte, 64*1024)
	for {
		n, err := shim.Read(fd, buf)
		if n > 0 {
			if _, werr := os.Stdout.Write(buf[:n]); werr != nil {
				log.Fatalf("write stdout: %v", werr)
			}
		}
		if err != nil {
			log.Fatalf("read %q: %v", path, err)
		}
		if n == 0 {
			break
		}
	}

	fmt.Fprintln(os.Stderr, "done")
}
