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

// Package remotefs implements a client-side shim that reroutes a fixed set
// of file operations to a remote server over a single TCP connection.
//
// The primary elements of interest are:
//
//  *  Shim, which holds the one connection a process keeps to the server
//     and exposes the ten intercepted entry points.
//
//  *  localops.LocalOps, the capability interface a host environment
//     supplies for operations on descriptors below the remote boundary.
//
//  *  rfsd, the counterpart package implementing the server side of the
//     same wire protocol.
package remotefs
