/*
   Copyright The containerd Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package conterrors holds the error values shared by the xattrshim
// packages.
package conterrors

import "fmt"

var (
	// ErrNotFound is returned when an attribute does not exist.
	ErrNotFound = fmt.Errorf("not found")

	// ErrNotSupported is returned when the platform or filesystem has no
	// extended attribute support.
	ErrNotSupported = fmt.Errorf("not supported")
)
