//go:build unix && !linux && !darwin

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

package sysx

import "golang.org/x/sys/unix"

const (
	// ENODATA is never produced here; every call fails with ENOTSUP.
	ENODATA = unix.ENOTSUP

	XattrCreate  XattrFlags = 0x1
	XattrReplace XattrFlags = 0x2
)

// Getxattr always fails with ENOTSUP.
func Getxattr(t Target, name CString, dest []byte) (int, error) {
	return 0, ENOTSUP
}

// Setxattr always fails with ENOTSUP.
func Setxattr(t Target, name CString, value []byte, flags XattrFlags) error {
	return ENOTSUP
}

// Listxattr always fails with ENOTSUP.
func Listxattr(t Target, dest []byte) (int, error) {
	return 0, ENOTSUP
}

// Removexattr always fails with ENOTSUP.
func Removexattr(t Target, name CString) error {
	return ENOTSUP
}
