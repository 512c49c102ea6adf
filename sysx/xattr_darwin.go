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
	// ENODATA is returned when the attribute does not exist.
	ENODATA = unix.ENOATTR

	XattrCreate  XattrFlags = unix.XATTR_CREATE
	XattrReplace XattrFlags = unix.XATTR_REPLACE
)

// Darwin has no raw system call path for these in x/sys, so the borrowed
// strings are copied into Go strings for the libSystem wrappers.

// Getxattr reads the value of name into dest and returns its size. An empty
// dest asks for the size of the value without transferring it.
func Getxattr(t Target, name CString, dest []byte) (int, error) {
	switch t.kind {
	case byPath:
		return unix.Getxattr(t.path.String(), name.String(), dest)
	case byPathNoFollow:
		return unix.Lgetxattr(t.path.String(), name.String(), dest)
	}
	return unix.Fgetxattr(t.fd.fd, name.String(), dest)
}

// Setxattr sets name to value.
func Setxattr(t Target, name CString, value []byte, flags XattrFlags) error {
	switch t.kind {
	case byPath:
		return unix.Setxattr(t.path.String(), name.String(), value, int(flags))
	case byPathNoFollow:
		return unix.Lsetxattr(t.path.String(), name.String(), value, int(flags))
	}
	return unix.Fsetxattr(t.fd.fd, name.String(), value, int(flags))
}

// Listxattr writes the NUL-terminated names of all attributes into dest and
// returns the total size. An empty dest only reports the size.
func Listxattr(t Target, dest []byte) (int, error) {
	switch t.kind {
	case byPath:
		return unix.Listxattr(t.path.String(), dest)
	case byPathNoFollow:
		return unix.Llistxattr(t.path.String(), dest)
	}
	return unix.Flistxattr(t.fd.fd, dest)
}

// Removexattr removes name.
func Removexattr(t Target, name CString) error {
	switch t.kind {
	case byPath:
		return unix.Removexattr(t.path.String(), name.String())
	case byPathNoFollow:
		return unix.Lremovexattr(t.path.String(), name.String())
	}
	return unix.Fremovexattr(t.fd.fd, name.String())
}
