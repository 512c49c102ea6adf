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

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	// ENODATA is returned when the attribute does not exist.
	ENODATA = unix.ENODATA

	XattrCreate  XattrFlags = unix.XATTR_CREATE
	XattrReplace XattrFlags = unix.XATTR_REPLACE
)

// _zero stands in for the address of an empty buffer. The kernel never
// dereferences it because the accompanying size is zero.
var _zero uintptr

func bufPtr(b []byte) unsafe.Pointer {
	if len(b) > 0 {
		return unsafe.Pointer(&b[0])
	}
	return unsafe.Pointer(&_zero)
}

// Getxattr reads the value of name into dest and returns its size. An empty
// dest asks the kernel for the size of the value without transferring it.
func Getxattr(t Target, name CString, dest []byte) (int, error) {
	p := bufPtr(dest)
	var (
		r0 uintptr
		e1 unix.Errno
	)
	switch t.kind {
	case byPath:
		r0, _, e1 = unix.Syscall6(unix.SYS_GETXATTR, uintptr(unsafe.Pointer(t.path.p)), uintptr(unsafe.Pointer(name.p)), uintptr(p), uintptr(len(dest)), 0, 0)
	case byPathNoFollow:
		r0, _, e1 = unix.Syscall6(unix.SYS_LGETXATTR, uintptr(unsafe.Pointer(t.path.p)), uintptr(unsafe.Pointer(name.p)), uintptr(p), uintptr(len(dest)), 0, 0)
	default:
		r0, _, e1 = unix.Syscall6(unix.SYS_FGETXATTR, uintptr(t.fd.fd), uintptr(unsafe.Pointer(name.p)), uintptr(p), uintptr(len(dest)), 0, 0)
	}
	if e1 != 0 {
		return 0, e1
	}
	return int(r0), nil
}

// Setxattr sets name to value.
func Setxattr(t Target, name CString, value []byte, flags XattrFlags) error {
	p := bufPtr(value)
	var e1 unix.Errno
	switch t.kind {
	case byPath:
		_, _, e1 = unix.Syscall6(unix.SYS_SETXATTR, uintptr(unsafe.Pointer(t.path.p)), uintptr(unsafe.Pointer(name.p)), uintptr(p), uintptr(len(value)), uintptr(flags), 0)
	case byPathNoFollow:
		_, _, e1 = unix.Syscall6(unix.SYS_LSETXATTR, uintptr(unsafe.Pointer(t.path.p)), uintptr(unsafe.Pointer(name.p)), uintptr(p), uintptr(len(value)), uintptr(flags), 0)
	default:
		_, _, e1 = unix.Syscall6(unix.SYS_FSETXATTR, uintptr(t.fd.fd), uintptr(unsafe.Pointer(name.p)), uintptr(p), uintptr(len(value)), uintptr(flags), 0)
	}
	if e1 != 0 {
		return e1
	}
	return nil
}

// Listxattr writes the NUL-terminated names of all attributes into dest and
// returns the total size. An empty dest only reports the size.
func Listxattr(t Target, dest []byte) (int, error) {
	p := bufPtr(dest)
	var (
		r0 uintptr
		e1 unix.Errno
	)
	switch t.kind {
	case byPath:
		r0, _, e1 = unix.Syscall(unix.SYS_LISTXATTR, uintptr(unsafe.Pointer(t.path.p)), uintptr(p), uintptr(len(dest)))
	case byPathNoFollow:
		r0, _, e1 = unix.Syscall(unix.SYS_LLISTXATTR, uintptr(unsafe.Pointer(t.path.p)), uintptr(p), uintptr(len(dest)))
	default:
		r0, _, e1 = unix.Syscall(unix.SYS_FLISTXATTR, uintptr(t.fd.fd), uintptr(p), uintptr(len(dest)))
	}
	if e1 != 0 {
		return 0, e1
	}
	return int(r0), nil
}

// Removexattr removes name.
func Removexattr(t Target, name CString) error {
	var e1 unix.Errno
	switch t.kind {
	case byPath:
		_, _, e1 = unix.Syscall(unix.SYS_REMOVEXATTR, uintptr(unsafe.Pointer(t.path.p)), uintptr(unsafe.Pointer(name.p)), 0)
	case byPathNoFollow:
		_, _, e1 = unix.Syscall(unix.SYS_LREMOVEXATTR, uintptr(unsafe.Pointer(t.path.p)), uintptr(unsafe.Pointer(name.p)), 0)
	default:
		_, _, e1 = unix.Syscall(unix.SYS_FREMOVEXATTR, uintptr(t.fd.fd), uintptr(unsafe.Pointer(name.p)), 0)
	}
	if e1 != 0 {
		return e1
	}
	return nil
}
