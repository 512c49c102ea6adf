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

// Package sysx provides the extended attribute system calls in a typed,
// borrowed form: names and paths are NUL-terminated byte strings that are
// never copied, descriptors are never duplicated or closed, and every
// operation issues exactly one system call.
package sysx

import (
	"strconv"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	// ENOTSUP is returned where extended attributes are not supported.
	ENOTSUP = unix.ENOTSUP

	// ERANGE is returned when the destination is too small for the value.
	ERANGE = unix.ERANGE
)

// CString is a borrowed, NUL-terminated byte string. The zero value is a nil
// string, which the kernel reports as EFAULT.
type CString struct {
	p *byte
}

// NewCString returns s as a NUL-terminated string. It fails with EINVAL if s
// contains a NUL byte.
func NewCString(s string) (CString, error) {
	p, err := unix.BytePtrFromString(s)
	if err != nil {
		return CString{}, err
	}
	return CString{p: p}, nil
}

// BorrowCString wraps a NUL-terminated string owned by the caller. The
// memory is neither copied nor validated and must outlive every use of the
// returned value.
func BorrowCString(p unsafe.Pointer) CString {
	return CString{p: (*byte)(p)}
}

// Ptr returns the address of the first byte.
func (c CString) Ptr() *byte {
	return c.p
}

// String copies the bytes up to the terminating NUL.
func (c CString) String() string {
	if c.p == nil {
		return ""
	}
	return unix.BytePtrToString(c.p)
}

// Fd is a non-owning view of an open file descriptor.
type Fd struct {
	fd int
}

// BorrowFd wraps fd. The descriptor is not validated, duplicated or closed;
// it must stay open while the returned Fd is in use.
func BorrowFd(fd int) Fd {
	return Fd{fd: fd}
}

// Raw returns the wrapped descriptor.
func (f Fd) Raw() int {
	return f.fd
}

// XattrFlags controls whether Setxattr may create or replace an attribute.
// The zero value allows both.
type XattrFlags int

// ParseXattrFlags converts raw flags as passed to setxattr(2). It reports
// false if raw carries any bit other than XattrCreate and XattrReplace.
func ParseXattrFlags(raw int) (XattrFlags, bool) {
	if raw < 0 || raw&^int(XattrCreate|XattrReplace) != 0 {
		return 0, false
	}
	return XattrFlags(raw), true
}

func (f XattrFlags) String() string {
	switch f {
	case 0:
		return "any"
	case XattrCreate:
		return "create"
	case XattrReplace:
		return "replace"
	case XattrCreate | XattrReplace:
		return "create|replace"
	}
	return "XattrFlags(" + strconv.Itoa(int(f)) + ")"
}

type targetKind int

const (
	byPath targetKind = iota
	byPathNoFollow
	byFd
)

// Target selects how the file carrying the attributes is resolved.
type Target struct {
	kind targetKind
	path CString
	fd   Fd
}

// PathTarget resolves path, following a trailing symbolic link.
func PathTarget(path CString) Target {
	return Target{kind: byPath, path: path}
}

// NoFollowTarget resolves path without following a trailing symbolic link,
// so the attributes of the link itself are used.
func NoFollowTarget(path CString) Target {
	return Target{kind: byPathNoFollow, path: path}
}

// FdTarget uses the file already open on fd.
func FdTarget(fd Fd) Target {
	return Target{kind: byFd, fd: fd}
}

func (t Target) String() string {
	switch t.kind {
	case byPathNoFollow:
		return "nofollow:" + t.path.String()
	case byFd:
		return "fd:" + strconv.Itoa(t.fd.fd)
	}
	return t.path.String()
}
