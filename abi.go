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

package xattrshim

import (
	"syscall"
	"unsafe"

	"github.com/containerd/xattrshim/sysx"
)

// Getxattr implements getxattr(2). It copies at most size bytes of the value
// of name on path into value and returns the size reported by the kernel, or
// -1 with the error number recorded.
func (s *Shim) Getxattr(path, name, value unsafe.Pointer, size uintptr) int {
	return s.get("getxattr", pathTarget(path), name, value, size)
}

// Lgetxattr implements lgetxattr(2), like Getxattr without following a
// trailing symbolic link.
func (s *Shim) Lgetxattr(path, name, value unsafe.Pointer, size uintptr) int {
	return s.get("lgetxattr", noFollowTarget(path), name, value, size)
}

// Fgetxattr implements fgetxattr(2), like Getxattr on the open file fd.
func (s *Shim) Fgetxattr(fd int32, name, value unsafe.Pointer, size uintptr) int {
	return s.get("fgetxattr", fdTarget(fd), name, value, size)
}

// Setxattr implements setxattr(2). The size bytes at value become the value
// of name on path. It returns 0, or -1 with the error number recorded. Flags
// other than XATTR_CREATE and XATTR_REPLACE panic.
func (s *Shim) Setxattr(path, name, value unsafe.Pointer, size uintptr, flags int32) int32 {
	return s.set("setxattr", pathTarget(path), name, value, size, flags)
}

// Lsetxattr implements lsetxattr(2).
func (s *Shim) Lsetxattr(path, name, value unsafe.Pointer, size uintptr, flags int32) int32 {
	return s.set("lsetxattr", noFollowTarget(path), name, value, size, flags)
}

// Fsetxattr implements fsetxattr(2).
func (s *Shim) Fsetxattr(fd int32, name, value unsafe.Pointer, size uintptr, flags int32) int32 {
	return s.set("fsetxattr", fdTarget(fd), name, value, size, flags)
}

// Listxattr implements listxattr(2). It copies at most size bytes of the
// NUL-terminated attribute names of path into list and returns the size
// reported by the kernel, or -1 with the error number recorded.
func (s *Shim) Listxattr(path, list unsafe.Pointer, size uintptr) int {
	return s.list("listxattr", pathTarget(path), list, size)
}

// Llistxattr implements llistxattr(2).
func (s *Shim) Llistxattr(path, list unsafe.Pointer, size uintptr) int {
	return s.list("llistxattr", noFollowTarget(path), list, size)
}

// Flistxattr implements flistxattr(2).
func (s *Shim) Flistxattr(fd int32, list unsafe.Pointer, size uintptr) int {
	return s.list("flistxattr", fdTarget(fd), list, size)
}

// Removexattr implements removexattr(2). It returns 0, or -1 with the error
// number recorded.
func (s *Shim) Removexattr(path, name unsafe.Pointer) int32 {
	return s.remove("removexattr", pathTarget(path), name)
}

// Lremovexattr implements lremovexattr(2).
func (s *Shim) Lremovexattr(path, name unsafe.Pointer) int32 {
	return s.remove("lremovexattr", noFollowTarget(path), name)
}

// Fremovexattr implements fremovexattr(2).
func (s *Shim) Fremovexattr(fd int32, name unsafe.Pointer) int32 {
	return s.remove("fremovexattr", fdTarget(fd), name)
}

func (s *Shim) get(op string, t sysx.Target, name, value unsafe.Pointer, size uintptr) int {
	n := sysx.BorrowCString(name)
	return s.transfer(op, t, value, size, func(view []byte) (int, error) {
		return sysx.Getxattr(t, n, view)
	})
}

func (s *Shim) list(op string, t sysx.Target, list unsafe.Pointer, size uintptr) int {
	return s.transfer(op, t, list, size, func(view []byte) (int, error) {
		return sysx.Listxattr(t, view)
	})
}

// transfer runs call against a borrowed view of min(size, BufferSize) bytes
// and copies what the kernel reported writing to dest. A call whose request
// was clamped to the buffer reports what the kernel reports for the clamped
// request.
func (s *Shim) transfer(op string, t sysx.Target, dest unsafe.Pointer, size uintptr, call func([]byte) (int, error)) int {
	buf := s.buffers.Acquire(uint64(size))
	defer buf.Release()

	n, err := call(buf.View())
	if err != nil {
		return s.size(op, t, n, err)
	}
	// A size query (size == 0) reports n > 0 with an empty view, so nothing
	// is copied and dest may be nil.
	filled := buf.Filled(n)
	if dest == nil && len(filled) > 0 {
		return s.size(op, t, 0, syscall.EFAULT)
	}
	copyOut(dest, filled)
	return s.size(op, t, n, nil)
}

func (s *Shim) set(op string, t sysx.Target, name, value unsafe.Pointer, size uintptr, flags int32) int32 {
	f := s.flags(op, t, flags)
	if value == nil && size != 0 {
		return s.status(op, t, syscall.EFAULT)
	}
	return s.status(op, t, sysx.Setxattr(t, sysx.BorrowCString(name), rawBytes(value, size), f))
}

func (s *Shim) remove(op string, t sysx.Target, name unsafe.Pointer) int32 {
	return s.status(op, t, sysx.Removexattr(t, sysx.BorrowCString(name)))
}
