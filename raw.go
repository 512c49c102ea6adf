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
	"unsafe"

	"github.com/containerd/xattrshim/sysx"
	"github.com/sirupsen/logrus"
)

// rawBytes views the n bytes at p as a slice without copying them. The
// caller vouches that p addresses n initialized bytes; p is not touched when
// n is zero and may then be nil.
func rawBytes(p unsafe.Pointer, n uintptr) []byte {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(p), n)
}

// copyOut writes src to the memory at dst, which the caller vouches holds at
// least len(src) bytes. dst is only written, never read, and is not touched
// when src is empty.
func copyOut(dst unsafe.Pointer, src []byte) {
	if len(src) == 0 {
		return
	}
	copy(unsafe.Slice((*byte)(dst), len(src)), src)
}

func pathTarget(path unsafe.Pointer) sysx.Target {
	return sysx.PathTarget(sysx.BorrowCString(path))
}

func noFollowTarget(path unsafe.Pointer) sysx.Target {
	return sysx.NoFollowTarget(sysx.BorrowCString(path))
}

func fdTarget(fd int32) sysx.Target {
	return sysx.FdTarget(sysx.BorrowFd(int(fd)))
}

// flags parses raw setxattr flags. Bits outside XATTR_CREATE and
// XATTR_REPLACE are a caller bug, not a runtime condition, and panic.
func (s *Shim) flags(op string, t sysx.Target, raw int32) sysx.XattrFlags {
	f, ok := sysx.ParseXattrFlags(int(raw))
	if !ok {
		s.log.WithFields(logrus.Fields{
			"op":     op,
			"target": t.String(),
		}).Panicf("invalid xattr flags %#x", raw)
	}
	return f
}
