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

// Package main builds the xattr shim as a C library exporting getxattr,
// setxattr, listxattr, removexattr and their l- and f-prefixed variants with
// the C library's signatures and return conventions.
//
// Build a shared library like this:
//
//	go build -buildmode=c-shared -o libxattrshim.so github.com/containerd/xattrshim/cmd/libxattrshim
//
// Build a static library like this:
//
//	go build -buildmode=c-archive -o libxattrshim.a github.com/containerd/xattrshim/cmd/libxattrshim
//
// Both commands also generate libxattrshim.h. Failed calls return -1 and
// set errno. The transfer buffer size and log level are read from
// XATTRSHIM_BUFFER_SIZE and XATTRSHIM_LOG_LEVEL on the first call.
package main

/*
#include <sys/types.h>
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/containerd/xattrshim"
)

var (
	shimOnce sync.Once
	shim     *xattrshim.Shim
)

func defaultShim() *xattrshim.Shim {
	shimOnce.Do(func() {
		shim = xattrshim.NewFromEnv(xattrshim.WithErrnoRecorder(xattrshim.ErrnoFunc(setErrno)))
	})
	return shim
}

//export getxattr
func getxattr(path, name *C.char, value unsafe.Pointer, size C.size_t) C.ssize_t {
	return C.ssize_t(defaultShim().Getxattr(unsafe.Pointer(path), unsafe.Pointer(name), value, uintptr(size)))
}

//export lgetxattr
func lgetxattr(path, name *C.char, value unsafe.Pointer, size C.size_t) C.ssize_t {
	return C.ssize_t(defaultShim().Lgetxattr(unsafe.Pointer(path), unsafe.Pointer(name), value, uintptr(size)))
}

//export fgetxattr
func fgetxattr(fd C.int, name *C.char, value unsafe.Pointer, size C.size_t) C.ssize_t {
	return C.ssize_t(defaultShim().Fgetxattr(int32(fd), unsafe.Pointer(name), value, uintptr(size)))
}

//export setxattr
func setxattr(path, name *C.char, value unsafe.Pointer, size C.size_t, flags C.int) C.int {
	return C.int(defaultShim().Setxattr(unsafe.Pointer(path), unsafe.Pointer(name), value, uintptr(size), int32(flags)))
}

//export lsetxattr
func lsetxattr(path, name *C.char, value unsafe.Pointer, size C.size_t, flags C.int) C.int {
	return C.int(defaultShim().Lsetxattr(unsafe.Pointer(path), unsafe.Pointer(name), value, uintptr(size), int32(flags)))
}

//export fsetxattr
func fsetxattr(fd C.int, name *C.char, value unsafe.Pointer, size C.size_t, flags C.int) C.int {
	return C.int(defaultShim().Fsetxattr(int32(fd), unsafe.Pointer(name), value, uintptr(size), int32(flags)))
}

//export listxattr
func listxattr(path, list *C.char, size C.size_t) C.ssize_t {
	return C.ssize_t(defaultShim().Listxattr(unsafe.Pointer(path), unsafe.Pointer(list), uintptr(size)))
}

//export llistxattr
func llistxattr(path, list *C.char, size C.size_t) C.ssize_t {
	return C.ssize_t(defaultShim().Llistxattr(unsafe.Pointer(path), unsafe.Pointer(list), uintptr(size)))
}

//export flistxattr
func flistxattr(fd C.int, list *C.char, size C.size_t) C.ssize_t {
	return C.ssize_t(defaultShim().Flistxattr(int32(fd), unsafe.Pointer(list), uintptr(size)))
}

//export removexattr
func removexattr(path, name *C.char) C.int {
	return C.int(defaultShim().Removexattr(unsafe.Pointer(path), unsafe.Pointer(name)))
}

//export lremovexattr
func lremovexattr(path, name *C.char) C.int {
	return C.int(defaultShim().Lremovexattr(unsafe.Pointer(path), unsafe.Pointer(name)))
}

//export fremovexattr
func fremovexattr(fd C.int, name *C.char) C.int {
	return C.int(defaultShim().Fremovexattr(int32(fd), unsafe.Pointer(name)))
}

func main() {}
