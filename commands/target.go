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

package commands

import (
	"unsafe"

	"github.com/containerd/xattrshim/conterrors"
	"github.com/containerd/xattrshim/fsdriver"
	"github.com/containerd/xattrshim/sysx"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// target issues raw attribute calls against one file, picking the path,
// no-follow or descriptor entry point from the global flags. The buffers
// are Go memory, but they travel exactly the way a C caller's would.
type target struct {
	path  string
	cpath *byte
	file  fsdriver.File
}

func openTarget(path string) (*target, error) {
	cpath, err := unix.BytePtrFromString(path)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid path %q", path)
	}
	t := &target{path: path, cpath: cpath}
	if mainCmdConfig.fd {
		f, err := fsdriver.BasicDriver.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open %s", path)
		}
		t.file = f
	}
	return t, nil
}

func (t *target) Close() error {
	if t.file != nil {
		return t.file.Close()
	}
	return nil
}

func ptr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}

func cname(name string) (unsafe.Pointer, error) {
	p, err := unix.BytePtrFromString(name)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid attribute name %q", name)
	}
	return unsafe.Pointer(p), nil
}

func (t *target) fd() int32 {
	return int32(t.file.Fd())
}

func (t *target) get(name unsafe.Pointer, dst []byte) int {
	switch {
	case t.file != nil:
		return shim.Fgetxattr(t.fd(), name, ptr(dst), uintptr(len(dst)))
	case mainCmdConfig.noFollow:
		return shim.Lgetxattr(unsafe.Pointer(t.cpath), name, ptr(dst), uintptr(len(dst)))
	}
	return shim.Getxattr(unsafe.Pointer(t.cpath), name, ptr(dst), uintptr(len(dst)))
}

func (t *target) set(name unsafe.Pointer, value []byte, flags sysx.XattrFlags) int32 {
	switch {
	case t.file != nil:
		return shim.Fsetxattr(t.fd(), name, ptr(value), uintptr(len(value)), int32(flags))
	case mainCmdConfig.noFollow:
		return shim.Lsetxattr(unsafe.Pointer(t.cpath), name, ptr(value), uintptr(len(value)), int32(flags))
	}
	return shim.Setxattr(unsafe.Pointer(t.cpath), name, ptr(value), uintptr(len(value)), int32(flags))
}

func (t *target) list(dst []byte) int {
	switch {
	case t.file != nil:
		return shim.Flistxattr(t.fd(), ptr(dst), uintptr(len(dst)))
	case mainCmdConfig.noFollow:
		return shim.Llistxattr(unsafe.Pointer(t.cpath), ptr(dst), uintptr(len(dst)))
	}
	return shim.Listxattr(unsafe.Pointer(t.cpath), ptr(dst), uintptr(len(dst)))
}

func (t *target) remove(name unsafe.Pointer) int32 {
	switch {
	case t.file != nil:
		return shim.Fremovexattr(t.fd(), name)
	case mainCmdConfig.noFollow:
		return shim.Lremovexattr(unsafe.Pointer(t.cpath), name)
	}
	return shim.Removexattr(unsafe.Pointer(t.cpath), name)
}

// callError turns the recorded errno of a failed call into an error.
func (t *target) callError(op, name string) error {
	e := errno.Errno()
	if e == sysx.ENODATA {
		return errors.Wrapf(conterrors.ErrNotFound, "%s %s %s", op, t.path, name)
	}
	if name == "" {
		return errors.Wrapf(e, "%s %s", op, t.path)
	}
	return errors.Wrapf(e, "%s %s %s", op, t.path, name)
}

// read runs a size query followed by a transfer, the way C callers use the
// get and list calls, retrying if the data grows in between.
func (t *target) read(op, name string, call func([]byte) int) ([]byte, error) {
	for {
		n := call(nil)
		if n < 0 {
			return nil, t.callError(op, name)
		}
		if n > shim.BufferSize() {
			return nil, errors.Errorf("%s %s %s: %d bytes exceed the %d byte transfer buffer", op, t.path, name, n, shim.BufferSize())
		}
		if n == 0 {
			return nil, nil
		}
		p := make([]byte, n)
		n = call(p)
		if n >= 0 {
			return p[:n], nil
		}
		if errno.Errno() != sysx.ERANGE {
			return nil, t.callError(op, name)
		}
	}
}

func (t *target) value(name string) ([]byte, error) {
	cn, err := cname(name)
	if err != nil {
		return nil, err
	}
	return t.read("getxattr", name, func(p []byte) int {
		return t.get(cn, p)
	})
}

func (t *target) names() ([]string, error) {
	p, err := t.read("listxattr", "", t.list)
	if err != nil {
		return nil, err
	}
	var names []string
	start := 0
	for i, b := range p {
		if b == 0 {
			if i > start {
				names = append(names, string(p[start:i]))
			}
			start = i + 1
		}
	}
	return names, nil
}
