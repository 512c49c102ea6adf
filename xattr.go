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
	"bytes"

	"github.com/containerd/xattrshim/sysx"
	"github.com/containerd/xattrshim/transfer"
)

// scratch stages the first attempt of every Go-native read so that values
// fitting in a transfer buffer cost a single system call.
var scratch = transfer.NewPool(transfer.Capacity)

// XattrError records a failed extended attribute operation and the path and
// name it was applied to.
type XattrError struct {
	Op   string
	Path string
	Name string
	Err  error
}

func (e *XattrError) Error() string {
	if e.Name == "" {
		return e.Op + " " + e.Path + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Path + " " + e.Name + ": " + e.Err.Error()
}

// Unwrap returns the underlying error, usually a syscall.Errno.
func (e *XattrError) Unwrap() error { return e.Err }

// Cause returns the underlying error for errors.Cause.
func (e *XattrError) Cause() error { return e.Err }

// Getxattr returns the value of the extended attribute name on path,
// following symbolic links.
func Getxattr(path, name string) ([]byte, error) {
	return getxattrAll("getxattr", path, name, pathArg(path, sysx.PathTarget))
}

// LGetxattr returns the value of the extended attribute name on path, not
// following a trailing symbolic link.
func LGetxattr(path, name string) ([]byte, error) {
	return getxattrAll("lgetxattr", path, name, pathArg(path, sysx.NoFollowTarget))
}

// FGetxattr returns the value of the extended attribute name on the open
// file fd.
func FGetxattr(fd uintptr, name string) ([]byte, error) {
	return getxattrAll("fgetxattr", fdName(fd), name, fdArg(fd))
}

// Listxattr returns the names of the extended attributes on path, following
// symbolic links.
func Listxattr(path string) ([]string, error) {
	return listxattrAll("listxattr", path, pathArg(path, sysx.PathTarget))
}

// LListxattr returns the names of the extended attributes on path, not
// following a trailing symbolic link.
func LListxattr(path string) ([]string, error) {
	return listxattrAll("llistxattr", path, pathArg(path, sysx.NoFollowTarget))
}

// FListxattr returns the names of the extended attributes on the open file
// fd.
func FListxattr(fd uintptr) ([]string, error) {
	return listxattrAll("flistxattr", fdName(fd), fdArg(fd))
}

// Setxattr sets name to data on path, creating or replacing it as needed.
func Setxattr(path, name string, data []byte, flags sysx.XattrFlags) error {
	return setxattr("setxattr", path, name, data, flags, pathArg(path, sysx.PathTarget))
}

// LSetxattr is Setxattr without following a trailing symbolic link.
func LSetxattr(path, name string, data []byte, flags sysx.XattrFlags) error {
	return setxattr("lsetxattr", path, name, data, flags, pathArg(path, sysx.NoFollowTarget))
}

// FSetxattr is Setxattr on the open file fd.
func FSetxattr(fd uintptr, name string, data []byte, flags sysx.XattrFlags) error {
	return setxattr("fsetxattr", fdName(fd), name, data, flags, fdArg(fd))
}

// Removexattr removes name from path.
func Removexattr(path, name string) error {
	return removexattr("removexattr", path, name, pathArg(path, sysx.PathTarget))
}

// LRemovexattr is Removexattr without following a trailing symbolic link.
func LRemovexattr(path, name string) error {
	return removexattr("lremovexattr", path, name, pathArg(path, sysx.NoFollowTarget))
}

// FRemovexattr is Removexattr on the open file fd.
func FRemovexattr(fd uintptr, name string) error {
	return removexattr("fremovexattr", fdName(fd), name, fdArg(fd))
}

type targetFunc func() (sysx.Target, error)

func pathArg(path string, target func(sysx.CString) sysx.Target) targetFunc {
	return func() (sysx.Target, error) {
		p, err := sysx.NewCString(path)
		if err != nil {
			return sysx.Target{}, err
		}
		return target(p), nil
	}
}

func fdArg(fd uintptr) targetFunc {
	return func() (sysx.Target, error) {
		return sysx.FdTarget(sysx.BorrowFd(int(fd))), nil
	}
}

func fdName(fd uintptr) string {
	return sysx.FdTarget(sysx.BorrowFd(int(fd))).String()
}

func getxattrAll(op, path, name string, target targetFunc) ([]byte, error) {
	wrap := func(err error) error {
		return &XattrError{Op: op, Path: path, Name: name, Err: err}
	}
	t, err := target()
	if err != nil {
		return nil, wrap(err)
	}
	n, err := sysx.NewCString(name)
	if err != nil {
		return nil, wrap(err)
	}

	buf := scratch.Acquire(transfer.Capacity)
	defer buf.Release()
	sz, err := sysx.Getxattr(t, n, buf.View())
	if err == nil {
		return append([]byte(nil), buf.Filled(sz)...), nil
	}

	// The value outgrew the scratch buffer; size it and retry until it
	// stops changing underneath us.
	for err == sysx.ERANGE {
		sz, err = sysx.Getxattr(t, n, nil)
		if err != nil {
			break
		}
		p := make([]byte, sz)
		sz, err = sysx.Getxattr(t, n, p)
		if err == nil {
			return p[:sz], nil
		}
	}
	return nil, wrap(err)
}

func listxattrAll(op, path string, target targetFunc) ([]string, error) {
	wrap := func(err error) error {
		return &XattrError{Op: op, Path: path, Err: err}
	}
	t, err := target()
	if err != nil {
		return nil, wrap(err)
	}

	buf := scratch.Acquire(transfer.Capacity)
	defer buf.Release()
	sz, err := sysx.Listxattr(t, buf.View())
	if err == nil {
		return splitNames(buf.Filled(sz)), nil
	}
	for err == sysx.ERANGE {
		sz, err = sysx.Listxattr(t, nil)
		if err != nil {
			break
		}
		p := make([]byte, sz)
		sz, err = sysx.Listxattr(t, p)
		if err == nil {
			return splitNames(p[:sz]), nil
		}
	}
	return nil, wrap(err)
}

// splitNames splits a NUL-terminated name list, dropping empty entries.
func splitNames(p []byte) []string {
	var entries []string
	for _, b := range bytes.Split(bytes.TrimSuffix(p, []byte{0}), []byte{0}) {
		if len(b) > 0 {
			entries = append(entries, string(b))
		}
	}
	return entries
}

func setxattr(op, path, name string, data []byte, flags sysx.XattrFlags, target targetFunc) error {
	t, err := target()
	if err == nil {
		var n sysx.CString
		if n, err = sysx.NewCString(name); err == nil {
			err = sysx.Setxattr(t, n, data, flags)
		}
	}
	if err != nil {
		return &XattrError{Op: op, Path: path, Name: name, Err: err}
	}
	return nil
}

func removexattr(op, path, name string, target targetFunc) error {
	t, err := target()
	if err == nil {
		var n sysx.CString
		if n, err = sysx.NewCString(name); err == nil {
			err = sysx.Removexattr(t, n)
		}
	}
	if err != nil {
		return &XattrError{Op: op, Path: path, Name: name, Err: err}
	}
	return nil
}
