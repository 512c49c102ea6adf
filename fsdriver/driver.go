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

package fsdriver

import (
	"os"

	"github.com/containerd/xattrshim/conterrors"
)

type DriverType int

const (
	// Basic is a wrapper around the golang os package and the xattrshim
	// attribute calls.
	Basic DriverType = iota
)

// BasicDriver is exported as a global since it's just a wrapper around
// the os package and the attribute calls, so it has no internal state.
var BasicDriver Driver = &basicDriver{}

// Driver provides the file access the attribute tools need in a common
// interface. Callers should use it instead of the os package so that access
// to the filesystem stays in one place.
type Driver interface {
	Open(path string) (File, error)
	Lstat(path string) (os.FileInfo, error)
}

// Unfortunately, os.File is a struct instead of an interface, an interface
// has to be manually defined.
var _ File = &os.File{}

// File is an open file whose descriptor can carry attribute calls.
type File interface {
	Close() error
	Fd() uintptr
	Name() string
	Stat() (os.FileInfo, error)
}

func NewSystemDriver(driverType DriverType) (Driver, error) {
	switch driverType {
	case Basic:
		return BasicDriver, nil
	default:
		return nil, conterrors.ErrNotSupported
	}
}

// XAttrDriver should be implemented on operation systems and filesystems that
// have xattr support for regular files and directories.
type XAttrDriver interface {
	// Getxattr returns all of the extended attributes for the file at path.
	// Typically, this takes a syscall call to Listxattr and Getxattr.
	Getxattr(path string) (map[string][]byte, error)

	// Setxattr sets all of the extended attributes on file at path, following
	// any symbolic links, if necessary. All user attributes on the target are
	// replaced by the values from attr. If the operation fails to set any
	// attribute, those already applied will not be rolled back.
	Setxattr(path string, attr map[string][]byte) error
}

// LXAttrDriver should be implemented by drivers on operating systems and
// filesystems that support setting and getting extended attributes on
// symbolic links. If this is not implemented, extended attributes will be
// ignored on symbolic links.
type LXAttrDriver interface {
	// LGetxattr returns all of the extended attributes for the file at path
	// and does not follow symlinks. Typically, this takes a syscall call to
	// Llistxattr and Lgetxattr.
	LGetxattr(path string) (map[string][]byte, error)

	// LSetxattr sets all of the extended attributes on file at path, without
	// following symbolic links. All user attributes on the target are
	// replaced by the values from attr. If the operation fails to set any
	// attribute, those already applied will not be rolled back.
	LSetxattr(path string, attr map[string][]byte) error
}

// FXAttrDriver is implemented by drivers that can read and write the
// extended attributes of a file that is already open.
type FXAttrDriver interface {
	FGetxattr(f File) (map[string][]byte, error)
	FSetxattr(f File, attr map[string][]byte) error
}
