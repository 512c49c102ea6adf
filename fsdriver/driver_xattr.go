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
	"sort"
	"strings"

	"github.com/containerd/xattrshim"
	"github.com/containerd/xattrshim/conterrors"
	"github.com/containerd/xattrshim/sysx"
	"github.com/pkg/errors"
)

// userPrefix is the namespace Setxattr may clear. The others belong to the
// system and are left alone.
const userPrefix = "user."

type xattrOps struct {
	list   func() ([]string, error)
	get    func(name string) ([]byte, error)
	set    func(name string, value []byte) error
	remove func(name string) error
}

func pathOps(p string) xattrOps {
	return xattrOps{
		list: func() ([]string, error) { return xattrshim.Listxattr(p) },
		get:  func(name string) ([]byte, error) { return xattrshim.Getxattr(p, name) },
		set: func(name string, value []byte) error {
			return xattrshim.Setxattr(p, name, value, 0)
		},
		remove: func(name string) error { return xattrshim.Removexattr(p, name) },
	}
}

func linkOps(p string) xattrOps {
	return xattrOps{
		list: func() ([]string, error) { return xattrshim.LListxattr(p) },
		get:  func(name string) ([]byte, error) { return xattrshim.LGetxattr(p, name) },
		set: func(name string, value []byte) error {
			return xattrshim.LSetxattr(p, name, value, 0)
		},
		remove: func(name string) error { return xattrshim.LRemovexattr(p, name) },
	}
}

func fileOps(f File) xattrOps {
	fd := f.Fd()
	return xattrOps{
		list: func() ([]string, error) { return xattrshim.FListxattr(fd) },
		get:  func(name string) ([]byte, error) { return xattrshim.FGetxattr(fd, name) },
		set: func(name string, value []byte) error {
			return xattrshim.FSetxattr(fd, name, value, 0)
		},
		remove: func(name string) error { return xattrshim.FRemovexattr(fd, name) },
	}
}

// Getxattr returns all of the extended attributes for the file at path p.
func (d *basicDriver) Getxattr(p string) (map[string][]byte, error) {
	return getxattrs(p, pathOps(p))
}

// Setxattr sets all of the extended attributes on file at path, following
// any symbolic links, if necessary. All user attributes on the target are
// replaced by the values from attr. If the operation fails to set any
// attribute, those already applied will not be rolled back.
func (d *basicDriver) Setxattr(p string, attr map[string][]byte) error {
	return setxattrs(p, attr, pathOps(p))
}

// LGetxattr returns all of the extended attributes for the file at path p
// not following symbolic links.
func (d *basicDriver) LGetxattr(p string) (map[string][]byte, error) {
	return getxattrs(p, linkOps(p))
}

func (d *basicDriver) LSetxattr(p string, attr map[string][]byte) error {
	return setxattrs(p, attr, linkOps(p))
}

// FGetxattr returns all of the extended attributes of the open file f.
func (d *basicDriver) FGetxattr(f File) (map[string][]byte, error) {
	return getxattrs(f.Name(), fileOps(f))
}

func (d *basicDriver) FSetxattr(f File, attr map[string][]byte) error {
	return setxattrs(f.Name(), attr, fileOps(f))
}

func getxattrs(p string, ops xattrOps) (map[string][]byte, error) {
	xattrs, err := ops.list()
	if err != nil {
		if errors.Is(err, sysx.ENOTSUP) {
			return nil, errors.Wrapf(conterrors.ErrNotSupported, "listing %s xattrs", p)
		}
		return nil, errors.Wrapf(err, "listing %s xattrs", p)
	}

	sort.Strings(xattrs)
	m := make(map[string][]byte, len(xattrs))

	for _, attr := range xattrs {
		value, err := ops.get(attr)
		if err != nil {
			// removed since it was listed
			if errors.Is(err, sysx.ENODATA) {
				continue
			}
			return nil, errors.Wrapf(err, "getting %q xattr on %s", attr, p)
		}

		// NOTE(stevvooe): This append/copy tricky relies on unique
		// xattrs. Break this out into an alloc/copy if xattrs are no
		// longer unique.
		m[attr] = append(m[attr], value...)
	}

	return m, nil
}

func setxattrs(p string, attr map[string][]byte, ops xattrOps) error {
	existing, err := ops.list()
	if err != nil {
		if errors.Is(err, sysx.ENOTSUP) {
			return errors.Wrapf(conterrors.ErrNotSupported, "listing %s xattrs", p)
		}
		return errors.Wrapf(err, "listing %s xattrs", p)
	}

	for _, name := range existing {
		if _, ok := attr[name]; ok || !strings.HasPrefix(name, userPrefix) {
			continue
		}
		if err := ops.remove(name); err != nil && !errors.Is(err, sysx.ENODATA) {
			return errors.Wrapf(err, "removing %q xattr on %s", name, p)
		}
	}

	names := make([]string, 0, len(attr))
	for name := range attr {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := ops.set(name, attr[name]); err != nil {
			return errors.Wrapf(err, "setting %q xattr on %s", name, p)
		}
	}
	return nil
}
