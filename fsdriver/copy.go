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
	"github.com/containerd/xattrshim"
	"github.com/containerd/xattrshim/sysx"
	"github.com/pkg/errors"
)

// XAttrErrorHandler transforms a non-nil xattr error.
// Return nil to ignore an error.
// xattrKey can be empty for listxattr operation.
type XAttrErrorHandler func(dst, src, xattrKey string, err error) error

type copyXAttrsOpts struct {
	excludes     map[string]struct{}
	errorHandler XAttrErrorHandler
}

// CopyOpt configures CopyXAttrs.
type CopyOpt func(*copyXAttrsOpts)

// WithXAttrExclude allows for exclusion of specified xattr during CopyXAttrs.
func WithXAttrExclude(keys ...string) CopyOpt {
	return func(o *copyXAttrsOpts) {
		if o.excludes == nil {
			o.excludes = make(map[string]struct{}, len(keys))
		}
		for _, key := range keys {
			o.excludes[key] = struct{}{}
		}
	}
}

// WithXAttrErrorHandler allows specifying XAttrErrorHandler.
func WithXAttrErrorHandler(h XAttrErrorHandler) CopyOpt {
	return func(o *copyXAttrsOpts) {
		o.errorHandler = h
	}
}

// CopyXAttrs copies the extended attributes of src to dst without following
// symbolic links. Sources on filesystems without xattr support copy nothing.
func CopyXAttrs(dst, src string, opts ...CopyOpt) error {
	var o copyXAttrsOpts
	for _, opt := range opts {
		opt(&o)
	}
	handle := func(key string, err error) error {
		if o.errorHandler != nil {
			return o.errorHandler(dst, src, key, err)
		}
		return err
	}

	xattrKeys, err := xattrshim.LListxattr(src)
	if err != nil {
		if errors.Is(err, sysx.ENOTSUP) {
			return nil
		}
		return handle("", errors.Wrapf(err, "failed to list xattrs on %s", src))
	}
	for _, xattr := range xattrKeys {
		if _, skip := o.excludes[xattr]; skip {
			continue
		}
		data, err := xattrshim.LGetxattr(src, xattr)
		if err != nil {
			if err := handle(xattr, errors.Wrapf(err, "failed to get xattr %q on %s", xattr, src)); err != nil {
				return err
			}
			continue
		}
		if err := xattrshim.LSetxattr(dst, xattr, data, 0); err != nil {
			if err := handle(xattr, errors.Wrapf(err, "failed to set xattr %q on %s", xattr, dst)); err != nil {
				return err
			}
			continue
		}
	}
	return nil
}
