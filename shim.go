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

// Package xattrshim exposes the extended attribute calls of the C library
// (getxattr, lsetxattr, flistxattr, fremovexattr and the rest) over raw
// pointers and descriptors, and serves them through the typed calls in
// package sysx.
//
// Every entry point trusts its caller for what the C API leaves unchecked:
// pointers address at least the stated number of bytes, strings are
// NUL-terminated and descriptors stay open for the call. Within those bounds
// the shim never reads or writes caller memory beyond the stated length and
// never reads a destination buffer at all; data coming from the kernel is
// staged in a pooled transfer buffer and only the reported prefix is copied
// out.
package xattrshim

import (
	"os"

	"github.com/containerd/xattrshim/transfer"
	"github.com/sirupsen/logrus"
)

// Shim serves the raw extended attribute entry points. A Shim is safe for
// concurrent use; each call borrows its own transfer buffer.
type Shim struct {
	buffers *transfer.Pool
	errno   ErrnoRecorder
	log     *logrus.Entry
}

// Opt configures a Shim.
type Opt func(*Shim)

// WithErrnoRecorder sets where failed calls record their error number. The
// default records into a LastErrno.
func WithErrnoRecorder(r ErrnoRecorder) Opt {
	return func(s *Shim) {
		s.errno = r
	}
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(l *logrus.Entry) Opt {
	return func(s *Shim) {
		s.log = l
	}
}

// New returns a Shim for cfg. An invalid cfg is replaced field by field with
// DefaultConfig.
func New(cfg Config, opts ...Opt) *Shim {
	def := DefaultConfig()
	if cfg.BufferSize <= 0 || cfg.BufferSize > transfer.Capacity {
		cfg.BufferSize = def.BufferSize
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		cfg.LogLevel = def.LogLevel
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(cfg.level())

	s := &Shim{
		buffers: transfer.NewPool(cfg.BufferSize),
		errno:   &LastErrno{},
		log:     logrus.NewEntry(logger).WithField("module", "xattrshim"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewFromEnv returns a Shim configured from the environment, falling back to
// DefaultConfig when the environment is invalid.
func NewFromEnv(opts ...Opt) *Shim {
	cfg, err := LoadConfig()
	if err != nil {
		s := New(DefaultConfig(), opts...)
		s.log.WithError(err).Warn("invalid configuration, using defaults")
		return s
	}
	return New(cfg, opts...)
}

// BufferSize returns the capacity of the transfer buffers, the ceiling on
// what a single get or list call transfers.
func (s *Shim) BufferSize() int {
	return s.buffers.Capacity()
}
