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
	"sync/atomic"
	"syscall"

	"github.com/containerd/xattrshim/sysx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrnoRecorder stores the error number of a failed call where the caller
// expects it, errno for C callers.
type ErrnoRecorder interface {
	SetErrno(syscall.Errno)
}

// ErrnoFunc adapts a function to ErrnoRecorder.
type ErrnoFunc func(syscall.Errno)

// SetErrno calls f(e).
func (f ErrnoFunc) SetErrno(e syscall.Errno) {
	f(e)
}

// LastErrno keeps the most recently recorded error number.
type LastErrno struct {
	v atomic.Uintptr
}

// SetErrno records e.
func (l *LastErrno) SetErrno(e syscall.Errno) {
	l.v.Store(uintptr(e))
}

// Errno returns the last recorded error number, or zero.
func (l *LastErrno) Errno() syscall.Errno {
	return syscall.Errno(l.v.Load())
}

// Reset clears the recorded error number.
func (l *LastErrno) Reset() {
	l.v.Store(0)
}

// errnoOf extracts the error number carried by err. Errors without one
// report EIO.
func errnoOf(err error) syscall.Errno {
	var errno syscall.Errno
	if errors.As(err, &errno) && errno != 0 {
		return errno
	}
	return syscall.EIO
}

// size translates the outcome of a get or list call: n on success, -1 with
// the error number recorded on failure.
func (s *Shim) size(op string, t sysx.Target, n int, err error) int {
	if err != nil {
		return s.fail(op, t, err)
	}
	s.trace(op, t, n, nil)
	return n
}

// status translates the outcome of a set or remove call: 0 on success, -1
// with the error number recorded on failure.
func (s *Shim) status(op string, t sysx.Target, err error) int32 {
	if err != nil {
		return int32(s.fail(op, t, err))
	}
	s.trace(op, t, 0, nil)
	return 0
}

func (s *Shim) fail(op string, t sysx.Target, err error) int {
	s.errno.SetErrno(errnoOf(err))
	s.trace(op, t, -1, err)
	return -1
}

// trace logs one call at debug level. The target is only rendered when debug
// logging is on, since that copies the path.
func (s *Shim) trace(op string, t sysx.Target, n int, err error) {
	if !s.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	e := s.log.WithFields(logrus.Fields{
		"op":     op,
		"target": t.String(),
	})
	if err != nil {
		e.WithError(err).Debug("xattr call failed")
		return
	}
	e.WithField("size", n).Debug("xattr call")
}
