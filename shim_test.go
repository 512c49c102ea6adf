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
	"fmt"
	"io"
	"os"
	"syscall"
	"testing"
	"unsafe"

	"github.com/containerd/xattrshim/sysx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

// cstr returns a NUL-terminated copy of s as a C caller would pass it.
func cstr(t *testing.T, s string) unsafe.Pointer {
	t.Helper()
	p, err := unix.BytePtrFromString(s)
	assert.NilError(t, err)
	return unsafe.Pointer(p)
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newTestShim(t *testing.T, cfg Config) (*Shim, *LastErrno) {
	t.Helper()
	rec := &LastErrno{}
	return New(cfg, WithErrnoRecorder(rec), WithLogger(quietLogger())), rec
}

func TestNewFallsBackToDefaults(t *testing.T) {
	s := New(Config{BufferSize: -1, LogLevel: "loud"})
	assert.Equal(t, s.BufferSize(), DefaultConfig().BufferSize)
	assert.Equal(t, s.log.Logger.GetLevel(), logrus.WarnLevel)

	s = New(Config{BufferSize: 32, LogLevel: "debug"})
	assert.Equal(t, s.BufferSize(), 32)
	assert.Equal(t, s.log.Logger.GetLevel(), logrus.DebugLevel)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("XATTRSHIM_BUFFER_SIZE", "")
	t.Setenv("XATTRSHIM_LOG_LEVEL", "")
	os.Unsetenv("XATTRSHIM_BUFFER_SIZE")
	os.Unsetenv("XATTRSHIM_LOG_LEVEL")

	c, err := LoadConfig()
	assert.NilError(t, err)
	assert.DeepEqual(t, c, DefaultConfig())

	t.Setenv("XATTRSHIM_BUFFER_SIZE", "128")
	t.Setenv("XATTRSHIM_LOG_LEVEL", "debug")
	c, err = LoadConfig()
	assert.NilError(t, err)
	assert.Equal(t, c.BufferSize, 128)
	assert.Equal(t, c.LogLevel, "debug")
	assert.Equal(t, NewFromEnv(WithLogger(quietLogger())).BufferSize(), 128)

	t.Setenv("XATTRSHIM_BUFFER_SIZE", "0")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "buffer size must be within")
	assert.Equal(t, NewFromEnv(WithLogger(quietLogger())).BufferSize(), DefaultConfig().BufferSize)

	t.Setenv("XATTRSHIM_BUFFER_SIZE", "65537")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "buffer size must be within")

	t.Setenv("XATTRSHIM_BUFFER_SIZE", "many")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "failed to process environment")

	t.Setenv("XATTRSHIM_BUFFER_SIZE", "64")
	t.Setenv("XATTRSHIM_LOG_LEVEL", "chatty")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "invalid log level")
}

func TestErrnoOf(t *testing.T) {
	assert.Equal(t, errnoOf(syscall.ENOENT), syscall.ENOENT)
	assert.Equal(t, errnoOf(errors.Wrap(syscall.EACCES, "wrapped")), syscall.EACCES)
	assert.Equal(t, errnoOf(&XattrError{Op: "getxattr", Err: sysx.ENODATA}), sysx.ENODATA)
	assert.Equal(t, errnoOf(errors.New("opaque")), syscall.EIO)
	assert.Equal(t, errnoOf(syscall.Errno(0)), syscall.EIO)
}

func TestLastErrno(t *testing.T) {
	var l LastErrno
	assert.Equal(t, l.Errno(), syscall.Errno(0))
	l.SetErrno(syscall.ERANGE)
	assert.Equal(t, l.Errno(), syscall.ERANGE)
	l.Reset()
	assert.Equal(t, l.Errno(), syscall.Errno(0))

	var got syscall.Errno
	ErrnoFunc(func(e syscall.Errno) { got = e }).SetErrno(syscall.E2BIG)
	assert.Equal(t, got, syscall.E2BIG)
}

func TestRawBytes(t *testing.T) {
	assert.Check(t, is.Len(rawBytes(nil, 0), 0))

	src := []byte("hello")
	v := rawBytes(unsafe.Pointer(&src[0]), 3)
	assert.Equal(t, string(v), "hel")
	assert.Equal(t, &v[0], &src[0])
}

func TestCopyOutWritesOnlyLen(t *testing.T) {
	dst := []byte("........")
	copyOut(unsafe.Pointer(&dst[0]), []byte("abc"))
	assert.Equal(t, string(dst), "abc.....")

	// an empty source never touches the destination
	copyOut(nil, nil)
}

func TestInvalidFlagsPanic(t *testing.T) {
	s, rec := newTestShim(t, DefaultConfig())
	value := []byte("v")
	defer func() {
		r := recover()
		assert.Assert(t, r != nil, "expected a panic for invalid flags")
		msg := fmt.Sprint(r)
		if entry, ok := r.(*logrus.Entry); ok {
			msg = entry.Message
		}
		assert.Check(t, is.Contains(msg, "invalid xattr flags 0x40"))
		assert.Equal(t, rec.Errno(), syscall.Errno(0))
	}()
	s.Setxattr(cstr(t, "/nonexistent"), cstr(t, "user.x"), unsafe.Pointer(&value[0]), 1, 0x40)
}

func TestMissingTarget(t *testing.T) {
	s, rec := newTestShim(t, DefaultConfig())
	missing := cstr(t, "/nonexistent/xattrshim")
	name := cstr(t, "user.x")

	for _, tc := range []struct {
		op   string
		call func() int
	}{
		{"getxattr", func() int { return s.Getxattr(missing, name, nil, 0) }},
		{"lgetxattr", func() int { return s.Lgetxattr(missing, name, nil, 0) }},
		{"listxattr", func() int { return s.Listxattr(missing, nil, 0) }},
		{"llistxattr", func() int { return s.Llistxattr(missing, nil, 0) }},
		{"setxattr", func() int { return int(s.Setxattr(missing, name, nil, 0, 0)) }},
		{"lsetxattr", func() int { return int(s.Lsetxattr(missing, name, nil, 0, 0)) }},
		{"removexattr", func() int { return int(s.Removexattr(missing, name)) }},
		{"lremovexattr", func() int { return int(s.Lremovexattr(missing, name)) }},
	} {
		rec.Reset()
		assert.Equal(t, tc.call(), -1, tc.op)
		assert.Check(t, rec.Errno() == syscall.ENOENT || rec.Errno() == sysx.ENOTSUP, "%s: errno %v", tc.op, rec.Errno())
	}
}

func TestBadDescriptor(t *testing.T) {
	s, rec := newTestShim(t, DefaultConfig())
	name := cstr(t, "user.x")

	for _, tc := range []struct {
		op   string
		call func() int
	}{
		{"fgetxattr", func() int { return s.Fgetxattr(-1, name, nil, 0) }},
		{"flistxattr", func() int { return s.Flistxattr(-1, nil, 0) }},
		{"fsetxattr", func() int { return int(s.Fsetxattr(-1, name, nil, 0, 0)) }},
		{"fremovexattr", func() int { return int(s.Fremovexattr(-1, name)) }},
	} {
		rec.Reset()
		assert.Equal(t, tc.call(), -1, tc.op)
		assert.Check(t, rec.Errno() == syscall.EBADF || rec.Errno() == sysx.ENOTSUP, "%s: errno %v", tc.op, rec.Errno())
	}
}

func TestTransferClampsCopyToView(t *testing.T) {
	s, _ := newTestShim(t, DefaultConfig())
	target := sysx.FdTarget(sysx.BorrowFd(0))

	// a kernel that reports the full size while filling only the view
	fill := func(view []byte) (int, error) {
		copy(view, "hello")
		return 5, nil
	}

	dst := []byte("########")
	n := s.transfer("getxattr", target, unsafe.Pointer(&dst[0]), 3, fill)
	assert.Equal(t, n, 5)
	assert.Equal(t, string(dst), "hel#####")

	// size query: nothing is copied, and a nil destination is fine
	n = s.transfer("getxattr", target, nil, 0, fill)
	assert.Equal(t, n, 5)
}

func TestTransferNilDestination(t *testing.T) {
	s, rec := newTestShim(t, DefaultConfig())
	target := sysx.FdTarget(sysx.BorrowFd(0))

	n := s.transfer("getxattr", target, nil, 8, func(view []byte) (int, error) {
		return copy(view, "abc"), nil
	})
	assert.Equal(t, n, -1)
	assert.Equal(t, rec.Errno(), syscall.EFAULT)

	// an empty value needs no destination
	rec.Reset()
	n = s.transfer("getxattr", target, nil, 8, func(view []byte) (int, error) {
		return 0, nil
	})
	assert.Equal(t, n, 0)
	assert.Equal(t, rec.Errno(), syscall.Errno(0))
}

func TestSetNilValue(t *testing.T) {
	s, rec := newTestShim(t, DefaultConfig())
	assert.Equal(t, s.Setxattr(cstr(t, "/nonexistent"), cstr(t, "user.x"), nil, 4, 0), int32(-1))
	assert.Equal(t, rec.Errno(), syscall.EFAULT)
}
