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
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/containerd/xattrshim/conterrors"
	digest "github.com/opencontainers/go-digest"
	"github.com/pkg/errors"
	"github.com/pkg/xattr"
	"golang.org/x/sys/unix"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func newFile(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	assert.NilError(t, os.WriteFile(p, []byte(name), 0o644))
	if err := xattr.Set(p, "user.probe", []byte("1")); err != nil {
		var xerr *xattr.Error
		if errors.As(err, &xerr) && xerr.Err == unix.ENOTSUP {
			t.Skipf("user xattrs not supported on %s", dir)
		}
		t.Fatal(err)
	}
	assert.NilError(t, xattr.Remove(p, "user.probe"))
	return p
}

// run executes the command line with fresh flag state and returns its
// standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	mainCmdConfig.debug, mainCmdConfig.noFollow, mainCmdConfig.fd = false, false, false
	setCmdConfig.create, setCmdConfig.replace = false, false
	cpCmdConfig.excludes, cpCmdConfig.strict = nil, false
	dumpCmdConfig.match, dumpCmdConfig.jobs = false, 4

	var out bytes.Buffer
	MainCmd.SetOut(&out)
	MainCmd.SetErr(io.Discard)
	MainCmd.SetArgs(args)
	err := MainCmd.Execute()
	return out.String(), err
}

func TestSetGet(t *testing.T) {
	p := newFile(t, t.TempDir(), "file")

	_, err := run(t, "set", p, "user.tag", "hello")
	assert.NilError(t, err)

	v, err := xattr.Get(p, "user.tag")
	assert.NilError(t, err)
	assert.Equal(t, string(v), "hello")

	out, err := run(t, "get", p, "user.tag")
	assert.NilError(t, err)
	assert.Equal(t, out, "hello\n")

	out, err = run(t, "get", "--fd", p, "user.tag")
	assert.NilError(t, err)
	assert.Equal(t, out, "hello\n")
}

func TestGetMissing(t *testing.T) {
	p := newFile(t, t.TempDir(), "file")

	_, err := run(t, "get", p, "user.missing")
	assert.Assert(t, errors.Is(err, conterrors.ErrNotFound), "unexpected error %v", err)
}

func TestSetFlags(t *testing.T) {
	p := newFile(t, t.TempDir(), "file")

	_, err := run(t, "set", "--replace", p, "user.tag", "a")
	assert.Assert(t, errors.Is(err, conterrors.ErrNotFound), "unexpected error %v", err)

	_, err = run(t, "set", "--create", p, "user.tag", "a")
	assert.NilError(t, err)

	_, err = run(t, "set", "--create", p, "user.tag", "b")
	assert.Assert(t, errors.Is(err, unix.EEXIST), "unexpected error %v", err)

	_, err = run(t, "set", "--replace", p, "user.tag", "c")
	assert.NilError(t, err)

	v, err := xattr.Get(p, "user.tag")
	assert.NilError(t, err)
	assert.Equal(t, string(v), "c")
}

func TestLS(t *testing.T) {
	p := newFile(t, t.TempDir(), "file")
	assert.NilError(t, xattr.Set(p, "user.tag", []byte("hello")))
	assert.NilError(t, xattr.Set(p, "user.empty", nil))

	out, err := run(t, "ls", p)
	assert.NilError(t, err)

	var tag, empty string
	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.HasPrefix(line, "user.tag "):
			tag = line
		case strings.HasPrefix(line, "user.empty "):
			empty = line
		}
	}
	assert.Check(t, is.Contains(tag, "5 B"))
	assert.Check(t, is.Contains(tag, digest.FromString("hello").String()))
	assert.Check(t, is.Contains(empty, "0 B"))
	assert.Check(t, is.Contains(empty, digest.FromBytes(nil).String()))
}

func TestRM(t *testing.T) {
	p := newFile(t, t.TempDir(), "file")
	assert.NilError(t, xattr.Set(p, "user.a", []byte("1")))
	assert.NilError(t, xattr.Set(p, "user.b", []byte("2")))
	assert.NilError(t, xattr.Set(p, "user.c", []byte("3")))

	_, err := run(t, "rm", p, "user.a", "user.b")
	assert.NilError(t, err)

	names, err := xattr.List(p)
	assert.NilError(t, err)
	assert.Check(t, !contains(names, "user.a"))
	assert.Check(t, !contains(names, "user.b"))
	assert.Check(t, contains(names, "user.c"))

	_, err = run(t, "rm", p, "user.a")
	assert.Assert(t, errors.Is(err, conterrors.ErrNotFound), "unexpected error %v", err)
}

func TestNoFollow(t *testing.T) {
	dir := t.TempDir()
	p := newFile(t, dir, "file")
	assert.NilError(t, xattr.Set(p, "user.tag", []byte("target")))
	link := filepath.Join(dir, "link")
	assert.NilError(t, os.Symlink(p, link))

	out, err := run(t, "get", link, "user.tag")
	assert.NilError(t, err)
	assert.Equal(t, out, "target\n")

	_, err = run(t, "get", "--no-follow", link, "user.tag")
	assert.Assert(t, errors.Is(err, conterrors.ErrNotFound), "unexpected error %v", err)
}

func TestCP(t *testing.T) {
	dir := t.TempDir()
	src := newFile(t, dir, "src")
	dst := newFile(t, dir, "dst")
	assert.NilError(t, xattr.Set(src, "user.keep", []byte("1")))
	assert.NilError(t, xattr.Set(src, "user.skip", []byte("2")))

	_, err := run(t, "cp", "--exclude", "user.skip", src, dst)
	assert.NilError(t, err)

	v, err := xattr.Get(dst, "user.keep")
	assert.NilError(t, err)
	assert.Equal(t, string(v), "1")

	names, err := xattr.List(dst)
	assert.NilError(t, err)
	assert.Check(t, !contains(names, "user.skip"))
}

func TestDump(t *testing.T) {
	dir := t.TempDir()
	a := newFile(t, dir, "a")
	b := newFile(t, dir, "b")
	assert.NilError(t, xattr.Set(a, "user.tag", []byte("1")))
	assert.NilError(t, xattr.Set(b, "user.tag", []byte("2")))

	out, err := run(t, "dump", a, b)
	assert.NilError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Assert(t, is.Len(lines, 2))
	assert.Check(t, strings.HasSuffix(lines[0], "  "+a))
	assert.Check(t, strings.HasSuffix(lines[1], "  "+b))

	_, err = run(t, "dump", "--match", a, b)
	assert.ErrorContains(t, err, "attribute sets differ")
}

func TestDumpDescriptor(t *testing.T) {
	dir := t.TempDir()
	a := newFile(t, dir, "a")
	assert.NilError(t, xattr.Set(a, "user.tag", []byte("1")))

	byPath, err := run(t, "dump", a)
	assert.NilError(t, err)
	byFd, err := run(t, "dump", "--fd", a)
	assert.NilError(t, err)
	assert.Equal(t, byFd, byPath)

	// a change made after the path read shows up through the descriptor
	assert.NilError(t, xattr.Set(a, "user.tag", []byte("2")))
	byFd, err = run(t, "dump", "--fd", a)
	assert.NilError(t, err)
	assert.Assert(t, byFd != byPath)
}

func TestMissingPath(t *testing.T) {
	dir := t.TempDir()
	a := newFile(t, dir, "a")
	missing := filepath.Join(dir, "missing")

	_, err := run(t, "dump", a, missing)
	assert.Assert(t, errors.Is(err, os.ErrNotExist), "unexpected error %v", err)

	_, err = run(t, "dump", "--fd", missing)
	assert.Assert(t, errors.Is(err, os.ErrNotExist), "unexpected error %v", err)

	_, err = run(t, "cp", missing, a)
	assert.Assert(t, errors.Is(err, os.ErrNotExist), "unexpected error %v", err)
}

func TestCPRejectsDescriptor(t *testing.T) {
	dir := t.TempDir()
	src := newFile(t, dir, "src")
	dst := newFile(t, dir, "dst")
	assert.NilError(t, xattr.Set(src, "user.keep", []byte("1")))

	_, err := run(t, "cp", "--fd", src, dst)
	assert.Assert(t, errors.Is(err, conterrors.ErrNotSupported), "unexpected error %v", err)

	_, err = xattr.Get(dst, "user.keep")
	assert.Check(t, err != nil)
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
