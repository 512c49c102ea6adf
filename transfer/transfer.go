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

// Package transfer manages the scratch buffers that stand between the kernel
// and destinations that must not be read, such as caller memory of unknown
// initialization state.
//
// A Buffer is borrowed for exactly one call. The system call writes into
// View, and only the prefix it reports through Filled may be read back, so
// bytes left over from an earlier, longer transfer are never exposed.
package transfer

import "sync"

// Capacity is the default buffer size, the largest value Linux accepts for a
// single extended attribute (XATTR_SIZE_MAX).
const Capacity = 64 * 1024

// Pool hands out buffers of a fixed capacity. Each Buffer is owned by one
// caller between Acquire and Release, so concurrent calls never share a live
// view, and released buffers are reused without allocating.
type Pool struct {
	capacity int
	pool     sync.Pool
}

// NewPool returns a pool of buffers holding capacity bytes each. A
// non-positive capacity selects Capacity.
func NewPool(capacity int) *Pool {
	if capacity <= 0 {
		capacity = Capacity
	}
	p := &Pool{capacity: capacity}
	p.pool.New = func() interface{} {
		return &Buffer{data: make([]byte, capacity)}
	}
	return p
}

// Capacity returns the size of every buffer in the pool.
func (p *Pool) Capacity() int {
	return p.capacity
}

// Acquire borrows a buffer whose view holds min(requested, Capacity) bytes.
// It never fails.
func (p *Pool) Acquire(requested uint64) *Buffer {
	b := p.pool.Get().(*Buffer)
	n := p.capacity
	if requested < uint64(n) {
		n = int(requested)
	}
	b.view = b.data[:n:n]
	b.owner = p
	return b
}

// Buffer is a borrowed region of a pooled scratch buffer.
type Buffer struct {
	data  []byte
	view  []byte
	owner *Pool
}

// View returns the region the system call may write into. Its contents
// before that write are unspecified.
func (b *Buffer) View() []byte {
	return b.view
}

// Filled returns the first n bytes of the view, the part the system call
// reported as written. n is clamped to the view.
func (b *Buffer) Filled(n int) []byte {
	switch {
	case n <= 0:
		return b.view[:0]
	case n > len(b.view):
		return b.view
	}
	return b.view[:n]
}

// Release returns the buffer to its pool. The buffer must not be used
// afterwards.
func (b *Buffer) Release() {
	p := b.owner
	b.view, b.owner = nil, nil
	p.pool.Put(b)
}
