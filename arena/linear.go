// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"unsafe"

	"github.com/memkit/memkit/memory"
)

// Linear is a bump allocator over one Buffer. The number of allocated bytes
// is the only state: every allocation is served right after the currently
// allocated portion, so no free-space search is needed.
//
// Invariant: 0 <= allocated <= buffer size. Individual allocations cannot be
// freed; only Reset or Release change occupancy.
type Linear struct {
	buf       memory.Buffer
	allocated int
	peak      int
}

// NewLinear creates an arena that can store size bytes.
func NewLinear(size int) *Linear {
	return &Linear{buf: memory.NewBuffer(size)}
}

// Alloc returns a zeroed slice of n bytes from the arena, or nil when the
// arena lacks room (or n is not positive). The slice stays valid until the
// next Reset or Release.
func (l *Linear) Alloc(n int) []byte {
	if n <= 0 || !l.CanStore(n) {
		return nil
	}
	b := l.buf.Data()[l.allocated : l.allocated+n]
	l.allocated += n
	if l.allocated > l.peak {
		l.peak = l.allocated
	}
	// The block may hold data from before a Reset.
	clear(b)
	return b
}

// Reset rewinds the cursor to zero. The memory block is retained, and every
// slice previously returned by Alloc becomes invalid by convention.
func (l *Linear) Reset() {
	l.allocated = 0
}

// Release frees the underlying buffer. The arena is invalid afterwards.
func (l *Linear) Release() {
	l.Reset()
	l.buf.Release()
}

// Len returns the number of currently allocated bytes.
func (l *Linear) Len() int { return l.allocated }

// Cap returns the number of bytes the arena can store.
func (l *Linear) Cap() int { return l.buf.Size() }

// Peak returns the high-water mark of allocated bytes. Reset does not
// clear it, so it reflects the maximum usage over the arena's lifetime.
func (l *Linear) Peak() int { return l.peak }

// IsValid reports whether the arena owns a memory block.
func (l *Linear) IsValid() bool { return l.buf.IsValid() }

// Data returns the arena's whole memory block.
func (l *Linear) Data() []byte { return l.buf.Data() }

// CanStore reports whether n more bytes fit without overflowing the block.
func (l *Linear) CanStore(n int) bool {
	return l.allocated+n <= l.buf.Size()
}

// Copy duplicates source into destination, block and cursor both.
// The destination must not own a memory block.
func Copy(source *Linear, destination *Linear) {
	if destination.IsValid() {
		panic("arena: copy into a valid arena")
	}
	destination.buf = memory.CopyBuffer(source.buf)
	destination.allocated = source.allocated
	destination.peak = source.peak
}

// New allocates a zeroed T from the arena. Nil when the arena lacks room.
func New[T any](l *Linear) *T {
	var zero T
	b := l.Alloc(int(unsafe.Sizeof(zero)))
	if b == nil {
		return nil
	}
	return (*T)(unsafe.Pointer(unsafe.SliceData(b)))
}

// NewSlice allocates a zeroed []T of length n from the arena. Nil when the
// arena lacks room.
func NewSlice[T any](l *Linear, n int) []T {
	if n <= 0 {
		return nil
	}
	var zero T
	b := l.Alloc(n * int(unsafe.Sizeof(zero)))
	if b == nil {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n)
}

// CanStoreType reports whether one T fits in the arena's remaining space.
func CanStoreType[T any](l *Linear) bool {
	var zero T
	return l.CanStore(int(unsafe.Sizeof(zero)))
}

// CanStoreSlice reports whether n values of T fit in the remaining space.
func CanStoreSlice[T any](l *Linear, n int) bool {
	var zero T
	return l.CanStore(n * int(unsafe.Sizeof(zero)))
}
