// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"unsafe"
)

// Buffer is an untyped, exclusively-owned memory block: a pointer and a
// size, nothing more. Assigning one Buffer to another copies the slice
// header only — both values then alias the same block. Use CopyBuffer for
// a real duplicate.
//
// Invariant: the data pointer is non-nil exactly when the size is positive.
type Buffer struct {
	data []byte
}

// NewBuffer allocates a buffer of size bytes through the tracked path.
func NewBuffer(size int) Buffer {
	var b Buffer
	b.Allocate(size)
	return b
}

// Data returns the buffer's memory block. Mutating the returned slice
// mutates the buffer.
func (b Buffer) Data() []byte { return b.data }

// Size returns the number of bytes the buffer can store.
func (b Buffer) Size() int { return len(b.data) }

// IsValid reports whether the buffer owns a memory block.
func (b Buffer) IsValid() bool { return b.data != nil }

// Allocate replaces the buffer's block with a freshly allocated one of the
// given size. Any block currently held is released first.
func (b *Buffer) Allocate(size int) {
	if b.data != nil {
		b.Release()
	}
	b.data = Allocate(size)
}

// Release returns the block to the memory facade and resets the buffer to
// the invalid state. Safe to call on an invalid buffer.
func (b *Buffer) Release() {
	if b.data == nil {
		return
	}
	Free(b.data)
	b.data = nil
}

// CopyBuffer duplicates source into a freshly allocated buffer.
func CopyBuffer(source Buffer) Buffer {
	destination := NewBuffer(source.Size())
	copy(destination.data, source.data)
	return destination
}

// ViewAs reinterprets the buffer's block as a slice of T, truncated to the
// number of whole elements that fit. An invalid buffer yields nil.
func ViewAs[T any](b Buffer) []T {
	if b.data == nil {
		return nil
	}
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	count := len(b.data) / elemSize
	if count == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b.data))), count)
}
