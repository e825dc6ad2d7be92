// SPDX-License-Identifier: Apache-2.0

package container

import (
	"github.com/memkit/memkit/memory"
)

// Array is a growable, contiguous sequence of T backed by storage from a
// memory.Allocator. Elements in [0, size) are live; the rest of the backing
// block is allocated but unused.
type Array[T any] struct {
	data  []T // len == capacity
	size  int
	alloc memory.Allocator
}

// NewArray creates an empty array on the tracked heap allocator.
func NewArray[T any]() *Array[T] {
	return NewArrayIn[T](memory.HeapAllocator{})
}

// NewArrayIn creates an empty array that allocates through a.
func NewArrayIn[T any](a memory.Allocator) *Array[T] {
	return &Array[T]{alloc: a}
}

// Len returns the number of live elements.
func (a *Array[T]) Len() int { return a.size }

// Cap returns the capacity of the backing block, in elements.
func (a *Array[T]) Cap() int { return len(a.data) }

// IsEmpty reports whether the array holds no live elements.
func (a *Array[T]) IsEmpty() bool { return a.size == 0 }

// Data returns the live elements as a slice aliasing the backing block.
// The slice is invalidated by any operation that reallocates.
func (a *Array[T]) Data() []T { return a.data[:a.size] }

// At returns a pointer to the element at index. Indexing outside [0, size)
// is a contract violation.
func (a *Array[T]) At(index int) *T {
	if index < 0 || index >= a.size {
		panic("container: array index out of range")
	}
	return &a.data[index]
}

// Set stores v at index. Same bounds contract as At.
func (a *Array[T]) Set(index int, v T) {
	*a.At(index) = v
}

// First returns a pointer to the first live element.
func (a *Array[T]) First() *T { return a.At(0) }

// Last returns a pointer to the last live element.
func (a *Array[T]) Last() *T {
	if a.size == 0 {
		panic("container: array is empty")
	}
	return &a.data[a.size-1]
}

// Add appends v and returns a pointer to the stored element.
func (a *Array[T]) Add(v T) *T {
	if a.shouldGrow(1) {
		a.reallocate(a.naturalGrowth())
	}
	a.data[a.size] = v
	p := &a.data[a.size]
	a.size++
	return p
}

// AddZeroed appends count zeroed elements and returns the index of the
// first one.
func (a *Array[T]) AddZeroed(count int) int {
	if a.shouldGrow(count) {
		a.reallocate(a.growthFor(count))
	}
	oldSize := a.size
	a.size += count
	clear(a.data[oldSize:a.size])
	return oldSize
}

// AddUninitialized appends count elements without touching their storage
// and returns the index of the first one. The slots may hold stale values
// from earlier use of the block.
func (a *Array[T]) AddUninitialized(count int) int {
	if a.shouldGrow(count) {
		a.reallocate(a.growthFor(count))
	}
	oldSize := a.size
	a.size += count
	return oldSize
}

// Pop drops the last live element.
func (a *Array[T]) Pop() {
	if a.size == 0 {
		panic("container: pop from an empty array")
	}
	a.size--
	clear(a.data[a.size : a.size+1])
}

// PopN drops the last count live elements.
func (a *Array[T]) PopN(count int) {
	if count > a.size {
		panic("container: pop of more elements than stored")
	}
	clear(a.data[a.size-count : a.size])
	a.size -= count
}

// Resize sets the element count to newSize. Newly included elements are
// zeroed; excluded ones are dropped. Grows the backing block if needed.
func (a *Array[T]) Resize(newSize int) {
	oldSize := a.size
	a.ResizeUninitialized(newSize)
	if a.size > oldSize {
		clear(a.data[oldSize:a.size])
	}
}

// ResizeUninitialized sets the element count without zeroing newly included
// slots. Shrinking drops the trailing elements in place, no reallocation.
func (a *Array[T]) ResizeUninitialized(newSize int) {
	if newSize > len(a.data) {
		a.reallocate(a.growthFor(newSize - a.size))
	} else if newSize < a.size {
		clear(a.data[newSize:a.size])
	}
	a.size = newSize
}

// SetCapacity reallocates the backing block to exactly newCapacity
// elements. Elements beyond the new capacity are dropped.
func (a *Array[T]) SetCapacity(newCapacity int) {
	if newCapacity == len(a.data) {
		return
	}
	a.reallocate(newCapacity)
}

// Clear drops every live element. Capacity is unchanged.
func (a *Array[T]) Clear() {
	clear(a.data[:a.size])
	a.size = 0
}

// Release drops every element and returns the backing block to the
// allocator. The array is reusable afterwards (empty, zero capacity).
func (a *Array[T]) Release() {
	a.Clear()
	freeSlice(a.alloc, a.data)
	a.data = nil
}

// Clone deep-copies the array: fresh storage from the same allocator, each
// element copied in order.
func (a *Array[T]) Clone() *Array[T] {
	dst := NewArrayIn[T](a.alloc)
	if a.size > 0 {
		dst.data = makeSlice[T](dst.alloc, a.size, memory.Here())
		dst.size = a.size
		copy(dst.data, a.data[:a.size])
	}
	return dst
}

// MoveFrom transfers src's elements into a, leaving src empty. When the two
// allocators are compatible the transfer is a backing-block swap; otherwise
// each element is copied and src's storage cleared.
func (a *Array[T]) MoveFrom(src *Array[T]) {
	if a == src {
		return
	}
	a.Clear()

	if memory.Compatible(a.alloc, src.alloc) {
		a.data, src.data = src.data, a.data
		a.size = src.size
		src.size = 0
		return
	}

	if src.size > len(a.data) {
		a.reallocateDiscard(src.size)
	}
	a.size = src.size
	copy(a.data, src.data[:src.size])
	src.Clear()
}

func (a *Array[T]) shouldGrow(additional int) bool {
	return a.size+additional > len(a.data)
}

// naturalGrowth is the capacity the array grows to when one more element
// is needed: cap + cap/2 + 1.
func (a *Array[T]) naturalGrowth() int {
	return len(a.data) + len(a.data)/2 + 1
}

// growthFor picks the larger of the natural growth and the minimum capacity
// required for `additional` more elements.
func (a *Array[T]) growthFor(additional int) int {
	natural := a.naturalGrowth()
	required := a.size + additional
	if natural > required {
		return natural
	}
	return required
}

// reallocate moves the live elements, in order, into a fresh block of
// newCapacity elements and releases the old one. This is the only place
// element addresses change.
func (a *Array[T]) reallocate(newCapacity int) {
	newData := makeSlice[T](a.alloc, newCapacity, memory.Here())

	if a.size > newCapacity {
		a.size = newCapacity
	}
	copy(newData, a.data[:a.size])

	freeSlice(a.alloc, a.data)
	a.data = newData
}

// reallocateDiscard replaces the backing block without carrying elements
// over.
func (a *Array[T]) reallocateDiscard(newCapacity int) {
	a.Clear()
	freeSlice(a.alloc, a.data)
	a.data = makeSlice[T](a.alloc, newCapacity, memory.Here())
}
