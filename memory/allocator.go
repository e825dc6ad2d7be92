// SPDX-License-Identifier: Apache-2.0

package memory

// Allocator is the capability through which containers obtain and return
// memory. Two allocators that compare Equal are interchangeable: a block
// allocated by one may be freed by the other, which lets containers hand
// off backing storage with a pointer swap instead of an element-wise move.
type Allocator interface {
	// Allocate returns a block of n bytes, or nil when the platform
	// refuses the request. Zero-byte requests return nil.
	Allocate(n int) []byte

	// AllocateTagged is Allocate with call-site information for the
	// tracker. Untracked implementations ignore the tag.
	AllocateTagged(n int, tag Tag) []byte

	// Free returns a block previously obtained from this allocator (or
	// one that compares Equal to it). Freeing nil is a no-op.
	Free(b []byte)

	// Equal reports whether the other allocator is interchangeable with
	// this one.
	Equal(other Allocator) bool
}

// Compatible reports whether storage can be handed from one allocator to the
// other without a deep transfer.
func Compatible(a, b Allocator) bool {
	return a.Equal(b)
}

// HeapAllocator forwards through the tracked allocation facade. It is the
// default allocator for every container.
type HeapAllocator struct{}

func (HeapAllocator) Allocate(n int) []byte { return Allocate(n) }

func (HeapAllocator) AllocateTagged(n int, tag Tag) []byte { return AllocateTagged(n, tag) }

func (HeapAllocator) Free(b []byte) { Free(b) }

// Equal is true for any HeapAllocator: the global heap is one resource.
func (HeapAllocator) Equal(other Allocator) bool {
	_, ok := other.(HeapAllocator)
	return ok
}

// UntrackedAllocator forwards straight to the platform, bypassing the
// tracker. Use it for bookkeeping structures that must not show up in the
// tracker's own accounting.
type UntrackedAllocator struct{}

func (UntrackedAllocator) Allocate(n int) []byte { return AllocateRaw(n) }

func (UntrackedAllocator) AllocateTagged(n int, _ Tag) []byte { return AllocateRaw(n) }

func (UntrackedAllocator) Free(b []byte) { FreeRaw(b) }

func (UntrackedAllocator) Equal(other Allocator) bool {
	_, ok := other.(UntrackedAllocator)
	return ok
}
