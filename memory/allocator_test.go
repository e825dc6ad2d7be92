// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocatorEquality(t *testing.T) {
	heap := HeapAllocator{}
	untracked := UntrackedAllocator{}

	require.True(t, heap.Equal(HeapAllocator{}))
	require.True(t, untracked.Equal(UntrackedAllocator{}))
	require.False(t, heap.Equal(untracked))
	require.False(t, untracked.Equal(heap))

	require.True(t, Compatible(heap, HeapAllocator{}))
	require.False(t, Compatible(heap, untracked))
}

func TestHeapAllocatorTracked(t *testing.T) {
	Initialize(Options{EnableTracker: true})
	defer Shutdown()

	var a Allocator = HeapAllocator{}
	b := a.Allocate(40)
	require.Equal(t, uint64(1), Stats().CurrentAllocations)
	a.Free(b)
	require.Equal(t, uint64(0), Stats().CurrentAllocations)
}

func TestUntrackedAllocatorBypassesTracker(t *testing.T) {
	Initialize(Options{EnableTracker: true})
	defer Shutdown()

	var a Allocator = UntrackedAllocator{}
	b := a.AllocateTagged(40, Here())
	require.Equal(t, uint64(0), Stats().CurrentAllocations)
	a.Free(b)
}
