// SPDX-License-Identifier: Apache-2.0

package container

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/memkit/memkit/memory"
)

// identityHasher makes bucket placement predictable in probe-path tests.
func identityHasher(key uint64) uint64 { return key }

func TestHashTableInsertAndFind(t *testing.T) {
	ht := NewHashTable[string, int]()
	defer ht.Release()

	require.Equal(t, 0, ht.Len())
	require.Equal(t, EndOfTable, ht.Find("missing"))

	ht.Insert("one", 1)
	ht.Insert("two", 2)
	ht.Insert("three", 3)
	require.Equal(t, 3, ht.Len())

	require.Equal(t, 2, *ht.FindExisting("two"))
	require.Equal(t, 1, *ht.At("one"))

	idx := ht.Find("three")
	require.NotEqual(t, EndOfTable, idx)
	require.Equal(t, 3, *ht.AtIndex(idx))
	require.Equal(t, "three", ht.KeyAt(idx))
}

func TestHashTableInsertDuplicatePanics(t *testing.T) {
	ht := NewHashTable[string, int]()
	defer ht.Release()

	ht.Insert("key", 1)
	require.PanicsWithValue(t, "container: key already exists in the table", func() {
		ht.Insert("key", 2)
	})
}

func TestHashTableTryInsert(t *testing.T) {
	ht := NewHashTable[string, int]()
	defer ht.Release()

	require.NoError(t, ht.TryInsert("key", 1))

	err := ht.TryInsert("key", 2)
	require.ErrorIs(t, err, ErrKeyAlreadyExists)
	// The stored value is untouched
	require.Equal(t, 1, *ht.At("key"))
	require.Equal(t, 1, ht.Len())
}

func TestHashTableGetOrInsert(t *testing.T) {
	ht := NewHashTable[string, int]()
	defer ht.Release()

	v := ht.GetOrInsert("counter")
	require.Equal(t, 0, *v) // inserted zeroed
	*v = 10

	require.Equal(t, 10, *ht.GetOrInsert("counter"))
	require.Equal(t, 1, ht.Len())
}

func TestHashTableFindExistingAbsentPanics(t *testing.T) {
	ht := NewHashTable[string, int]()
	defer ht.Release()

	require.PanicsWithValue(t, "container: key not present in the table", func() {
		ht.FindExisting("ghost")
	})

	ht.Insert("a", 1)
	require.PanicsWithValue(t, "container: key not present in the table", func() {
		ht.FindExisting("ghost")
	})
}

func TestHashTableRemove(t *testing.T) {
	ht := NewHashTable[string, int]()
	defer ht.Release()

	ht.Insert("a", 1)
	ht.Insert("b", 2)

	ht.Remove("a")
	require.Equal(t, 1, ht.Len())
	require.Equal(t, EndOfTable, ht.Find("a"))
	require.Equal(t, 2, *ht.At("b"))

	require.PanicsWithValue(t, "container: key not present in the table", func() {
		ht.Remove("a")
	})
}

func TestHashTableRemoveIndexUnoccupiedPanics(t *testing.T) {
	ht := NewHashTable[string, int]()
	defer ht.Release()
	ht.Insert("a", 1)

	idx := ht.Find("a")
	ht.RemoveIndex(idx)
	require.PanicsWithValue(t, "container: no element stored at the given index", func() {
		ht.RemoveIndex(idx) // now a tombstone
	})
}

func TestHashTableProbesThroughTombstones(t *testing.T) {
	ht := NewHashTableWithHasher[uint64, string](memory.HeapAllocator{}, identityHasher)
	defer ht.Release()

	// Capacity is 6 after the second insert, so keys 0, 1 and 6 collide
	// into the probe path starting at bucket 0.
	ht.Insert(0, "zero")
	ht.Insert(1, "one")
	ht.Insert(6, "six")
	require.Equal(t, 6, ht.Cap())
	require.Equal(t, 2, ht.Find(6)) // displaced past the two collisions

	// Removing key 0 leaves a tombstone at bucket 0; key 6 must stay
	// reachable through it.
	ht.Remove(0)
	require.Equal(t, 2, ht.Find(6))
	require.Equal(t, "six", *ht.At(6))
}

func TestHashTableInsertReusesTombstone(t *testing.T) {
	ht := NewHashTableWithHasher[uint64, string](memory.HeapAllocator{}, identityHasher)
	defer ht.Release()

	ht.Insert(0, "zero")
	ht.Insert(1, "one")
	ht.Insert(6, "six")
	ht.Remove(0)

	// Key 12 probes from bucket 0 and must land in the tombstone there,
	// not past the collision chain.
	ht.Insert(12, "twelve")
	require.Equal(t, 0, ht.Find(12))
	require.Equal(t, "twelve", *ht.At(12))
	require.Equal(t, "six", *ht.At(6))
}

func TestHashTableLoadFactorBounded(t *testing.T) {
	ht := NewHashTable[int, int]()
	defer ht.Release()

	for i := 0; i < 1000; i++ {
		ht.Insert(i, i*i)
		require.LessOrEqual(t, ht.LoadFactor(), MaxLoadFactor)
	}
	require.Equal(t, 1000, ht.Len())

	// Everything stays reachable across all the rehashes
	for i := 0; i < 1000; i++ {
		require.Equal(t, i*i, *ht.At(i))
	}
}

func TestHashTableClearKeepsCapacity(t *testing.T) {
	ht := NewHashTable[string, int]()
	defer ht.Release()

	ht.Insert("a", 1)
	ht.Insert("b", 2)
	capBefore := ht.Cap()

	ht.Clear()
	require.Equal(t, 0, ht.Len())
	require.Equal(t, capBefore, ht.Cap())
	require.Equal(t, EndOfTable, ht.Find("a"))

	// Reusable after clear
	ht.Insert("a", 10)
	require.Equal(t, 10, *ht.At("a"))
}

func TestHashTableForEach(t *testing.T) {
	ht := NewHashTable[string, int]()
	defer ht.Release()

	ht.Insert("a", 1)
	ht.Insert("b", 2)
	ht.Insert("c", 3)

	seen := map[string]int{}
	ht.ForEach(func(key string, value *int) bool {
		seen[key] = *value
		return true
	})
	require.Equal(t, map[string]int{"a": 1, "b": 2, "c": 3}, seen)

	// Early exit
	visits := 0
	ht.ForEach(func(key string, value *int) bool {
		visits++
		return false
	})
	require.Equal(t, 1, visits)
}

func TestHashTableClone(t *testing.T) {
	ht := NewHashTable[string, int]()
	defer ht.Release()
	ht.Insert("a", 1)
	ht.Insert("b", 2)

	c := ht.Clone()
	defer c.Release()
	require.Equal(t, 2, c.Len())
	require.Equal(t, 1, *c.At("a"))

	// Independent storage
	*c.At("a") = 99
	require.Equal(t, 1, *ht.At("a"))
}

func TestHashTableMoveFromCompatibleAllocatorSwaps(t *testing.T) {
	src := NewHashTable[string, int]()
	src.Insert("a", 1)
	src.Insert("b", 2)

	dst := NewHashTable[string, int]()
	defer dst.Release()
	dst.MoveFrom(src)

	require.Equal(t, 2, dst.Len())
	require.Equal(t, 1, *dst.At("a"))
	require.Equal(t, 0, src.Len())
	require.Equal(t, EndOfTable, src.Find("a"))
	src.Release()
}

func TestHashTableMoveFromIncompatibleAllocatorCopies(t *testing.T) {
	src := NewHashTableIn[string, int](memory.UntrackedAllocator{})
	src.Insert("a", 1)
	src.Insert("b", 2)

	dst := NewHashTable[string, int]()
	defer dst.Release()
	dst.MoveFrom(src)

	require.Equal(t, 2, dst.Len())
	require.Equal(t, 2, *dst.At("b"))
	require.Equal(t, 0, src.Len())
	src.Release()
}

func TestHashTableStringHasher(t *testing.T) {
	ht := NewHashTableWithHasher[string, int](memory.HeapAllocator{}, StringHasher)
	defer ht.Release()

	for i := 0; i < 100; i++ {
		ht.Insert(fmt.Sprintf("key-%d", i), i)
	}
	for i := 0; i < 100; i++ {
		require.Equal(t, i, *ht.At(fmt.Sprintf("key-%d", i)))
	}
}

func TestHashTableStringKeysSurviveCollection(t *testing.T) {
	ht := NewHashTable[string, int]()
	defer ht.Release()

	// Dynamically built keys: only the table's storage keeps their bytes
	// alive across collections.
	const n = 2000
	for i := 0; i < n; i++ {
		ht.Insert(fmt.Sprintf("dynamic-key-%d", i), i)
	}

	churnAndCollect()

	for i := 0; i < n; i++ {
		key := fmt.Sprintf("dynamic-key-%d", i)
		idx := ht.Find(key)
		require.NotEqual(t, EndOfTable, idx, "key %q lost after collection", key)
		require.Equal(t, i, *ht.AtIndex(idx))
	}
}

func TestHashTableStringPairsTracked(t *testing.T) {
	memory.Initialize(memory.Options{EnableTracker: true})
	defer memory.Shutdown()

	ht := NewHashTable[string, string]()
	ht.Insert("key", "value")
	require.NotZero(t, memory.Stats().CurrentAllocations)

	ht.Release()
	require.Equal(t, uint64(0), memory.Stats().CurrentAllocations)
}

func TestHashTableMoveFromSelf(t *testing.T) {
	ht := NewHashTable[string, int]()
	defer ht.Release()
	ht.Insert("a", 1)
	ht.Insert("b", 2)

	ht.MoveFrom(ht)
	require.Equal(t, 2, ht.Len())
	require.Equal(t, 1, *ht.At("a"))
	require.Equal(t, 2, *ht.At("b"))
}

func TestHashTableByteArrayKeys(t *testing.T) {
	ht := NewHashTableWithHasher[[16]byte, int](memory.HeapAllocator{},
		func(k [16]byte) uint64 { return BytesHasher(k[:]) })
	defer ht.Release()

	var key [16]byte
	for i := 0; i < 50; i++ {
		copy(key[:], fmt.Sprintf("digest-%09d", i))
		ht.Insert(key, i)
	}
	for i := 0; i < 50; i++ {
		copy(key[:], fmt.Sprintf("digest-%09d", i))
		require.Equal(t, i, *ht.At(key))
	}

	// Content hashing: equal bytes in distinct backing arrays agree
	a := []byte("some hashed content")
	b := append([]byte(nil), a...)
	require.Equal(t, BytesHasher(a), BytesHasher(b))
}

func TestHashTableAllocationFailurePanics(t *testing.T) {
	ht := NewHashTableIn[int, int](failingAllocator{})
	require.PanicsWithValue(t, "container: backing allocation failed", func() {
		ht.Insert(1, 1)
	})
}

func TestHashTableStructValues(t *testing.T) {
	type extent struct {
		Width, Height int
	}
	ht := NewHashTable[uint32, extent]()
	defer ht.Release()

	ht.Insert(1, extent{Width: 800, Height: 600})
	v := ht.At(1)
	v.Width = 1920
	require.Equal(t, extent{Width: 1920, Height: 600}, *ht.At(1))
}
