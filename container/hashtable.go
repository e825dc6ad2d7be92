// SPDX-License-Identifier: Apache-2.0

package container

import (
	"math"

	"github.com/memkit/memkit/memory"
)

// Bucket states. Deleted buckets are tombstones: lookups probe through
// them, insertion reuses them, growth discards them.
const (
	bucketEmpty    byte = 0x00
	bucketDeleted  byte = 0xDD
	bucketOccupied byte = 0xFF
)

// MaxLoadFactor is the occupancy ratio above which the table grows.
const MaxLoadFactor = 0.75

// EndOfTable is the index Find returns when the key is absent.
const EndOfTable = math.MaxInt

type keyValue[K comparable, V any] struct {
	key   K
	value V
}

// HashTable is an open-addressing, linear-probing hash table. For
// pointer-free pairs the key-value slots and their bucket states live in
// one allocation from the table's allocator, the slot array first and the
// parallel state bytes after it. Pairs that hold Go pointers keep their
// slots in a pinned collector-visible block instead (see grabBlock).
type HashTable[K comparable, V any] struct {
	block    []byte // the single raw allocation; nil on the pinned path
	keyVals  []keyValue[K, V]
	states   []byte
	capacity int
	size     int
	alloc    memory.Allocator
	hash     Hasher[K]
}

// NewHashTable creates an empty table on the tracked heap allocator.
func NewHashTable[K comparable, V any]() *HashTable[K, V] {
	return NewHashTableIn[K, V](memory.HeapAllocator{})
}

// NewHashTableIn creates an empty table that allocates through a.
func NewHashTableIn[K comparable, V any](a memory.Allocator) *HashTable[K, V] {
	return &HashTable[K, V]{alloc: a, hash: defaultHasher[K]()}
}

// NewHashTableWithHasher creates an empty table using a caller-supplied
// hash function.
func NewHashTableWithHasher[K comparable, V any](a memory.Allocator, h Hasher[K]) *HashTable[K, V] {
	return &HashTable[K, V]{alloc: a, hash: h}
}

// Len returns the number of stored key-value pairs.
func (t *HashTable[K, V]) Len() int { return t.size }

// Cap returns the number of buckets.
func (t *HashTable[K, V]) Cap() int { return t.capacity }

// LoadFactor returns size divided by capacity. Zero for an empty block.
func (t *HashTable[K, V]) LoadFactor() float64 {
	if t.capacity == 0 {
		return 0
	}
	return float64(t.size) / float64(t.capacity)
}

// Find returns the index where key is stored, or EndOfTable when absent.
// Probing stops at the first Empty bucket: insertion always fills the first
// Empty-or-Deleted slot on the probe path, so no matching key can live past
// an Empty bucket.
func (t *HashTable[K, V]) Find(key K) int {
	if t.capacity == 0 {
		return EndOfTable
	}
	index := int(t.hash(key) % uint64(t.capacity))

	for i := 0; i < t.capacity; i++ {
		if t.states[index] == bucketOccupied && t.keyVals[index].key == key {
			return index
		}
		if t.states[index] == bucketEmpty {
			break
		}
		index = (index + 1) % t.capacity
	}
	return EndOfTable
}

// FindExisting returns a pointer to the value stored under key. The key
// must be present; its absence is a contract violation.
func (t *HashTable[K, V]) FindExisting(key K) *V {
	return &t.keyVals[t.findExistingIndex(key)].value
}

// At is FindExisting under the original accessor name.
func (t *HashTable[K, V]) At(key K) *V {
	return t.FindExisting(key)
}

// AtIndex returns a pointer to the value stored at a bucket index obtained
// from Find. The bucket must be occupied.
func (t *HashTable[K, V]) AtIndex(index int) *V {
	if index < 0 || index >= t.capacity || t.states[index] != bucketOccupied {
		panic("container: no element stored at the given index")
	}
	return &t.keyVals[index].value
}

// KeyAt returns the key stored at an occupied bucket index.
func (t *HashTable[K, V]) KeyAt(index int) K {
	if index < 0 || index >= t.capacity || t.states[index] != bucketOccupied {
		panic("container: no element stored at the given index")
	}
	return t.keyVals[index].key
}

// GetOrInsert returns a pointer to the value stored under key, inserting a
// zero value first when the key is absent.
func (t *HashTable[K, V]) GetOrInsert(key K) *V {
	if t.isOverLoadFactor() {
		t.reallocate(t.nextCapacity())
	}

	index := t.findIndexOrFirstUnoccupied(key)
	if t.states[index] != bucketOccupied {
		var zero V
		t.keyVals[index] = keyValue[K, V]{key: key, value: zero}
		t.states[index] = bucketOccupied
		t.size++
	}
	return &t.keyVals[index].value
}

// Insert stores value under key and returns a pointer to the stored value.
// The key must be absent; inserting a duplicate is a contract violation.
func (t *HashTable[K, V]) Insert(key K, value V) *V {
	if t.isOverLoadFactor() {
		t.reallocate(t.nextCapacity())
	}

	index := t.findIndexOrFirstUnoccupied(key)
	if t.states[index] == bucketOccupied {
		panic("container: key already exists in the table")
	}

	t.keyVals[index] = keyValue[K, V]{key: key, value: value}
	t.states[index] = bucketOccupied
	t.size++
	return &t.keyVals[index].value
}

// TryInsert stores value under key, or reports ErrKeyAlreadyExists without
// modifying the table.
func (t *HashTable[K, V]) TryInsert(key K, value V) error {
	if t.isOverLoadFactor() {
		t.reallocate(t.nextCapacity())
	}

	index := t.findIndexOrFirstUnoccupied(key)
	if t.states[index] == bucketOccupied {
		return ErrKeyAlreadyExists
	}

	t.keyVals[index] = keyValue[K, V]{key: key, value: value}
	t.states[index] = bucketOccupied
	t.size++
	return nil
}

// Remove drops the pair stored under key, leaving a tombstone so probe
// sequences for other keys stay intact. The key must be present.
func (t *HashTable[K, V]) Remove(key K) {
	t.RemoveIndex(t.findExistingIndex(key))
}

// RemoveIndex drops the pair stored at an occupied bucket index.
func (t *HashTable[K, V]) RemoveIndex(index int) {
	if index < 0 || index >= t.capacity || t.states[index] != bucketOccupied {
		panic("container: no element stored at the given index")
	}
	t.keyVals[index] = keyValue[K, V]{}
	t.states[index] = bucketDeleted
	t.size--
}

// Clear drops every pair and resets every bucket to Empty. The backing
// block is kept.
func (t *HashTable[K, V]) Clear() {
	if t.size > 0 {
		clear(t.keyVals)
	}
	clear(t.states)
	t.size = 0
}

// Release drops every pair and returns the backing storage.
func (t *HashTable[K, V]) Release() {
	t.Clear()
	t.freeStorage(t.block, t.keyVals, t.states)
	t.block = nil
	t.keyVals = nil
	t.states = nil
	t.capacity = 0
}

// ForEach visits every stored pair in unspecified order. Returning false
// from fn stops the traversal.
func (t *HashTable[K, V]) ForEach(fn func(key K, value *V) bool) {
	if t.size == 0 {
		return
	}
	for i := 0; i < t.capacity; i++ {
		if t.states[i] == bucketOccupied {
			if !fn(t.keyVals[i].key, &t.keyVals[i].value) {
				break
			}
		}
	}
}

// Clone deep-copies the table: fresh storage sized for the current size,
// every pair re-inserted (tombstones are not carried over).
func (t *HashTable[K, V]) Clone() *HashTable[K, V] {
	dst := &HashTable[K, V]{alloc: t.alloc, hash: t.hash}
	if t.size > 0 {
		dst.reallocateDiscard(dst.requiredCapacityFor(t.size))
		for i := 0; i < t.capacity; i++ {
			if t.states[i] == bucketOccupied {
				dst.internalInsert(t.keyVals[i].key, t.keyVals[i].value)
			}
		}
	}
	return dst
}

// MoveFrom transfers src's pairs into t, leaving src empty. Compatible
// allocators swap backing blocks; otherwise every pair is re-inserted and
// src's slots cleared.
func (t *HashTable[K, V]) MoveFrom(src *HashTable[K, V]) {
	if t == src {
		return
	}
	t.Clear()

	if memory.Compatible(t.alloc, src.alloc) {
		t.block, src.block = src.block, t.block
		t.keyVals, src.keyVals = src.keyVals, t.keyVals
		t.states, src.states = src.states, t.states
		t.capacity, src.capacity = src.capacity, t.capacity
		t.size = src.size
		src.size = 0
		return
	}

	if required := t.requiredCapacityFor(src.size); required > t.capacity {
		t.reallocateDiscard(required)
	}
	for i := 0; i < src.capacity; i++ {
		if src.states[i] == bucketOccupied {
			t.internalInsert(src.keyVals[i].key, src.keyVals[i].value)
		}
	}
	src.Clear()
}

// isOverLoadFactor reports whether one more pair would push occupancy past
// MaxLoadFactor. Checked before every insertion, which keeps the table's
// load factor at or under the limit at all times.
func (t *HashTable[K, V]) isOverLoadFactor() bool {
	return t.capacity == 0 || float64(t.size+1)/float64(t.capacity) > MaxLoadFactor
}

func (t *HashTable[K, V]) nextCapacity() int {
	next := t.capacity*2 + 2
	required := t.requiredCapacityFor(t.size + 1)
	if next > required {
		return next
	}
	return required
}

func (t *HashTable[K, V]) requiredCapacityFor(size int) int {
	return int(float64(size)/MaxLoadFactor) + 1
}

// findExistingIndex returns the bucket index of a key that must be present.
// The probe is bounded by the capacity so an absent key is detected and
// reported as a contract violation rather than looping forever.
func (t *HashTable[K, V]) findExistingIndex(key K) int {
	if t.capacity == 0 {
		panic("container: key not present in the table")
	}
	index := int(t.hash(key) % uint64(t.capacity))

	for i := 0; i < t.capacity; i++ {
		if t.states[index] == bucketOccupied && t.keyVals[index].key == key {
			return index
		}
		index = (index + 1) % t.capacity
	}
	panic("container: key not present in the table")
}

// findFirstUnoccupied returns the first non-Occupied bucket on the probe
// path starting at index. The table always has vacant buckets because the
// load factor is kept under MaxLoadFactor.
func (t *HashTable[K, V]) findFirstUnoccupied(index int) int {
	for t.states[index] == bucketOccupied {
		index = (index + 1) % t.capacity
	}
	return index
}

// findIndexOrFirstUnoccupied returns the bucket holding key, or the first
// Deleted-or-Empty bucket on its probe path when the key is absent.
func (t *HashTable[K, V]) findIndexOrFirstUnoccupied(key K) int {
	index := int(t.hash(key) % uint64(t.capacity))
	firstVacant := -1

	for i := 0; i < t.capacity; i++ {
		switch t.states[index] {
		case bucketOccupied:
			if t.keyVals[index].key == key {
				return index
			}
		case bucketDeleted:
			if firstVacant < 0 {
				firstVacant = index
			}
		case bucketEmpty:
			if firstVacant < 0 {
				firstVacant = index
			}
			return firstVacant
		}
		index = (index + 1) % t.capacity
	}
	return firstVacant
}

// internalInsert stores a pair in the first unoccupied bucket on its probe
// path. Callers guarantee the key is absent and the table has room.
func (t *HashTable[K, V]) internalInsert(key K, value V) int {
	index := t.findFirstUnoccupied(int(t.hash(key) % uint64(t.capacity)))
	t.keyVals[index] = keyValue[K, V]{key: key, value: value}
	t.states[index] = bucketOccupied
	t.size++
	return index
}

// reallocate grows the table to newCapacity: one fresh block, states zeroed
// to Empty, every occupied pair re-hashed and re-inserted. Tombstones are
// discarded, never carried forward.
func (t *HashTable[K, V]) reallocate(newCapacity int) {
	oldBlock := t.block
	oldKeyVals := t.keyVals
	oldStates := t.states
	oldCapacity := t.capacity

	t.grabBlock(newCapacity)
	t.size = 0

	for i := 0; i < oldCapacity; i++ {
		if oldStates[i] == bucketOccupied {
			t.internalInsert(oldKeyVals[i].key, oldKeyVals[i].value)
		}
	}

	t.freeStorage(oldBlock, oldKeyVals, oldStates)
}

// reallocateDiscard replaces the backing storage without carrying pairs
// over.
func (t *HashTable[K, V]) reallocateDiscard(newCapacity int) {
	t.Clear()
	t.freeStorage(t.block, t.keyVals, t.states)
	t.grabBlock(newCapacity)
	t.size = 0
}

// grabBlock allocates storage for newCapacity buckets. Pointer-free pairs
// get one raw block holding the key-value slots followed by the state
// bytes; pairs holding Go pointers get their slots from the pinned
// collector-visible path instead, with the state bytes allocated
// separately.
func (t *HashTable[K, V]) grabBlock(newCapacity int) {
	if hasPointers[keyValue[K, V]]() {
		t.block = nil
		t.keyVals = memory.NewBlock[keyValue[K, V]](newCapacity, memory.Here())
		t.states = t.alloc.AllocateTagged(newCapacity, memory.Here())
		if t.states == nil {
			panic("container: backing allocation failed")
		}
		t.capacity = newCapacity
		return
	}

	bytes := newCapacity * (sizeOf[keyValue[K, V]]() + 1)
	block := t.alloc.AllocateTagged(bytes, memory.Here())
	if block == nil {
		panic("container: backing allocation failed")
	}

	t.block = block
	t.keyVals = viewAt[keyValue[K, V]](block, 0, newCapacity)
	t.states = block[newCapacity*sizeOf[keyValue[K, V]]():]
	t.capacity = newCapacity
}

// freeStorage returns bucket storage obtained from grabBlock. All-nil
// arguments are a no-op.
func (t *HashTable[K, V]) freeStorage(block []byte, keyVals []keyValue[K, V], states []byte) {
	if block != nil {
		t.alloc.Free(block)
		return
	}
	memory.FreeBlock(keyVals)
	t.alloc.Free(states)
}
