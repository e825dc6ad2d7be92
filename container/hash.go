// SPDX-License-Identifier: Apache-2.0

package container

import (
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

// Hasher maps a key to a 64-bit hash. The table only needs the hash to be
// stable for the lifetime of one table instance.
type Hasher[K any] func(K) uint64

var tableSeed = maphash.MakeSeed()

// defaultHasher hashes any comparable key through the runtime's hash,
// seeded once per process.
func defaultHasher[K comparable]() Hasher[K] {
	return func(key K) uint64 {
		return maphash.Comparable(tableSeed, key)
	}
}

// StringHasher hashes string keys with xxhash. Unlike the default hasher it
// is stable across processes.
func StringHasher(key string) uint64 {
	return xxhash.Sum64String(key)
}

// BytesHasher hashes byte content with xxhash. A []byte is not comparable
// and cannot key a table directly; wrap BytesHasher for fixed-size
// byte-array keys instead:
//
//	func(k [16]byte) uint64 { return container.BytesHasher(k[:]) }
func BytesHasher(key []byte) uint64 {
	return xxhash.Sum64(key)
}
