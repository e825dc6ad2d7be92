// SPDX-License-Identifier: Apache-2.0

//go:build !unix

package memory

// On platforms without anonymous mmap the blocks come from the Go heap.
// The rawBlocks registry keeps them reachable until they are freed, which
// preserves the explicit allocate/free lifecycle.

func osAllocate(n int) ([]byte, error) {
	return make([]byte, n), nil
}

func osFree(b []byte) error {
	// Dropping the registry reference is the release; the collector
	// reclaims the block.
	return nil
}
