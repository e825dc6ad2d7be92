// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"unsafe"
)

// rawBlocks holds every live platform allocation, keyed by block address.
// It is what makes freeing a foreign or already-freed block detectable.
var rawBlocks = make(map[uintptr][]byte)

func blockAddr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

// platformAllocate obtains n bytes from the platform. Returns nil when the
// platform refuses the request.
func platformAllocate(n int) []byte {
	b, err := osAllocate(n)
	if err != nil || b == nil {
		return nil
	}
	rawBlocks[blockAddr(b)] = b
	return b
}

// platformFree returns a block obtained from platformAllocate. The block
// must be live; anything else is a contract violation.
func platformFree(b []byte) {
	addr := blockAddr(b)
	block, ok := rawBlocks[addr]
	if !ok {
		panic("memory: free of unknown or already-freed block")
	}
	delete(rawBlocks, addr)
	if err := osFree(block); err != nil {
		panic("memory: platform free failed: " + err.Error())
	}
}
