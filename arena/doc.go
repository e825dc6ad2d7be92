// SPDX-License-Identifier: Apache-2.0

// Package arena implements a linear bump allocator over a single memory
// Buffer. Allocations advance a cursor through the block and are never
// reclaimed individually: Reset rewinds the cursor (invalidating every
// previously returned slice by convention), Release frees the block.
//
// The Pool keeps released arenas around for reuse and sizes new ones from
// the peak usage recorded per use case.
package arena
