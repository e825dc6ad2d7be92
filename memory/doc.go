// SPDX-License-Identifier: Apache-2.0

// Package memory is the process-wide allocation facade the rest of the
// module is built on. It wraps the platform allocator (anonymous mmap on
// unix, plain heap slices elsewhere) and optionally records every tracked
// allocation in the Tracker, keyed by block address.
//
// Three allocation paths exist:
//
//   - AllocateRaw/FreeRaw go straight to the platform and are never tracked.
//   - Allocate/AllocateTagged/Free additionally register and deregister the
//     block with the Tracker when one is active. Tagged allocations carry the
//     originating file, function and line.
//   - NewObject/FreeObject and NewBlock/FreeBlock manage Go-heap objects
//     and slices through the same tracked lifecycle; they exist for payloads
//     and element types that may contain Go pointers and therefore must stay
//     visible to the garbage collector.
//
// The Allocator interface is the capability containers are parameterized
// over; HeapAllocator forwards through the tracked path and
// UntrackedAllocator through the raw one.
//
// Nothing in this package is synchronized. Callers that share the facade
// across goroutines must add their own locking.
package memory
