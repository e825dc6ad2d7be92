// SPDX-License-Identifier: Apache-2.0

// Package container provides the growable Array and the open-addressing
// HashTable. Both delegate every allocation and free to a memory.Allocator
// and keep their elements in storage obtained from it.
//
// Pointer-free element types (integers, floats, pointer-free structs) are
// stored in raw blocks outside the Go heap, which the garbage collector
// never scans. Element types that hold Go pointers — strings, slices,
// pointers, pointerful structs — are detected at allocation time and
// stored in pinned collector-visible blocks instead, so their referents
// stay alive for exactly as long as they are stored.
//
// All containers assume single-threaded, exclusively-owned access.
package container
