// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"log/slog"
	"runtime"
	"unsafe"
)

// Options configures the memory facade.
type Options struct {
	// EnableTracker turns on allocation bookkeeping for the tracked paths.
	EnableTracker bool

	// Logger receives the tracker's diagnostic output. Nil means discard.
	Logger *slog.Logger
}

type memoryData struct {
	opts Options
}

var state *memoryData

// Initialize sets up the facade and, when requested, the Tracker.
// The facade is usable without initialization; only tracking requires it.
func Initialize(opts Options) {
	state = &memoryData{opts: opts}
	if opts.EnableTracker {
		initTracker(opts.Logger)
	}
}

// Shutdown tears down the Tracker (if active) and the facade state.
// Live tracked allocations at shutdown are reported through the logger.
func Shutdown() {
	if TrackerActive() {
		shutdownTracker()
	}
	state = nil
}

// Tag identifies the call site that requested an allocation.
type Tag struct {
	File     string
	Function string
	Line     int
}

// Here captures the caller's file, function and line as an allocation Tag.
func Here() Tag {
	pc, file, line, ok := runtime.Caller(1)
	if !ok {
		return Tag{}
	}
	tag := Tag{File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		tag.Function = fn.Name()
	}
	return tag
}

// AllocateRaw obtains n bytes from the platform, bypassing the tracker.
// Zero-byte requests return nil without touching the platform.
func AllocateRaw(n int) []byte {
	if n <= 0 {
		return nil
	}
	return platformAllocate(n)
}

// Allocate obtains n bytes through the tracked path. A nil return means the
// platform refused the request.
func Allocate(n int) []byte {
	if n <= 0 {
		return nil
	}
	b := platformAllocate(n)
	if b == nil {
		return nil
	}
	if TrackerActive() {
		trackerRegister(blockAddr(b), n, Tag{})
	}
	return b
}

// AllocateTagged is Allocate with call-site information attached to the
// tracker record. Build the tag with Here at the call site.
func AllocateTagged(n int, tag Tag) []byte {
	if n <= 0 {
		return nil
	}
	b := platformAllocate(n)
	if b == nil {
		return nil
	}
	if TrackerActive() {
		trackerRegister(blockAddr(b), n, tag)
	}
	return b
}

// Free releases a block obtained from Allocate or AllocateTagged.
// Freeing nil is a no-op. Freeing a block the tracker does not know about
// is a contract violation and panics.
func Free(b []byte) {
	if b == nil {
		return
	}
	if TrackerActive() {
		trackerDeregister(blockAddr(b))
	}
	platformFree(b)
}

// FreeRaw releases a block obtained from AllocateRaw.
func FreeRaw(b []byte) {
	if b == nil {
		return
	}
	platformFree(b)
}

// pinnedObjects keeps tracked Go-heap objects reachable until they are
// explicitly freed, so their lifetime matches the manual lifecycle even
// though the collector owns the storage.
var pinnedObjects = make(map[uintptr]any)

// NewObject allocates a zeroed T through the tracked object path. The object
// lives on the Go heap (it may contain Go pointers) but is registered with
// the tracker and stays alive until FreeObject.
func NewObject[T any](tag Tag) *T {
	p := new(T)
	addr := uintptr(unsafe.Pointer(p))
	pinnedObjects[addr] = p
	if TrackerActive() {
		trackerRegister(addr, int(unsafe.Sizeof(*p)), tag)
	}
	return p
}

// NewBlock allocates a zeroed slice of count T on the Go heap, pinned and
// registered with the tracker like NewObject. Backing storage for element
// types that hold Go pointers comes from here: the collector never scans
// raw platform blocks, so referents stored in one would be freed out from
// under it.
func NewBlock[T any](count int, tag Tag) []T {
	if count <= 0 {
		return nil
	}
	s := make([]T, count)
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(s)))
	pinnedObjects[addr] = s
	if TrackerActive() {
		var zero T
		trackerRegister(addr, count*int(unsafe.Sizeof(zero)), tag)
	}
	return s
}

// FreeBlock releases a slice obtained from NewBlock. Freeing nil is a
// no-op; freeing an unmanaged or already-freed block panics.
func FreeBlock[T any](s []T) {
	if s == nil {
		return
	}
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(s)))
	if _, ok := pinnedObjects[addr]; !ok {
		panic("memory: free of unmanaged object")
	}
	if TrackerActive() {
		trackerDeregister(addr)
	}
	delete(pinnedObjects, addr)
}

// FreeObject releases an object obtained from NewObject. Freeing nil is a
// no-op; freeing an unmanaged or already-freed object panics.
func FreeObject[T any](p *T) {
	if p == nil {
		return
	}
	addr := uintptr(unsafe.Pointer(p))
	if _, ok := pinnedObjects[addr]; !ok {
		panic("memory: free of unmanaged object")
	}
	if TrackerActive() {
		trackerDeregister(addr)
	}
	delete(pinnedObjects, addr)
}
