// SPDX-License-Identifier: Apache-2.0

package container

import (
	"reflect"
	"unsafe"

	"github.com/memkit/memkit/memory"
)

// sizeOf returns the byte size of one T.
func sizeOf[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// hasPointers reports whether values of T contain Go pointers the
// collector must keep scanning. Such values cannot live in raw platform
// blocks.
func hasPointers[T any]() bool {
	return typeHasPointers(reflect.TypeFor[T]())
}

func typeHasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.Slice, reflect.String:
		return true
	case reflect.Array:
		return t.Len() > 0 && typeHasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if typeHasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// makeSlice obtains storage for n values of T and returns it as a typed
// slice, nil when n is zero. Pointer-free types get a raw block from the
// allocator; pointer-holding types go through the pinned Go-heap path so
// their referents stay collector-visible. Allocation failure is a
// contract violation.
func makeSlice[T any](a memory.Allocator, n int, tag memory.Tag) []T {
	if n <= 0 {
		return nil
	}
	if hasPointers[T]() {
		return memory.NewBlock[T](n, tag)
	}
	b := a.AllocateTagged(n*sizeOf[T](), tag)
	if b == nil {
		panic("container: backing allocation failed")
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n)
}

// freeSlice returns storage obtained from makeSlice. Nil is a no-op.
func freeSlice[T any](a memory.Allocator, s []T) {
	if s == nil {
		return
	}
	if hasPointers[T]() {
		memory.FreeBlock(s)
		return
	}
	a.Free(sliceBytes(s))
}

// viewAt reinterprets n values of T starting at byte offset off of a block.
// The offset must be aligned for T.
func viewAt[T any](block []byte, off, n int) []T {
	if n <= 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(block[off:]))), n)
}

// sliceBytes reconstructs the byte block backing a slice obtained from
// the allocator, for handing back to it.
func sliceBytes[T any](s []T) []byte {
	if s == nil {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*sizeOf[T]())
}
