// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"github.com/memkit/memkit/memory"
)

// Ref is a shared-ownership pointer over a payload that embeds Object.
// Every Clone adds an owner; the payload is destroyed exactly when the
// last owner releases. Moving a Ref (TakeFrom) transfers ownership
// without touching the count.
type Ref[T any] struct {
	ptr *T
}

// New allocates a zero payload through the tracked object path and
// returns the sole owner. Panics when T does not embed Object.
func New[T any]() Ref[T] {
	var check T
	asCounted(&check) // reject the type before allocating

	p := memory.NewObject[T](memory.Here())
	asCounted(p).retain()
	return Ref[T]{ptr: p}
}

// Adopt takes shared ownership of an object previously allocated with
// memory.NewObject, incrementing its count.
func Adopt[T any](p *T) Ref[T] {
	if p == nil {
		return Ref[T]{}
	}
	asCounted(p).retain()
	return Ref[T]{ptr: p}
}

// Clone adds an owner and returns it.
func (r Ref[T]) Clone() Ref[T] {
	if r.ptr == nil {
		return Ref[T]{}
	}
	asCounted(r.ptr).retain()
	return Ref[T]{ptr: r.ptr}
}

// Get returns the payload. Dereferencing an empty Ref is a contract
// violation.
func (r Ref[T]) Get() *T {
	if r.ptr == nil {
		panic("ref: get on an empty pointer")
	}
	return r.ptr
}

// Raw returns the payload without an ownership event, nil when empty. The
// caller must not outlive the owners keeping the object alive.
func (r Ref[T]) Raw() *T { return r.ptr }

// IsValid reports whether the Ref owns an object.
func (r Ref[T]) IsValid() bool { return r.ptr != nil }

// Count returns the current number of owners. Zero for an empty Ref.
func (r Ref[T]) Count() int {
	if r.ptr == nil {
		return 0
	}
	return asCounted(r.ptr).refCount()
}

// Release drops this owner. When the count reaches zero the payload's
// Dispose (if any) runs and its storage is freed. The Ref is empty
// afterwards; releasing an empty Ref is a no-op.
func (r *Ref[T]) Release() {
	if r.ptr == nil {
		return
	}
	if asCounted(r.ptr).release() == 0 {
		if d, ok := any(r.ptr).(Disposer); ok {
			d.Dispose()
		}
		memory.FreeObject(r.ptr)
	}
	r.ptr = nil
}

// TakeFrom moves ownership out of src into r. r's previous object is
// released first; src is empty afterwards. The count of the moved object
// does not change.
func (r *Ref[T]) TakeFrom(src *Ref[T]) {
	if r == src {
		return
	}
	r.Release()
	r.ptr = src.ptr
	src.ptr = nil
}
