// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"github.com/memkit/memkit/memory"
)

// Unique is an exclusive-ownership pointer. It carries no reference count
// and has no Clone; ownership only ever moves. The payload does not need
// to embed Object.
type Unique[T any] struct {
	ptr *T
}

// NewUnique allocates a zero payload through the tracked object path and
// returns its sole owner.
func NewUnique[T any]() Unique[T] {
	return Unique[T]{ptr: memory.NewObject[T](memory.Here())}
}

// AdoptUnique takes exclusive ownership of an object previously allocated
// with memory.NewObject.
func AdoptUnique[T any](p *T) Unique[T] {
	return Unique[T]{ptr: p}
}

// Get returns the payload. Dereferencing an empty Unique is a contract
// violation.
func (u Unique[T]) Get() *T {
	if u.ptr == nil {
		panic("ref: get on an empty pointer")
	}
	return u.ptr
}

// IsValid reports whether the Unique owns an object.
func (u Unique[T]) IsValid() bool { return u.ptr != nil }

// Release destroys the owned object: Dispose (if implemented) runs, then
// the storage is freed. No-op when empty.
func (u *Unique[T]) Release() {
	if u.ptr == nil {
		return
	}
	if d, ok := any(u.ptr).(Disposer); ok {
		d.Dispose()
	}
	memory.FreeObject(u.ptr)
	u.ptr = nil
}

// TakeFrom moves ownership out of src into u, destroying u's previous
// object first. src is empty afterwards.
func (u *Unique[T]) TakeFrom(src *Unique[T]) {
	if u == src {
		return
	}
	u.Release()
	u.ptr = src.ptr
	src.ptr = nil
}
