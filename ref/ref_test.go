// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/memkit/memkit/memory"
)

// payload counts its own disposals so tests can verify the payload is
// destroyed exactly once.
type payload struct {
	Object
	value    int
	disposed *int
}

func (p *payload) Dispose() {
	if p.disposed != nil {
		*p.disposed++
	}
}

func TestRefNewHasCountOne(t *testing.T) {
	r := New[payload]()
	require.True(t, r.IsValid())
	require.Equal(t, 1, r.Count())
	require.Equal(t, 0, r.Get().value) // zero-initialized
	r.Release()
}

func TestRefCloneAndRelease(t *testing.T) {
	disposals := 0

	r := New[payload]()
	r.Get().disposed = &disposals

	c := r.Clone()
	require.Equal(t, 2, r.Count())
	require.Equal(t, 2, c.Count())
	require.Same(t, r.Get(), c.Get())

	// Releasing one owner keeps the object alive
	c.Release()
	require.False(t, c.IsValid())
	require.True(t, r.IsValid())
	require.Equal(t, 1, r.Count())
	require.Equal(t, 0, disposals)

	// Releasing the last owner destroys exactly once
	r.Release()
	require.False(t, r.IsValid())
	require.Equal(t, 1, disposals)
}

func TestRefReleaseEmptyIsNoOp(t *testing.T) {
	var r Ref[payload]
	require.False(t, r.IsValid())
	require.Equal(t, 0, r.Count())
	r.Release()
	r.Release()
}

func TestRefGetEmptyPanics(t *testing.T) {
	var r Ref[payload]
	require.PanicsWithValue(t, "ref: get on an empty pointer", func() {
		r.Get()
	})
	require.Nil(t, r.Raw())
}

func TestRefTakeFrom(t *testing.T) {
	disposals := 0
	src := New[payload]()
	src.Get().disposed = &disposals
	src.Get().value = 7

	var dst Ref[payload]
	dst.TakeFrom(&src)

	require.False(t, src.IsValid())
	require.True(t, dst.IsValid())
	require.Equal(t, 7, dst.Get().value)
	// Moving is not an ownership event
	require.Equal(t, 1, dst.Count())

	dst.Release()
	require.Equal(t, 1, disposals)
}

func TestRefTakeFromReleasesPrevious(t *testing.T) {
	firstDisposals := 0
	dst := New[payload]()
	dst.Get().disposed = &firstDisposals

	src := New[payload]()
	dst.TakeFrom(&src)

	// dst's previous object lost its last owner
	require.Equal(t, 1, firstDisposals)
	dst.Release()
}

func TestRefAdopt(t *testing.T) {
	r := New[payload]()
	raw := r.Get()

	a := Adopt(raw)
	require.Equal(t, 2, a.Count())
	a.Release()
	require.Equal(t, 1, r.Count())
	r.Release()
}

type plain struct {
	value int
}

func TestRefRequiresEmbeddedObject(t *testing.T) {
	require.PanicsWithValue(t, "ref: payload type does not embed ref.Object", func() {
		New[plain]()
	})
}

func TestRefTrackedAllocation(t *testing.T) {
	memory.Initialize(memory.Options{EnableTracker: true})
	defer memory.Shutdown()

	r := New[payload]()
	require.Equal(t, uint64(1), memory.Stats().CurrentAllocations)
	r.Release()
	require.Equal(t, uint64(0), memory.Stats().CurrentAllocations)
}

func TestUniqueLifecycle(t *testing.T) {
	disposals := 0

	u := NewUnique[payload]()
	require.True(t, u.IsValid())
	u.Get().disposed = &disposals
	u.Get().value = 3

	u.Release()
	require.False(t, u.IsValid())
	require.Equal(t, 1, disposals)

	// Releasing an empty Unique is a no-op
	u.Release()
	require.Equal(t, 1, disposals)
}

func TestUniqueWorksWithoutObject(t *testing.T) {
	u := NewUnique[plain]()
	u.Get().value = 5
	require.Equal(t, 5, u.Get().value)
	u.Release()
}

func TestUniqueGetEmptyPanics(t *testing.T) {
	var u Unique[plain]
	require.PanicsWithValue(t, "ref: get on an empty pointer", func() {
		u.Get()
	})
}

func TestUniqueTakeFrom(t *testing.T) {
	previousDisposals := 0
	dst := NewUnique[payload]()
	dst.Get().disposed = &previousDisposals

	src := NewUnique[payload]()
	src.Get().value = 9

	dst.TakeFrom(&src)
	require.False(t, src.IsValid())
	require.Equal(t, 9, dst.Get().value)
	// dst's previous object was destroyed by the move
	require.Equal(t, 1, previousDisposals)

	dst.Release()
}
