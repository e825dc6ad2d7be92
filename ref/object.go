// SPDX-License-Identifier: Apache-2.0

package ref

// Object is the embedded reference count. A type becomes shareable through
// Ref by embedding Object; the count itself stays reachable only from this
// package.
//
//	type Texture struct {
//		ref.Object
//		...
//	}
type Object struct {
	refs int
}

func (o *Object) retain() { o.refs++ }

func (o *Object) release() int {
	o.refs--
	return o.refs
}

func (o *Object) refCount() int { return o.refs }

// counted is the capability granted by embedding Object.
type counted interface {
	retain()
	release() int
	refCount() int
}

// Disposer is run when the last owner releases, before the object's
// storage is freed.
type Disposer interface {
	Dispose()
}

// asCounted asserts that the payload embeds Object.
func asCounted(p any) counted {
	c, ok := p.(counted)
	if !ok {
		panic("ref: payload type does not embed ref.Object")
	}
	return c
}
