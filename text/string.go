// SPDX-License-Identifier: Apache-2.0

package text

import (
	"github.com/memkit/memkit/memory"
)

// SSOSize is the inline storage capacity in bytes, terminator included.
// Contents of up to SSOSize-1 bytes never touch the heap.
const SSOSize = 8

// String is a NUL-terminated UTF-8 string. Contents whose total byte count
// (terminator included) fits in SSOSize are stored inline; longer contents
// hold a heap block of exactly that many bytes. The zero value is the
// empty string.
//
// A String owns its heap block. Copying the struct aliases the block; use
// Clone for an independent copy and Release to return the block.
type String struct {
	heap      []byte
	sso       [SSOSize]byte
	byteCount int
}

// New creates a String holding content.
func New(content string) String {
	var s String
	s.Set(content)
	return s
}

// NewFromBytes creates a String holding a copy of content. The bytes must
// not contain a NUL.
func NewFromBytes(content []byte) String {
	var s String
	s.SetBytes(content)
	return s
}

// Set replaces the stored content. A heap block is reused only when the
// new total byte count exactly matches the old one; a content that fits
// inline always releases the heap block first.
func (s *String) Set(content string) {
	dst := s.reserve(len(content) + 1)
	copy(dst, content)
	dst[len(content)] = 0
}

// SetBytes is Set for a byte span.
func (s *String) SetBytes(content []byte) {
	dst := s.reserve(len(content) + 1)
	copy(dst, content)
	dst[len(content)] = 0
}

// Bytes returns the stored bytes including the terminator. The slice
// aliases the String's storage.
func (s *String) Bytes() []byte {
	if s.onHeap() {
		return s.heap
	}
	return s.sso[:s.count()]
}

// Content returns the content bytes without the terminator. The slice
// aliases the String's storage.
func (s *String) Content() []byte {
	b := s.Bytes()
	return b[:len(b)-1]
}

// CStr returns the NUL-terminated buffer, for code that walks to the
// terminator rather than using the slice length.
func (s *String) CStr() []byte { return s.Bytes() }

// String returns the content as a Go string.
func (s *String) String() string {
	return string(s.Content())
}

// ByteCount returns the stored byte count including the terminator.
// Minimum 1, the empty string.
func (s *String) ByteCount() int { return s.count() }

// Length returns the number of UTF-8 codepoints in the content.
func (s *String) Length() int { return Length(s.Bytes()) }

// IsInline reports whether the content lives in the inline buffer.
func (s *String) IsInline() bool { return !s.onHeap() }

// Equal reports whether two strings hold the same bytes, terminator
// included.
func (s *String) Equal(other *String) bool {
	return EqualBytes(s.Bytes(), other.Bytes())
}

// Clone returns an independent copy with its own storage.
func (s *String) Clone() String {
	return NewFromBytes(s.Content())
}

// MoveFrom transfers src's content into s, leaving src empty. A heap block
// moves by pointer, never by copy.
func (s *String) MoveFrom(src *String) {
	if s == src {
		return
	}
	s.Release()
	if src.onHeap() {
		s.heap = src.heap
	} else {
		s.sso = src.sso
	}
	s.byteCount = src.count()
	src.heap = nil
	src.byteCount = 0
	src.sso = [SSOSize]byte{}
}

// Release frees any heap block and resets s to the empty string.
func (s *String) Release() {
	if s.onHeap() {
		memory.Free(s.heap)
	}
	s.heap = nil
	s.byteCount = 0
	s.sso = [SSOSize]byte{}
}

// count normalizes the zero value to the empty string's byte count.
func (s *String) count() int {
	if s.byteCount == 0 {
		return 1
	}
	return s.byteCount
}

func (s *String) onHeap() bool { return s.count() > SSOSize }

// reserve arranges storage for total bytes of content plus terminator and
// returns the writable span.
func (s *String) reserve(total int) []byte {
	if total <= SSOSize {
		if s.onHeap() {
			memory.Free(s.heap)
			s.heap = nil
		}
		s.byteCount = total
		return s.sso[:total]
	}

	if s.onHeap() && s.count() == total {
		return s.heap
	}
	if s.onHeap() {
		memory.Free(s.heap)
	}
	s.heap = memory.AllocateTagged(total, memory.Here())
	s.byteCount = total
	return s.heap
}
