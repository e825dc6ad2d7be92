// SPDX-License-Identifier: Apache-2.0

package text

// ByteCount returns the number of content bytes in a NUL-terminated buffer,
// excluding the terminator.
func ByteCount(p []byte) int {
	n := 0
	for p[n] != 0 {
		n++
	}
	return n
}

// Length returns the number of UTF-8 codepoints in a NUL-terminated buffer.
// Sequences are sized by their lead byte; continuation bytes are not
// validated.
func Length(p []byte) int {
	count := 0
	for i := 0; p[i] != 0; count++ {
		i += sequenceSize(p[i])
	}
	return count
}

// EqualBytes reports whether two NUL-terminated buffers hold the same
// bytes, terminator included.
func EqualBytes(a, b []byte) bool {
	i := 0
	for {
		if a[i] != b[i] {
			return false
		}
		if a[i] == 0 {
			return true
		}
		i++
	}
}

// sequenceSize returns the byte length of the UTF-8 sequence announced by
// a lead byte.
func sequenceSize(lead byte) int {
	switch {
	case lead&0xE0 == 0xC0:
		return 2
	case lead&0xF0 == 0xE0:
		return 3
	case lead&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}
