// SPDX-License-Identifier: Apache-2.0

// Package text provides a NUL-terminated UTF-8 string with small-string
// optimization. Short contents live inline in the String value; anything
// longer holds a heap block obtained from the tracked allocation facade,
// sized to the content exactly.
//
// The free functions ByteCount, Length and EqualBytes operate on raw
// NUL-terminated buffers and are usable without a String value.
package text
