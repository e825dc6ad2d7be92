// SPDX-License-Identifier: Apache-2.0

//go:build unix

package memory

import (
	"golang.org/x/sys/unix"
)

// osAllocate maps n bytes of anonymous, private memory. The region lives
// outside the Go heap, so the garbage collector never scans or moves it.
func osAllocate(n int) ([]byte, error) {
	return unix.Mmap(
		-1, 0, n,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE,
	)
}

func osFree(b []byte) error {
	return unix.Munmap(b)
}
