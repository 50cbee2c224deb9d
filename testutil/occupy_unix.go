//go:build linux || freebsd || darwin

package testutil

import (
	"testing"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Occupy maps size bytes directly through the operating system, bypassing
// kdalloc, and returns the address. The region is unmapped when the test ends.
func Occupy(tb testing.TB, size int) uintptr {
	tb.Helper()

	b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		tb.Fatalf("testutil: occupy %d bytes: %v", size, err)
	}
	tb.Cleanup(func() {
		if err := unix.Munmap(b); err != nil {
			tb.Errorf("testutil: release occupied region: %v", err)
		}
	})
	return uintptr(unsafe.Pointer(&b[0]))
}

// FreeAddress returns an address that was mapped and released again, so it is
// free unless another mapper takes it in the meantime.
func FreeAddress(tb testing.TB, size int) uintptr {
	tb.Helper()

	b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		tb.Fatalf("testutil: probe %d bytes: %v", size, err)
	}
	addr := uintptr(unsafe.Pointer(&b[0]))
	if err := unix.Munmap(b); err != nil {
		tb.Fatalf("testutil: release probe: %v", err)
	}
	return addr
}
