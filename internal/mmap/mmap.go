package mmap

import "unsafe"

// Platform is the operating system's virtual-memory facility as seen by a
// mapping. Addresses and sizes are raw; no Platform method keeps state.
type Platform interface {
	// Reserve maps size bytes at an address chosen by the operating system.
	Reserve(size uintptr) (uintptr, error)
	// ReserveFixed maps size bytes at addr without replacing any existing
	// mapping. The returned address is what the operating system used.
	ReserveFixed(addr, size uintptr) (uintptr, error)
	// Release unmaps a region returned by Reserve or ReserveFixed.
	Release(addr, size uintptr) error
	// ApplyHints applies the platform's hint policy to a fresh region.
	ApplyHints(addr, size uintptr) error
	// DropPages zero-fills a region in place, keeping its address.
	// It returns ErrDropUnsupported if the platform cannot do that.
	DropPages(addr, size uintptr) error
	// PageSize is the alignment required for fixed placement.
	PageSize() uintptr
	Capabilities() Capabilities
}

// Default returns the platform compiled in for the current target.
func Default() Platform {
	return osPlatform{}
}

// Bytes returns a slice over size bytes at addr.
// The slice is valid only while the region stays mapped.
func Bytes(addr, size uintptr) []byte {
	if addr == 0 || size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size) //nolint:govet,gosec // addr is a live off-heap mapping
}
