//go:build windows

package mmap

import (
	"golang.org/x/sys/windows"
)

// allocationGranularity is the alignment of VirtualAlloc reservations.
const allocationGranularity = 64 << 10

type osPlatform struct{}

// Reserve uses VirtualAlloc with MEM_RESERVE|MEM_COMMIT. Committed pages are
// still demand-zero, so untouched memory costs commit charge only.
func (osPlatform) Reserve(size uintptr) (uintptr, error) {
	return windows.VirtualAlloc(0, size, windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
}

// ReserveFixed fails with ERROR_INVALID_ADDRESS when any part of the range is
// already reserved.
func (osPlatform) ReserveFixed(addr, size uintptr) (uintptr, error) {
	return windows.VirtualAlloc(addr, size, windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
}

func (osPlatform) Release(addr, size uintptr) error {
	// MEM_RELEASE frees the whole reservation and requires a zero size.
	return windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
}

// ApplyHints is a no-op: Windows has no fork, no transparent huge pages and
// no read-ahead on anonymous memory.
func (osPlatform) ApplyHints(addr, size uintptr) error {
	return nil
}

// DropPages decommits and recommits the range inside the reservation.
// Recommitted pages read as zero.
func (osPlatform) DropPages(addr, size uintptr) error {
	if err := windows.VirtualFree(addr, size, windows.MEM_DECOMMIT); err != nil {
		return err
	}
	got, err := windows.VirtualAlloc(addr, size, windows.MEM_COMMIT, windows.PAGE_READWRITE)
	if err != nil {
		return err
	}
	if got != addr {
		return windows.ERROR_INVALID_ADDRESS
	}
	return nil
}

func (osPlatform) PageSize() uintptr {
	return allocationGranularity
}

func (osPlatform) Capabilities() Capabilities {
	return Capabilities{
		Placement:   PlacementReserve,
		InPlaceDrop: true,
	}
}
