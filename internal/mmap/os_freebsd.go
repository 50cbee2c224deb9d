//go:build freebsd

package mmap

import (
	"golang.org/x/sys/unix"
)

const (
	anonFlags = unix.MAP_ANON | unix.MAP_PRIVATE

	// mapExcl is MAP_EXCL from sys/mman.h: with MAP_FIXED, fail instead of
	// replacing an existing mapping.
	mapExcl = 0x00004000
	// inheritNone is INHERIT_NONE from sys/mman.h.
	inheritNone = 2
)

type osPlatform struct{}

func (osPlatform) Reserve(size uintptr) (uintptr, error) {
	return osMapAnon(0, size, anonFlags)
}

func (osPlatform) ReserveFixed(addr, size uintptr) (uintptr, error) {
	return osMapAnon(addr, size, anonFlags|unix.MAP_FIXED|mapExcl)
}

func (osPlatform) Release(addr, size uintptr) error {
	return osUnmap(addr, size)
}

func (osPlatform) ApplyHints(addr, size uintptr) error {
	if err := osAdvise(addr, size, unix.MADV_RANDOM); err != nil {
		return &HintError{Hint: HintRandomAccess, Err: err}
	}
	if err := osMinherit(addr, size, inheritNone); err != nil {
		return &HintError{Hint: HintNoFork, Err: err}
	}
	return nil
}

// DropPages is unsupported: MADV_FREE does not guarantee zeroed pages.
func (osPlatform) DropPages(addr, size uintptr) error {
	return ErrDropUnsupported
}

func (osPlatform) PageSize() uintptr {
	return osPageSize()
}

func (osPlatform) Capabilities() Capabilities {
	return Capabilities{
		Placement: PlacementExclusive,
		Hints:     HintRandomAccess | HintNoFork,
	}
}
