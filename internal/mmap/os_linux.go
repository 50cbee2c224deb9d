//go:build linux

package mmap

import (
	"errors"

	"golang.org/x/sys/unix"
)

const anonFlags = unix.MAP_ANON | unix.MAP_PRIVATE | unix.MAP_NORESERVE

type osPlatform struct{}

func (osPlatform) Reserve(size uintptr) (uintptr, error) {
	return osMapAnon(0, size, anonFlags)
}

// ReserveFixed uses MAP_FIXED_NOREPLACE. Kernels before 4.17 silently treat
// it as a hint, so the returned address may differ from addr there.
func (osPlatform) ReserveFixed(addr, size uintptr) (uintptr, error) {
	return osMapAnon(addr, size, anonFlags|unix.MAP_FIXED_NOREPLACE)
}

func (osPlatform) Release(addr, size uintptr) error {
	return osUnmap(addr, size)
}

// ApplyHints issues one madvise per hint; the advice values are not flags.
func (osPlatform) ApplyHints(addr, size uintptr) error {
	if err := osAdvise(addr, size, unix.MADV_NOHUGEPAGE); err != nil {
		// Kernels built without CONFIG_TRANSPARENT_HUGEPAGE reject the advice;
		// there are no huge pages to suppress then.
		if !errors.Is(err, unix.EINVAL) {
			return &HintError{Hint: HintNoHugePages, Err: err}
		}
	}
	if err := osAdvise(addr, size, unix.MADV_DONTFORK); err != nil {
		return &HintError{Hint: HintNoFork, Err: err}
	}
	if err := osAdvise(addr, size, unix.MADV_RANDOM); err != nil {
		return &HintError{Hint: HintRandomAccess, Err: err}
	}
	return nil
}

// DropPages relies on MADV_DONTNEED zero-filling private anonymous pages on
// next touch.
func (osPlatform) DropPages(addr, size uintptr) error {
	return osAdvise(addr, size, unix.MADV_DONTNEED)
}

func (osPlatform) PageSize() uintptr {
	return osPageSize()
}

func (osPlatform) Capabilities() Capabilities {
	return Capabilities{
		Placement:   PlacementNoReplace,
		InPlaceDrop: true,
		Hints:       HintNoReserve | HintNoHugePages | HintRandomAccess | HintNoFork,
	}
}
