//go:build darwin

package mmap

import (
	"golang.org/x/sys/unix"
)

const (
	anonFlags = unix.MAP_ANON | unix.MAP_PRIVATE

	// vmInheritNone is VM_INHERIT_NONE from mach/vm_inherit.h.
	vmInheritNone = 2
)

type osPlatform struct{}

func (osPlatform) Reserve(size uintptr) (uintptr, error) {
	return osMapAnon(0, size, anonFlags)
}

// ReserveFixed passes addr as a hint. Darwin has no MAP_FIXED variant that
// refuses to replace an existing mapping, and MAP_FIXED alone would clobber.
func (osPlatform) ReserveFixed(addr, size uintptr) (uintptr, error) {
	return osMapAnon(addr, size, anonFlags)
}

func (osPlatform) Release(addr, size uintptr) error {
	return osUnmap(addr, size)
}

func (osPlatform) ApplyHints(addr, size uintptr) error {
	if err := osAdvise(addr, size, unix.MADV_RANDOM); err != nil {
		return &HintError{Hint: HintRandomAccess, Err: err}
	}
	if err := osMinherit(addr, size, vmInheritNone); err != nil {
		return &HintError{Hint: HintNoFork, Err: err}
	}
	return nil
}

func (osPlatform) DropPages(addr, size uintptr) error {
	return ErrDropUnsupported
}

func (osPlatform) PageSize() uintptr {
	return osPageSize()
}

func (osPlatform) Capabilities() Capabilities {
	return Capabilities{
		Placement: PlacementHint,
		Hints:     HintRandomAccess | HintNoFork,
	}
}
