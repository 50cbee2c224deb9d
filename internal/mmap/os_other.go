//go:build !linux && !freebsd && !darwin && !windows

package mmap

import "os"

type osPlatform struct{}

func (osPlatform) Reserve(size uintptr) (uintptr, error) {
	return 0, ErrUnsupported
}

func (osPlatform) ReserveFixed(addr, size uintptr) (uintptr, error) {
	return 0, ErrUnsupported
}

func (osPlatform) Release(addr, size uintptr) error {
	return ErrUnsupported
}

func (osPlatform) ApplyHints(addr, size uintptr) error {
	return ErrUnsupported
}

func (osPlatform) DropPages(addr, size uintptr) error {
	return ErrUnsupported
}

func (osPlatform) PageSize() uintptr {
	return uintptr(os.Getpagesize())
}

func (osPlatform) Capabilities() Capabilities {
	return Capabilities{Placement: PlacementUnsupported}
}
