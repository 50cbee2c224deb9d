//go:build linux || freebsd || darwin

package mmap

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

const prot = unix.PROT_READ | unix.PROT_WRITE

func osMapAnon(addr, size uintptr, flags int) (uintptr, error) {
	p, err := unix.MmapPtr(-1, 0, unsafe.Pointer(addr), size, prot, flags) //nolint:govet,gosec // addr is a placement request, not a Go pointer
	if err != nil {
		return 0, err
	}
	return uintptr(p), nil
}

func osUnmap(addr, size uintptr) error {
	return unix.MunmapPtr(unsafe.Pointer(addr), size) //nolint:govet,gosec // addr is a live off-heap mapping
}

func osAdvise(addr, size uintptr, advice int) error {
	return unix.Madvise(Bytes(addr, size), advice)
}

func osPageSize() uintptr {
	return uintptr(unix.Getpagesize())
}
