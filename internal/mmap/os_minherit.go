//go:build freebsd || darwin

package mmap

import (
	"golang.org/x/sys/unix"
)

// osMinherit calls minherit(2), which x/sys/unix does not wrap.
func osMinherit(addr, size uintptr, inherit int) error {
	_, _, errno := unix.Syscall(unix.SYS_MINHERIT, addr, size, uintptr(inherit))
	if errno != 0 {
		return errno
	}
	return nil
}
