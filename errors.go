package kdalloc

import (
	"errors"
	"fmt"
)

var (
	// ErrPlacementUnavailable is returned when the operating system cannot
	// provide the requested region: the fixed address is occupied, address
	// space or commit is exhausted, or the memory budget refused the size.
	ErrPlacementUnavailable = errors.New("kdalloc: placement unavailable")

	// ErrAddressMismatch is returned when the operating system placed a fixed
	// request somewhere else. The stray region has already been released.
	// It matches ErrPlacementUnavailable as well.
	ErrAddressMismatch = fmt.Errorf("%w: mapped at a different address", ErrPlacementUnavailable)

	// ErrInvalidSize is returned for a zero size.
	ErrInvalidSize = errors.New("kdalloc: invalid size")

	// ErrInvalidAddress is returned for a zero or misaligned fixed address.
	ErrInvalidAddress = errors.New("kdalloc: invalid address")

	// ErrInvalidMapping is the panic value for using an invalid mapping where
	// a valid one is required.
	ErrInvalidMapping = errors.New("kdalloc: invalid mapping")
)

// OpError describes a failed mapping operation.
//
// The sentinel (ErrPlacementUnavailable, ErrAddressMismatch, ...) and the
// operating system error (if any) can both be matched via errors.Is.
type OpError struct {
	Op   string
	Addr uintptr // requested address, 0 if the OS was free to choose
	Size uintptr
	Err  error
}

func (e *OpError) Error() string {
	if e.Addr != 0 {
		return fmt.Sprintf("kdalloc: %s %#x (%d bytes): %v", e.Op, e.Addr, e.Size, e.Err)
	}
	return fmt.Sprintf("kdalloc: %s (%d bytes): %v", e.Op, e.Size, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// IntegrityError is the panic value raised when a region that was verified
// sound can no longer be released, hinted or re-placed. The process has lost
// its model of its own address space and must not continue.
type IntegrityError struct {
	Op   string
	Addr uintptr
	Size uintptr
	Err  error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("kdalloc: integrity violation: %s %#x (%d bytes): %v", e.Op, e.Addr, e.Size, e.Err)
}

func (e *IntegrityError) Unwrap() error { return e.Err }
