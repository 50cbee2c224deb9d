package kdalloc

import (
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/kdalloc/internal/conv"
	"github.com/hupe1980/kdalloc/internal/mmap"
	"github.com/hupe1980/kdalloc/resource"
)

// noCopy makes go vet's copylocks check flag copies of a Mapping.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Mapping exclusively owns an anonymous private read-write region.
//
// A Mapping is either valid (it owns exactly Size bytes at BaseAddress) or
// invalid (it owns nothing). Construction failures and moves produce invalid
// mappings. Ownership is transferred with Move, Assign or Swap and never
// shared; a Mapping must not be copied.
//
// A Mapping has no internal synchronization. Distinct mappings are
// independent and may be used from different goroutines.
type Mapping struct {
	_ noCopy

	base uintptr // 0 when invalid
	size uintptr
	o    *options
}

// New maps size bytes at an address chosen by the operating system.
//
// On failure the returned mapping is invalid (never nil) and the error wraps
// ErrPlacementUnavailable or ErrInvalidSize. There is no retry.
func New(size uintptr, opts ...Option) (*Mapping, error) {
	m := &Mapping{o: newOptions(opts)}
	if size == 0 {
		return m, &OpError{Op: "map", Err: ErrInvalidSize}
	}
	return m, m.construct(0, size)
}

// NewAt maps size bytes exactly at addr, which must be non-zero and aligned
// to PageSize.
//
// The mapping never replaces an existing one. If addr is occupied, or the
// operating system places the region anywhere else, the returned mapping is
// invalid and the error wraps ErrPlacementUnavailable (and ErrAddressMismatch
// for a relocation). A valid mapping from NewAt always has BaseAddress addr.
func NewAt(addr, size uintptr, opts ...Option) (*Mapping, error) {
	m := &Mapping{o: newOptions(opts)}
	if size == 0 {
		return m, &OpError{Op: "map", Addr: addr, Err: ErrInvalidSize}
	}
	if addr == 0 || addr%m.o.platform.PageSize() != 0 {
		return m, &OpError{Op: "map", Addr: addr, Size: size, Err: ErrInvalidAddress}
	}
	return m, m.construct(addr, size)
}

func (m *Mapping) construct(addr, size uintptr) error {
	start := time.Now()
	err := m.charge(size)
	if err == nil {
		m.size = size
		if err = m.place(addr); err != nil {
			m.size = 0
			m.refund(size)
		}
	}
	if err != nil {
		err = &OpError{Op: "map", Addr: addr, Size: size, Err: err}
	}

	m.o.metricsCollector.RecordMap(addr != 0, size, time.Since(start), err)
	m.o.logger.LogMap(addr, m.base, size, err)
	return err
}

// place maps m.size bytes at addr (0: anywhere), verifies the address and
// applies the hint policy. On error m stays invalid.
func (m *Mapping) place(addr uintptr) error {
	p := m.o.platform

	var (
		got uintptr
		err error
	)
	if addr == 0 {
		got, err = p.Reserve(m.size)
	} else {
		got, err = p.ReserveFixed(addr, m.size)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPlacementUnavailable, err)
	}

	if addr != 0 && got != addr {
		if err := p.Release(got, m.size); err != nil {
			m.fatal("unmap misplaced", got, err)
		}
		return fmt.Errorf("%w: got %#x", ErrAddressMismatch, got)
	}

	m.base = got
	if err := p.ApplyHints(m.base, m.size); err != nil {
		m.fatal("hint", m.base, err)
	}
	return nil
}

func (m *Mapping) charge(size uintptr) error {
	if m.o.budget == nil {
		return nil
	}
	n, err := conv.UintptrToInt64(size)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPlacementUnavailable, err)
	}
	if !m.o.budget.TryAcquireMemory(n) {
		return fmt.Errorf("%w: %w", ErrPlacementUnavailable, resource.ErrMemoryLimitExceeded)
	}
	return nil
}

func (m *Mapping) refund(size uintptr) {
	if m.o.budget == nil {
		return
	}
	// charge already proved the conversion.
	n, _ := conv.UintptrToInt64(size)
	m.o.budget.ReleaseMemory(n)
}

// Valid reports whether m owns a region. It makes no system call.
func (m *Mapping) Valid() bool {
	return m != nil && m.base != 0
}

// BaseAddress returns the start of the region. It panics with
// ErrInvalidMapping if m is invalid.
func (m *Mapping) BaseAddress() uintptr {
	m.mustBeValid()
	return m.base
}

// Size returns the size of the region in bytes, or 0 if m is invalid.
func (m *Mapping) Size() uintptr {
	if !m.Valid() {
		return 0
	}
	return m.size
}

// Bytes returns the region as a byte slice. It panics with ErrInvalidMapping
// if m is invalid.
// Warning: The slice is valid only until the region is released or cleared
// through the remap fallback; do not keep it across Close.
func (m *Mapping) Bytes() []byte {
	m.mustBeValid()
	return mmap.Bytes(m.base, m.size)
}

// Clear resets the region to freshly mapped state: every byte reads as zero.
// BaseAddress and Size are unchanged. It panics with ErrInvalidMapping if m is
// invalid, and with an *IntegrityError if the region cannot be restored.
func (m *Mapping) Clear() {
	m.mustBeValid()
	start := time.Now()

	inPlace := true
	if err := m.o.platform.DropPages(m.base, m.size); err != nil {
		if !errors.Is(err, mmap.ErrDropUnsupported) {
			m.fatal("clear", m.base, err)
		}
		inPlace = false
		m.remap()
	}

	m.o.metricsCollector.RecordClear(inPlace, m.size, time.Since(start))
	m.o.logger.LogClear(m.base, m.size, inPlace)
}

// remap releases the region and places it again at the same address. We just
// owned the range, so a failure means something else took the address space.
func (m *Mapping) remap() {
	addr := m.base
	if err := m.o.platform.Release(addr, m.size); err != nil {
		m.fatal("clear unmap", addr, err)
	}
	m.base = 0
	if err := m.place(addr); err != nil {
		m.fatal("clear remap", addr, err)
	}
}

// Move transfers the region to a new Mapping and leaves m invalid.
// Moving an invalid mapping yields an invalid mapping.
func (m *Mapping) Move() *Mapping {
	dst := &Mapping{o: m.o}
	dst.Swap(m)
	return dst
}

// Assign moves src into m. The region m owned before is released, src is
// left invalid. Assigning a mapping to itself does nothing.
func (m *Mapping) Assign(src *Mapping) {
	if src == m {
		return
	}
	m.Swap(src)
	src.Close()
}

// Swap exchanges the regions (and their options) of m and other.
func (m *Mapping) Swap(other *Mapping) {
	if other == m {
		return
	}
	m.base, other.base = other.base, m.base
	m.size, other.size = other.size, m.size
	m.o, other.o = other.o, m.o
}

// Close releases the region. It is a no-op on invalid mappings and may be
// called more than once. A failing release panics with an *IntegrityError.
func (m *Mapping) Close() {
	if !m.Valid() {
		return
	}
	start := time.Now()
	addr, size := m.base, m.size
	if err := m.o.platform.Release(addr, size); err != nil {
		m.fatal("unmap", addr, err)
	}
	m.base, m.size = 0, 0
	m.refund(size)

	m.o.metricsCollector.RecordUnmap(size, time.Since(start))
	m.o.logger.LogUnmap(addr, size)
}

func (m *Mapping) mustBeValid() {
	if !m.Valid() {
		panic(ErrInvalidMapping)
	}
}

func (m *Mapping) fatal(op string, addr uintptr, err error) {
	e := &IntegrityError{Op: op, Addr: addr, Size: m.size, Err: err}
	m.o.logger.LogIntegrity(e)
	m.o.metricsCollector.RecordIntegrityViolation(op)
	panic(e)
}
