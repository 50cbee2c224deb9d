package kdalloc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kdalloc/internal/mmap"
)

var (
	errOccupied  = errors.New("fake: range occupied")
	errNotMapped = errors.New("fake: range not mapped")
)

// fakePlatform simulates an address space without touching real memory.
// Its addresses must never be dereferenced.
type fakePlatform struct {
	pageSize uintptr
	next     uintptr
	regions  map[uintptr]uintptr

	inPlace        bool
	relocate       bool // ReserveFixed lands somewhere else
	stealOnRelease bool // another mapper grabs every released range
	reserveErr     error
	hintErr        error
	releaseErr     error
	dropErr        error

	reserves, fixed, releases, hints, drops int
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		pageSize: 4096,
		next:     0x40000000,
		regions:  make(map[uintptr]uintptr),
		inPlace:  true,
	}
}

func (f *fakePlatform) overlaps(addr, size uintptr) bool {
	for a, s := range f.regions {
		if addr < a+s && a < addr+size {
			return true
		}
	}
	return false
}

func (f *fakePlatform) take(size uintptr) uintptr {
	addr := f.next
	f.next += (size + f.pageSize - 1) &^ (f.pageSize - 1)
	f.next += f.pageSize // guard gap
	f.regions[addr] = size
	return addr
}

func (f *fakePlatform) Reserve(size uintptr) (uintptr, error) {
	f.reserves++
	if f.reserveErr != nil {
		return 0, f.reserveErr
	}
	return f.take(size), nil
}

func (f *fakePlatform) ReserveFixed(addr, size uintptr) (uintptr, error) {
	f.fixed++
	if f.reserveErr != nil {
		return 0, f.reserveErr
	}
	if f.relocate {
		return f.take(size), nil
	}
	if f.overlaps(addr, size) {
		return 0, errOccupied
	}
	f.regions[addr] = size
	return addr, nil
}

func (f *fakePlatform) Release(addr, size uintptr) error {
	f.releases++
	if f.releaseErr != nil {
		return f.releaseErr
	}
	if s, ok := f.regions[addr]; !ok || s != size {
		return errNotMapped
	}
	delete(f.regions, addr)
	if f.stealOnRelease {
		f.regions[addr] = size
	}
	return nil
}

func (f *fakePlatform) ApplyHints(addr, size uintptr) error {
	f.hints++
	return f.hintErr
}

func (f *fakePlatform) DropPages(addr, size uintptr) error {
	f.drops++
	if !f.inPlace {
		return mmap.ErrDropUnsupported
	}
	return f.dropErr
}

func (f *fakePlatform) PageSize() uintptr {
	return f.pageSize
}

func (f *fakePlatform) Capabilities() mmap.Capabilities {
	return mmap.Capabilities{Placement: mmap.PlacementNoReplace, InPlaceDrop: f.inPlace}
}

// requireIntegrityPanic runs fn and requires it to panic with an
// *IntegrityError for op.
func requireIntegrityPanic(t *testing.T, op string, fn func()) *IntegrityError {
	t.Helper()

	var got any
	func() {
		defer func() { got = recover() }()
		fn()
	}()

	require.NotNil(t, got, "expected panic")
	ie, ok := got.(*IntegrityError)
	require.True(t, ok, "panic value %T is not *IntegrityError", got)
	require.Equal(t, op, ie.Op)
	return ie
}
