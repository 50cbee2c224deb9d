package kdalloc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kdalloc/resource"
)

func TestNewAt_AddressMismatch(t *testing.T) {
	f := newFakePlatform()
	f.relocate = true

	m, err := NewAt(0x10000000, 4096, withPlatform(f))
	require.Error(t, err)
	require.NotNil(t, m)
	assert.False(t, m.Valid())
	assert.Zero(t, m.Size())
	assert.ErrorIs(t, err, ErrAddressMismatch)
	assert.ErrorIs(t, err, ErrPlacementUnavailable)

	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "map", opErr.Op)
	assert.Equal(t, uintptr(0x10000000), opErr.Addr)

	// The misplaced region was torn down and no hint was applied to it.
	assert.Equal(t, 1, f.releases)
	assert.Empty(t, f.regions)
	assert.Zero(t, f.hints)
}

func TestNewAt_Occupied(t *testing.T) {
	f := newFakePlatform()
	occupied, err := New(8192, withPlatform(f))
	require.NoError(t, err)
	defer occupied.Close()

	// Overlapping the second page of the live region.
	m, err := NewAt(occupied.BaseAddress()+4096, 8192, withPlatform(f))
	assert.False(t, m.Valid())
	assert.ErrorIs(t, err, ErrPlacementUnavailable)
	assert.ErrorIs(t, err, errOccupied)
	assert.NotErrorIs(t, err, ErrAddressMismatch)
	assert.Len(t, f.regions, 1)
}

func TestNew_ReserveFailure(t *testing.T) {
	f := newFakePlatform()
	f.reserveErr = errors.New("fake: ENOMEM")

	m, err := New(1<<20, withPlatform(f))
	assert.False(t, m.Valid())
	assert.ErrorIs(t, err, ErrPlacementUnavailable)
	assert.ErrorIs(t, err, f.reserveErr)
	assert.Equal(t, 1, f.reserves, "construction must not retry")

	// Closing an invalid mapping is a no-op.
	m.Close()
	assert.Zero(t, f.releases)
}

func TestNew_InvalidArguments(t *testing.T) {
	f := newFakePlatform()

	m, err := New(0, withPlatform(f))
	assert.False(t, m.Valid())
	assert.ErrorIs(t, err, ErrInvalidSize)

	m, err = NewAt(0, 4096, withPlatform(f))
	assert.False(t, m.Valid())
	assert.ErrorIs(t, err, ErrInvalidAddress)

	m, err = NewAt(0x10000010, 4096, withPlatform(f))
	assert.False(t, m.Valid())
	assert.ErrorIs(t, err, ErrInvalidAddress)

	m, err = NewAt(0x10000000, 0, withPlatform(f))
	assert.False(t, m.Valid())
	assert.ErrorIs(t, err, ErrInvalidSize)

	assert.Zero(t, f.reserves+f.fixed)
}

func TestNew_HintFailureIsFatal(t *testing.T) {
	f := newFakePlatform()
	f.hintErr = errors.New("fake: madvise EINVAL")
	mc := &BasicMetricsCollector{}

	var m *Mapping
	ie := requireIntegrityPanic(t, "hint", func() {
		m, _ = New(4096, withPlatform(f), WithMetricsCollector(mc))
	})
	assert.ErrorIs(t, ie, f.hintErr)
	assert.Equal(t, uintptr(4096), ie.Size)
	assert.Nil(t, m)
	assert.Equal(t, int64(1), mc.GetStats().IntegrityViolations)
}

func TestClose_ReleaseFailureIsFatal(t *testing.T) {
	f := newFakePlatform()
	m, err := New(4096, withPlatform(f))
	require.NoError(t, err)
	addr := m.BaseAddress()

	f.releaseErr = errors.New("fake: munmap EINVAL")
	ie := requireIntegrityPanic(t, "unmap", m.Close)
	assert.Equal(t, addr, ie.Addr)
	assert.ErrorIs(t, ie, f.releaseErr)
}

func TestClear_InPlace(t *testing.T) {
	f := newFakePlatform()
	mc := &BasicMetricsCollector{}
	m, err := New(8192, withPlatform(f), WithMetricsCollector(mc))
	require.NoError(t, err)
	defer m.Close()
	addr := m.BaseAddress()

	m.Clear()
	assert.Equal(t, addr, m.BaseAddress())
	assert.Equal(t, uintptr(8192), m.Size())
	assert.Equal(t, 1, f.drops)
	assert.Zero(t, f.releases)
	assert.Equal(t, 1, f.hints)

	stats := mc.GetStats()
	assert.Equal(t, int64(1), stats.ClearCount)
	assert.Zero(t, stats.ClearRemapCount)
}

func TestClear_RemapFallback(t *testing.T) {
	f := newFakePlatform()
	f.inPlace = false
	mc := &BasicMetricsCollector{}
	m, err := New(8192, withPlatform(f), WithMetricsCollector(mc))
	require.NoError(t, err)
	defer m.Close()
	addr := m.BaseAddress()

	m.Clear()
	assert.True(t, m.Valid())
	assert.Equal(t, addr, m.BaseAddress())
	assert.Equal(t, uintptr(8192), m.Size())
	assert.Equal(t, 1, f.releases)
	assert.Equal(t, 1, f.fixed)
	assert.Equal(t, 2, f.hints, "hints are re-applied after re-placement")
	assert.Equal(t, uintptr(8192), f.regions[addr])

	stats := mc.GetStats()
	assert.Equal(t, int64(1), stats.ClearRemapCount)
	assert.Equal(t, int64(8192), stats.LiveBytes)
}

func TestClear_RemapRefusedIsFatal(t *testing.T) {
	f := newFakePlatform()
	f.inPlace = false
	m, err := New(4096, withPlatform(f))
	require.NoError(t, err)
	addr := m.BaseAddress()

	f.stealOnRelease = true
	ie := requireIntegrityPanic(t, "clear remap", m.Clear)
	assert.Equal(t, addr, ie.Addr)
	assert.ErrorIs(t, ie, ErrPlacementUnavailable)
	assert.False(t, m.Valid())
}

func TestClear_RemapMisplacedIsFatal(t *testing.T) {
	f := newFakePlatform()
	f.inPlace = false
	m, err := New(4096, withPlatform(f))
	require.NoError(t, err)

	f.relocate = true
	ie := requireIntegrityPanic(t, "clear remap", m.Clear)
	assert.ErrorIs(t, ie, ErrAddressMismatch)
	assert.Empty(t, f.regions)
}

func TestClear_DropFailureIsFatal(t *testing.T) {
	f := newFakePlatform()
	m, err := New(4096, withPlatform(f))
	require.NoError(t, err)
	defer m.Close()

	f.dropErr = errors.New("fake: madvise EAGAIN")
	ie := requireIntegrityPanic(t, "clear", m.Clear)
	assert.ErrorIs(t, ie, f.dropErr)
	assert.True(t, m.Valid())
}

func TestAssign_ReleasesPreviousRegion(t *testing.T) {
	f := newFakePlatform()
	a, err := New(4096, withPlatform(f))
	require.NoError(t, err)
	b, err := New(8192, withPlatform(f))
	require.NoError(t, err)
	oldA, oldB := a.BaseAddress(), b.BaseAddress()

	a.Assign(b)
	defer a.Close()

	assert.Equal(t, oldB, a.BaseAddress())
	assert.Equal(t, uintptr(8192), a.Size())
	assert.False(t, b.Valid())
	assert.Zero(t, b.Size())
	assert.Equal(t, 1, f.releases)
	assert.NotContains(t, f.regions, oldA)
	assert.Contains(t, f.regions, oldB)
}

func TestMemoryBudget(t *testing.T) {
	f := newFakePlatform()
	budget := resource.NewController(resource.Config{MemoryLimitBytes: 8192})

	a, err := New(4096, withPlatform(f), WithMemoryBudget(budget))
	require.NoError(t, err)
	assert.Equal(t, int64(4096), budget.MemoryUsage())

	b, err := New(8192, withPlatform(f), WithMemoryBudget(budget))
	assert.False(t, b.Valid())
	assert.ErrorIs(t, err, ErrPlacementUnavailable)
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
	assert.Equal(t, 1, f.reserves, "refused before reaching the OS")
	assert.Equal(t, int64(4096), budget.MemoryUsage())

	// A failed placement gives the charge back.
	f.reserveErr = errors.New("fake: ENOMEM")
	_, err = New(4096, withPlatform(f), WithMemoryBudget(budget))
	require.Error(t, err)
	assert.Equal(t, int64(4096), budget.MemoryUsage())
	f.reserveErr = nil

	// Moves and clears do not touch the budget.
	moved := a.Move()
	moved.Clear()
	assert.Equal(t, int64(4096), budget.MemoryUsage())

	moved.Close()
	assert.Zero(t, budget.MemoryUsage())
	moved.Close()
	assert.Zero(t, budget.MemoryUsage())
}

func TestMetrics_Lifecycle(t *testing.T) {
	f := newFakePlatform()
	mc := &BasicMetricsCollector{}

	m, err := New(4096, withPlatform(f), WithMetricsCollector(mc))
	require.NoError(t, err)
	_, err = NewAt(m.BaseAddress(), 4096, withPlatform(f), WithMetricsCollector(mc))
	require.Error(t, err)

	stats := mc.GetStats()
	assert.Equal(t, int64(2), stats.MapCount)
	assert.Equal(t, int64(1), stats.MapFixedCount)
	assert.Equal(t, int64(1), stats.MapErrors)
	assert.Equal(t, int64(4096), stats.LiveBytes)

	m.Close()
	stats = mc.GetStats()
	assert.Equal(t, int64(1), stats.UnmapCount)
	assert.Zero(t, stats.LiveBytes)
}

func TestSwap_CarriesOptions(t *testing.T) {
	f := newFakePlatform()
	mc := &BasicMetricsCollector{}
	m, err := New(4096, withPlatform(f), WithMetricsCollector(mc))
	require.NoError(t, err)

	// dst releases through the platform and collector it swapped in.
	var dst Mapping
	dst.o = newOptions(nil)
	dst.Swap(m)
	dst.Close()

	assert.Equal(t, 1, f.releases)
	assert.Equal(t, int64(1), mc.GetStats().UnmapCount)
}
