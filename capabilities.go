package kdalloc

import (
	"github.com/hupe1980/kdalloc/internal/mmap"
)

// Capabilities describes how the compiled-in platform backs mappings.
type Capabilities struct {
	// Placement names the fixed-placement primitive: "noreplace", "exclusive",
	// "reserve", "hint" or "unsupported".
	Placement string
	// AtomicFixedPlacement is false where NewAt can only pass the address as
	// a hint and verify afterwards. There a concurrent mapper could still take
	// the range between the kernel's check and the placement.
	AtomicFixedPlacement bool
	// InPlaceClear is true when Clear drops pages without remapping.
	InPlaceClear bool

	NoReserve    bool
	NoHugePages  bool
	RandomAccess bool
	NoFork       bool
}

// PlatformCapabilities reports what the current target supports.
func PlatformCapabilities() Capabilities {
	c := mmap.Default().Capabilities()
	return Capabilities{
		Placement:            c.Placement.String(),
		AtomicFixedPlacement: c.Placement.Atomic(),
		InPlaceClear:         c.InPlaceDrop,
		NoReserve:            c.Hints.Has(mmap.HintNoReserve),
		NoHugePages:          c.Hints.Has(mmap.HintNoHugePages),
		RandomAccess:         c.Hints.Has(mmap.HintRandomAccess),
		NoFork:               c.Hints.Has(mmap.HintNoFork),
	}
}

// PageSize returns the alignment NewAt requires: the page size on Unix and
// the allocation granularity on Windows.
func PageSize() uintptr {
	return mmap.Default().PageSize()
}
