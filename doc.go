// Package kdalloc provides deterministic virtual-memory mappings for
// allocators that need stable addresses across runs.
//
// A Mapping owns one anonymous, private, read-write region. It is either
// placed wherever the operating system likes (New) or exactly at a requested
// address (NewAt), and it can be reset to zero-filled contents without moving
// (Clear).
//
// # Quick Start
//
//	m, err := kdalloc.New(1 << 20)
//	if err != nil { ... }
//	defer m.Close()
//
//	base := m.BaseAddress()
//	copy(m.Bytes(), data)
//	m.Clear() // every byte reads as zero again, base is unchanged
//
// Reproducing a layout from an earlier run:
//
//	m, err := kdalloc.NewAt(base, 1<<20)
//	if errors.Is(err, kdalloc.ErrPlacementUnavailable) {
//	    // address taken or memory exhausted, m.Valid() == false
//	}
//
// # Fixed Placement
//
// NewAt never replaces an existing mapping and never reports success at a
// different address. Linux (4.17+) uses MAP_FIXED_NOREPLACE, FreeBSD
// MAP_FIXED|MAP_EXCL and Windows VirtualAlloc; all three are atomic. Darwin
// only has an address hint, so NewAt verifies the result and releases a
// misplaced region, and a race with a concurrent mapper in the same process
// remains possible. PlatformCapabilities reports which case applies.
//
// # Hints
//
// Every valid mapping carries the platform's hint policy: lazy commit
// (MAP_NORESERVE), no transparent huge pages, no read-ahead and no
// inheritance across fork, as far as the platform supports each.
//
// # Ownership
//
// A Mapping is move-only. Move, Assign and Swap transfer a region so that at
// most one Mapping owns it at any time; the moved-from Mapping is invalid.
// Close releases the region. There is no finalizer: release with defer.
//
// # Failure Model
//
// Placement failures are reported as an invalid Mapping together with an
// error. Losing track of the address space (a failed release, a refused hint
// on a verified region, a failed re-placement during Clear) panics with an
// *IntegrityError; using an invalid Mapping where a valid one is required
// panics with ErrInvalidMapping.
//
// # Thread Safety
//
// A Mapping has no internal locking. Different mappings own disjoint ranges
// and can be used concurrently. Callers are responsible for not requesting
// overlapping fixed addresses from different goroutines.
package kdalloc
