// Package mmap is the virtual-memory capability behind kdalloc mappings.
//
// # Overview
//
// A Platform reserves anonymous private read-write memory, either at an
// address chosen by the operating system or at a caller-chosen address, and
// releases it again. It also applies the advisory hints a deterministic
// allocator wants on its regions and, where the operating system allows it,
// drops committed pages without giving up the reservation.
//
// # Platform Support
//
// Exactly one implementation is compiled in per target:
//
//   - Linux: mmap(2) with MAP_NORESERVE, MAP_FIXED_NOREPLACE for fixed
//     placement, madvise(2) for hints and MADV_DONTNEED to drop pages
//   - FreeBSD: mmap(2) with MAP_FIXED|MAP_EXCL, minherit(2) for fork hints
//   - Darwin: mmap(2) with an address hint that must be verified by the caller,
//     minherit(2) for fork hints
//   - Windows: VirtualAlloc/VirtualFree, MEM_DECOMMIT to drop pages
//   - Everything else: every operation fails with ErrUnsupported
//
// # Fixed Placement
//
// ReserveFixed never overwrites an existing mapping. It returns the address
// the operating system actually used, which may differ from the requested one
// on platforms whose Capabilities report a non-atomic Placement. Callers must
// compare and release on mismatch.
package mmap
