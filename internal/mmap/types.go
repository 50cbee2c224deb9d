package mmap

import (
	"errors"
	"strings"
)

// Hint is a set of advisory hints applied to a freshly placed region.
type Hint uint8

const (
	// HintNoReserve defers swap/commit accounting until pages are touched.
	HintNoReserve Hint = 1 << iota
	// HintNoHugePages keeps the region out of transparent huge pages.
	HintNoHugePages
	// HintRandomAccess disables read-ahead.
	HintRandomAccess
	// HintNoFork keeps the region out of child processes.
	HintNoFork
)

// Has reports whether all hints in flag are set.
func (h Hint) Has(flag Hint) bool {
	return h&flag == flag
}

func (h Hint) String() string {
	if h == 0 {
		return "none"
	}
	var names []string
	for _, n := range []struct {
		hint Hint
		name string
	}{
		{HintNoReserve, "noreserve"},
		{HintNoHugePages, "nohugepage"},
		{HintRandomAccess, "random"},
		{HintNoFork, "nofork"},
	} {
		if h.Has(n.hint) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// Placement describes how a platform honors a fixed-address request.
type Placement int

const (
	// PlacementUnsupported means the platform cannot map memory at all.
	PlacementUnsupported Placement = iota
	// PlacementNoReplace is Linux MAP_FIXED_NOREPLACE.
	PlacementNoReplace
	// PlacementExclusive is FreeBSD MAP_FIXED|MAP_EXCL.
	PlacementExclusive
	// PlacementReserve is a Windows VirtualAlloc reservation at the address.
	PlacementReserve
	// PlacementHint passes the address as a hint only. The result must be
	// verified and a check-then-place race remains possible.
	PlacementHint
)

// Atomic reports whether fixed placement either lands exactly at the
// requested address or fails, without a window for another mapper.
func (p Placement) Atomic() bool {
	switch p {
	case PlacementNoReplace, PlacementExclusive, PlacementReserve:
		return true
	default:
		return false
	}
}

func (p Placement) String() string {
	switch p {
	case PlacementNoReplace:
		return "noreplace"
	case PlacementExclusive:
		return "exclusive"
	case PlacementReserve:
		return "reserve"
	case PlacementHint:
		return "hint"
	default:
		return "unsupported"
	}
}

// Capabilities describes what the compiled-in platform provides.
type Capabilities struct {
	Placement Placement
	// InPlaceDrop is true when DropPages zeroes a region without remapping.
	InPlaceDrop bool
	// Hints lists the hints ApplyHints (or the reserve flags) enforce.
	Hints Hint
}

var (
	// ErrUnsupported is returned on targets without a virtual-memory backend.
	ErrUnsupported = errors.New("mmap: unsupported platform")
	// ErrDropUnsupported is returned by DropPages when the platform cannot
	// zero a region in place. Callers fall back to release and re-place.
	ErrDropUnsupported = errors.New("mmap: in-place page drop not supported")
)

// HintError reports which hint the operating system refused.
type HintError struct {
	Hint Hint
	Err  error
}

func (e *HintError) Error() string {
	return "mmap: hint " + e.Hint.String() + ": " + e.Err.Error()
}

func (e *HintError) Unwrap() error { return e.Err }
