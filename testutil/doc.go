// Package testutil provides testing utilities for kdalloc.
//
// This package is intended for use in tests and benchmarks only.
//
// # Deterministic Content
//
//	rng := testutil.NewRNG(seed)
//	rng.FillNonZero(m.Bytes())
//	m.Clear()
//	testutil.IsZero(m.Bytes()) // true
//
// # Address Space Fixtures (Unix)
//
//	addr := testutil.Occupy(t, 4096)      // harness-owned mapping at addr
//	addr := testutil.FreeAddress(t, 4096) // recently released address
package testutil
