// Package conv provides safe integer type conversion utilities.
//
// These functions perform bounds checking to prevent integer overflow when
// converting region sizes (uintptr) into the signed byte counts used by
// memory budgets.
package conv
