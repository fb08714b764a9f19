// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package invariants gates expensive or strict assertions behind the
// "invariants" and "race" build tags.
//
// Statistics are updated on hot paths, so production builds tolerate
// programming errors (an unregistered statistic name, a use after close) and
// report them instead of crashing. Invariant builds turn the same conditions
// into panics so tests catch them at the call site.
package invariants

import "fmt"

// Integer is a constraint that permits any integer type.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// CheckBounds panics if i is not in the range [0, n) and invariants are
// enabled. It is a no-op otherwise.
func CheckBounds[T Integer](i T, n T) {
	if Enabled && (i < 0 || i >= n) {
		panic(fmt.Sprintf("index %d out of bounds [0, %d)", i, n))
	}
}
