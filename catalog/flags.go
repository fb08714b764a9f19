// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package catalog

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// Flags is a set of per-statistic options that govern how a statistic is
// aggregated, cleared and reported.
type Flags uint8

const (
	// NoClear indicates the value is not reset by a clearing read. Such
	// statistics usually describe current state (files currently open, bytes
	// in the cache) rather than an event count.
	NoClear Flags = 1 << iota
	// NoScale indicates reporting tools must not scale the value to a
	// per-second rate.
	NoScale
	// MaxAggregate indicates shard values are combined by taking the maximum
	// instead of the sum.
	MaxAggregate
	// CacheWalk indicates the statistic is only reported when a cache walk is
	// requested.
	CacheWalk
	// TreeWalk indicates the statistic is only reported when a tree walk is
	// requested.
	TreeWalk
	// Size indicates the value is a byte count.
	Size
)

// flagNames is in the canonical order used by Flags.String.
var flagNames = [...]struct {
	f    Flags
	name string
}{
	{NoClear, "no_clear"},
	{NoScale, "no_scale"},
	{MaxAggregate, "max_aggregate"},
	{CacheWalk, "cache_walk"},
	{TreeWalk, "tree_walk"},
	{Size, "size"},
}

// Has returns true if every flag in o is set in f.
func (f Flags) Has(o Flags) bool {
	return f&o == o
}

// String returns the comma-separated flag names, or the empty string if no
// flag is set.
func (f Flags) String() string {
	var b strings.Builder
	for _, fn := range flagNames {
		if f&fn.f == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(fn.name)
	}
	return b.String()
}

// SafeFormat implements redact.SafeFormatter.
func (f Flags) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Print(redact.SafeString(f.String()))
}

// ParseFlag returns the flag with the given name.
func ParseFlag(name string) (Flags, bool) {
	for _, fn := range flagNames {
		if fn.name == name {
			return fn.f, true
		}
	}
	return 0, false
}

// ParseFlags parses a comma-separated list of flag names, as produced by
// Flags.String. Whitespace around names and empty elements are ignored.
func ParseFlags(s string) (Flags, error) {
	var f Flags
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		v, ok := ParseFlag(name)
		if !ok {
			return 0, errors.Newf("statsreg: unknown statistic flag %q", name)
		}
		f |= v
	}
	return f, nil
}
