// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package catalog

import (
	"strings"

	"github.com/cockroachdb/redact"
)

// Warning is a soft catalogue problem reported by Lint. Warnings describe
// conventions, not invariants; a catalogue with warnings is still valid.
type Warning struct {
	Namespace Namespace
	Name      string
	Msg       string
}

func (w Warning) String() string {
	return redact.StringWithoutMarkers(w)
}

// SafeFormat implements redact.SafeFormatter.
func (w Warning) SafeFormat(p redact.SafePrinter, _ rune) {
	p.Printf("%s/%s: %s", w.Namespace, redact.SafeString(w.Name), redact.SafeString(w.Msg))
}

// Lint checks the catalogue against the authoring conventions:
//   - no_clear and no_scale are normally set together;
//   - cache_walk and tree_walk are never both set;
//   - state-like descriptions ("currently", "in the cache") are not rate
//     scaled.
//
// Warnings are returned in the catalogue's sorted order.
func Lint(c *Catalog) []Warning {
	var warnings []Warning
	add := func(d *Definition, msg string) {
		warnings = append(warnings, Warning{Namespace: c.ns, Name: d.Name, Msg: msg})
	}
	for _, id := range c.sorted {
		d := &c.defs[id]
		switch {
		case d.Flags.Has(NoClear) && !d.Flags.Has(NoScale):
			add(d, "no_clear set without no_scale")
		case d.Flags.Has(NoScale) && !d.Flags.Has(NoClear):
			add(d, "no_scale set without no_clear")
		}
		if d.Flags.Has(CacheWalk | TreeWalk) {
			add(d, "both cache_walk and tree_walk set")
		}
		if !d.Flags.Has(NoScale) {
			text := d.Text()
			if strings.Contains(text, "currently") || strings.Contains(text, "in the cache") {
				add(d, "describes current state but is scaled per second")
			}
		}
	}
	return warnings
}

// Lint lints every catalogue in the set, in namespace order.
func (s *Set) Lint() []Warning {
	var warnings []Warning
	for _, c := range s.catalogs {
		warnings = append(warnings, Lint(c)...)
	}
	return warnings
}
