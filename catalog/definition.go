// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package catalog

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// ID identifies a statistic within its catalogue. IDs are assigned densely in
// declaration order starting at zero, and index the counter cells of every
// shard opened against the catalogue.
type ID int32

// Definition describes a single statistic.
type Definition struct {
	// Name is unique within the statistic's namespace.
	Name string
	// Prefix is the subsystem tag, e.g. "cache", "log" or "checkpoint".
	Prefix string
	// Desc is the human readable description, always "<Prefix>: <text>".
	Desc string
	// UserFacing is set for statistics that are relevant to end-user
	// reporting, as opposed to internal diagnostics.
	UserFacing bool
	Flags      Flags

	// ID is assigned when the definition is registered.
	ID ID
}

// Def returns a definition with its description composed from the prefix and
// the text, in the form "<prefix>: <text>".
func Def(name, prefix, text string, userFacing bool, flags Flags) Definition {
	return Definition{
		Name:       name,
		Prefix:     prefix,
		Desc:       prefix + ": " + text,
		UserFacing: userFacing,
		Flags:      flags,
	}
}

// Text returns the description without its prefix.
func (d *Definition) Text() string {
	return strings.TrimPrefix(strings.TrimPrefix(d.Desc, d.Prefix+":"), " ")
}

// Validate checks the invariants every registered definition must satisfy.
func (d *Definition) Validate() error {
	switch {
	case d.Name == "":
		return errors.Mark(errors.Newf("statsreg: definition %q has no name", d.Desc), ErrInvalidDefinition)
	case d.Prefix == "":
		return errors.Mark(errors.Newf("statsreg: %q has no prefix", d.Name), ErrInvalidDefinition)
	case !strings.HasPrefix(d.Desc, d.Prefix+":"):
		return errors.Mark(errors.Newf("statsreg: %q: description %q does not start with %q",
			d.Name, d.Desc, d.Prefix+":"), ErrInvalidDefinition)
	}
	return nil
}

func (d Definition) String() string {
	return redact.StringWithoutMarkers(d)
}

// SafeFormat implements redact.SafeFormatter.
func (d Definition) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%s: %q", redact.SafeString(d.Name), redact.SafeString(d.Desc))
	if d.UserFacing {
		w.SafeString(" user_facing")
	}
	if d.Flags != 0 {
		w.Printf(" [%s]", d.Flags)
	}
}
