// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package catalog

import (
	"slices"

	"github.com/cockroachdb/errors"
)

// Groups maps group names to the statistic prefixes they select. A prefix may
// belong to several groups. Groups are used purely for selective reporting.
//
// Groups must be declared before the catalogues using them are frozen;
// afterwards they are safe for concurrent reads.
type Groups struct {
	m map[string][]string
}

// Declare declares a group selecting the given prefixes. Declaring a group
// twice is an error.
func (g *Groups) Declare(name string, prefixes ...string) error {
	if name == "" {
		return errors.New("statsreg: group name must not be empty")
	}
	if _, ok := g.m[name]; ok {
		return errors.Newf("statsreg: group %q declared twice", name)
	}
	if g.m == nil {
		g.m = make(map[string][]string)
	}
	g.m[name] = slices.Clone(prefixes)
	return nil
}

// MembersOf returns the prefixes belonging to the named group, in declaration
// order. The returned slice must not be modified.
func (g *Groups) MembersOf(name string) ([]string, error) {
	if g != nil {
		if p, ok := g.m[name]; ok {
			return p, nil
		}
	}
	return nil, errors.Mark(errors.Newf("statsreg: unknown statistics group %q", name), ErrUnknownGroup)
}

// Contains returns true if prefix is a member of the named group.
func (g *Groups) Contains(name, prefix string) (bool, error) {
	members, err := g.MembersOf(name)
	if err != nil {
		return false, err
	}
	return slices.Contains(members, prefix), nil
}

// Names returns the declared group names in sorted order.
func (g *Groups) Names() []string {
	if g == nil {
		return nil
	}
	names := make([]string, 0, len(g.m))
	for name := range g.m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
