// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package catalog defines the statistics catalogue: the ordered set of
// statistic definitions for each namespace, and the groups used for selective
// reporting.
//
// A catalogue is populated at initialization time and frozen once a registry
// starts opening shards against it. After that it is immutable and safe for
// concurrent use.
package catalog

import (
	"slices"
	"strings"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/swiss"
)

// Catalog holds the definitions of a single namespace.
type Catalog struct {
	ns     Namespace
	groups *Groups
	// defs is in declaration order; defs[i].ID == ID(i).
	defs  []Definition
	index swiss.Map[string, ID]
	// sorted lists IDs ordered by lower-cased description. Equal descriptions
	// keep declaration order.
	sorted []ID
	frozen atomic.Bool
}

// New returns an empty catalogue for the given namespace. Group lookups are
// answered from groups, which may be shared between catalogues and may be nil.
func New(ns Namespace, groups *Groups) *Catalog {
	c := &Catalog{ns: ns, groups: groups}
	if c.groups == nil {
		c.groups = &Groups{}
	}
	c.index.Init(64)
	return c
}

// Namespace returns the catalogue's namespace.
func (c *Catalog) Namespace() Namespace {
	return c.ns
}

// Groups returns the groups consulted by MembersOf.
func (c *Catalog) Groups() *Groups {
	return c.groups
}

// Register adds definitions to the catalogue. Registration is all or nothing:
// if any definition is invalid or its name is already in use (by an earlier
// registration or within defs), nothing is registered.
func (c *Catalog) Register(defs ...Definition) error {
	if c.frozen.Load() {
		return errors.Mark(errors.Newf("statsreg: %s catalog is frozen", c.ns), ErrFrozen)
	}
	batch := make(map[string]struct{}, len(defs))
	for i := range defs {
		d := &defs[i]
		if err := d.Validate(); err != nil {
			return errors.Wrapf(err, "%s catalog", c.ns)
		}
		_, dup := c.index.Get(d.Name)
		if _, ok := batch[d.Name]; ok {
			dup = true
		}
		if dup {
			return errors.Mark(errors.Newf("statsreg: %s catalog: statistic %q registered twice",
				c.ns, d.Name), ErrDuplicateName)
		}
		batch[d.Name] = struct{}{}
	}
	for _, d := range defs {
		d.ID = ID(len(c.defs))
		c.defs = append(c.defs, d)
		c.index.Put(d.Name, d.ID)
		c.sorted = append(c.sorted, d.ID)
	}
	c.sort()
	return nil
}

func (c *Catalog) sort() {
	keys := make([]string, len(c.defs))
	for i := range c.defs {
		keys[i] = strings.ToLower(c.defs[i].Desc)
	}
	// Re-sort from declaration order so that equal descriptions keep their
	// relative declaration order.
	for i := range c.sorted {
		c.sorted[i] = ID(i)
	}
	slices.SortStableFunc(c.sorted, func(a, b ID) int {
		return strings.Compare(keys[a], keys[b])
	})
}

// MustRegister is like Register but panics on error. It is intended for
// catalogues defined in Go source at init time.
func (c *Catalog) MustRegister(defs ...Definition) {
	if err := c.Register(defs...); err != nil {
		panic(err)
	}
}

// Freeze prevents further registrations. It is idempotent.
func (c *Catalog) Freeze() {
	c.frozen.Store(true)
}

// Frozen returns true once Freeze has been called.
func (c *Catalog) Frozen() bool {
	return c.frozen.Load()
}

// Len returns the number of registered definitions.
func (c *Catalog) Len() int {
	return len(c.defs)
}

// ID returns the ID of the named statistic.
func (c *Catalog) ID(name string) (ID, error) {
	if id, ok := c.index.Get(name); ok {
		return id, nil
	}
	return 0, errors.Mark(errors.Newf("statsreg: unknown %s statistic %q", c.ns, name), ErrUnknownStat)
}

// MustID is like ID but panics if the statistic is unknown. Engine code
// resolves the IDs it increments once, at init time, with MustID.
func (c *Catalog) MustID(name string) ID {
	id, err := c.ID(name)
	if err != nil {
		panic(err)
	}
	return id
}

// Lookup returns the definition of the named statistic.
func (c *Catalog) Lookup(name string) (Definition, error) {
	id, err := c.ID(name)
	if err != nil {
		return Definition{}, err
	}
	return c.defs[id], nil
}

// At returns the definition with the given ID. The returned pointer must not
// be modified, and is only stable once the catalogue is frozen.
func (c *Catalog) At(id ID) *Definition {
	return &c.defs[id]
}

// MembersOf returns the prefixes that belong to the named group.
func (c *Catalog) MembersOf(group string) ([]string, error) {
	return c.groups.MembersOf(group)
}

// SortedIDs returns the IDs of all definitions ordered by case-insensitive
// description. The returned slice must not be modified.
func (c *Catalog) SortedIDs() []ID {
	return c.sorted
}

// Definitions returns a copy of all definitions ordered by case-insensitive
// description.
func (c *Catalog) Definitions() []Definition {
	defs := make([]Definition, len(c.sorted))
	for i, id := range c.sorted {
		defs[i] = c.defs[id]
	}
	return defs
}
