// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package catalog

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Set bundles one catalogue per namespace with the groups they share. It is
// the unit a registry is constructed from.
type Set struct {
	Groups   *Groups
	catalogs [NumNamespaces]*Catalog
}

// NewSet returns a set of empty catalogues sharing a single group table.
func NewSet() *Set {
	s := &Set{Groups: &Groups{}}
	for ns := range NumNamespaces {
		s.catalogs[ns] = New(ns, s.Groups)
	}
	return s
}

// Catalog returns the catalogue for the given namespace.
func (s *Set) Catalog(ns Namespace) *Catalog {
	return s.catalogs[ns]
}

// Freeze freezes every catalogue in the set.
func (s *Set) Freeze() {
	for _, c := range s.catalogs {
		c.Freeze()
	}
}

// fileFormat is the YAML shape of a catalogue file:
//
//	groups:
//	  evict: [cache, cache_walk]
//	catalogs:
//	  - namespaces: [connection, data-source]
//	    stats:
//	      - {name: cache_read, prefix: cache, desc: "pages read", flags: [size]}
//
// Sections listing several namespaces are registered into each of them, in
// file order.
type fileFormat struct {
	Groups   map[string][]string `yaml:"groups"`
	Catalogs []struct {
		Namespaces []string     `yaml:"namespaces"`
		Stats      []statRecord `yaml:"stats"`
	} `yaml:"catalogs"`
}

type statRecord struct {
	Name       string   `yaml:"name"`
	Prefix     string   `yaml:"prefix"`
	Desc       string   `yaml:"desc"`
	UserFacing bool     `yaml:"user_facing"`
	Flags      []string `yaml:"flags"`
}

func (r *statRecord) definition() (Definition, error) {
	var flags Flags
	userFacing := r.UserFacing
	for _, name := range r.Flags {
		name = strings.TrimSpace(name)
		// Some records carry user_facing in their flag list rather than as a
		// field; both mark the statistic user-facing.
		if name == "user_facing" {
			userFacing = true
			continue
		}
		f, ok := ParseFlag(name)
		if !ok {
			return Definition{}, errors.Mark(errors.Newf("statsreg: %q: unknown flag %q", r.Name, name),
				ErrInvalidDefinition)
		}
		flags |= f
	}
	return Def(r.Name, r.Prefix, r.Desc, userFacing, flags), nil
}

// LoadYAML reads a catalogue file. Unknown fields are rejected.
func LoadYAML(r io.Reader) (*Set, error) {
	var f fileFormat
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Wrap(err, "statsreg: decoding catalog")
	}
	s := NewSet()
	for name, prefixes := range f.Groups {
		if err := s.Groups.Declare(name, prefixes...); err != nil {
			return nil, err
		}
	}
	for i, section := range f.Catalogs {
		if len(section.Namespaces) == 0 {
			return nil, errors.Newf("statsreg: catalog section %d lists no namespaces", i)
		}
		defs := make([]Definition, len(section.Stats))
		for j := range section.Stats {
			d, err := section.Stats[j].definition()
			if err != nil {
				return nil, errors.Wrapf(err, "catalog section %d", i)
			}
			defs[j] = d
		}
		for _, nsName := range section.Namespaces {
			ns, err := ParseNamespace(nsName)
			if err != nil {
				return nil, errors.Wrapf(err, "catalog section %d", i)
			}
			if err := s.catalogs[ns].Register(defs...); err != nil {
				return nil, errors.Wrapf(err, "catalog section %d", i)
			}
		}
	}
	return s, nil
}
