// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package builtin

import (
	"strings"
	"testing"

	"github.com/cockroachdb/statsreg/catalog"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	s, err := Load()
	require.NoError(t, err)
	for ns, n := range map[catalog.Namespace]int{
		catalog.Connection: 682,
		catalog.DataSource: 297,
		catalog.Join:       5,
		catalog.Session:    8,
	} {
		require.Equal(t, n, s.Catalog(ns).Len(), "%s", ns)
	}

	for ns := range catalog.NumNamespaces {
		c := s.Catalog(ns)
		descs := make(map[string]string)
		for _, d := range c.Definitions() {
			require.NoError(t, d.Validate())
			require.False(t, d.Flags.Has(catalog.CacheWalk|catalog.TreeWalk), "%s", d.Name)
			// Descriptions are unique within a namespace.
			if other, ok := descs[d.Desc]; ok {
				t.Fatalf("%s and %s share description %q", other, d.Name, d.Desc)
			}
			descs[d.Desc] = d.Name
		}
	}

	conn, err := s.Catalog(catalog.Connection).Lookup("cache_eviction_fail")
	require.NoError(t, err)
	dsrc, err := s.Catalog(catalog.DataSource).Lookup("cache_eviction_fail")
	require.NoError(t, err)
	require.NotEqual(t, conn.Desc, dsrc.Desc)

	txn, err := s.Catalog(catalog.Connection).Lookup("txn_commit")
	require.NoError(t, err)
	require.True(t, txn.UserFacing)

	for _, g := range []string{"cursor", "evict", "lsm", "memory", "system"} {
		members, err := s.Catalog(catalog.Connection).MembersOf(g)
		require.NoError(t, err)
		require.NotEmpty(t, members)
	}
}

func TestBuiltinSorted(t *testing.T) {
	c := MustLoad().Catalog(catalog.Connection)
	defs := c.Definitions()
	for i := 1; i < len(defs); i++ {
		require.LessOrEqual(t, strings.ToLower(defs[i-1].Desc), strings.ToLower(defs[i].Desc))
	}
}

func TestLoadReturnsFreshSet(t *testing.T) {
	a := MustLoad()
	a.Freeze()
	b := MustLoad()
	require.False(t, b.Catalog(catalog.Connection).Frozen())
	require.NoError(t, b.Catalog(catalog.Connection).Register(
		catalog.Def("app_flushes", "application", "flushes requested by the application", false, 0)))
	require.Equal(t, a.Catalog(catalog.Connection).Len()+1, b.Catalog(catalog.Connection).Len())
}
