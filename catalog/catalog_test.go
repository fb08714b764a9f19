// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package catalog

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/cockroachdb/crlib/crstrings"
	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func formatDef(b *strings.Builder, d Definition) {
	fmt.Fprintf(b, "%s: %s", d.Name, d.Desc)
	if d.UserFacing {
		b.WriteString(" user_facing")
	}
	if d.Flags != 0 {
		fmt.Fprintf(b, " [%s]", d.Flags)
	}
	b.WriteString("\n")
}

func TestCatalogDataDriven(t *testing.T) {
	var set *Set
	datadriven.RunTest(t, "testdata/catalog", func(t *testing.T, td *datadriven.TestData) string {
		var b strings.Builder
		switch td.Cmd {
		case "load":
			s, err := LoadYAML(strings.NewReader(td.Input))
			if err != nil {
				return fmt.Sprintf("error: %v\n", err)
			}
			set = s
			for ns := range NumNamespaces {
				fmt.Fprintf(&b, "%s: %d statistics\n", ns, set.Catalog(ns).Len())
			}
			return b.String()

		case "list":
			var nsName, group string
			td.ScanArgs(t, "ns", &nsName)
			td.MaybeScanArgs(t, "group", &group)
			ns, err := ParseNamespace(nsName)
			require.NoError(t, err)
			c := set.Catalog(ns)
			var members []string
			if group != "" {
				if members, err = c.MembersOf(group); err != nil {
					return fmt.Sprintf("error: %v\n", err)
				}
			}
			for _, d := range c.Definitions() {
				if group != "" && !slices.Contains(members, d.Prefix) {
					continue
				}
				formatDef(&b, d)
			}
			return b.String()

		case "lookup":
			var nsName string
			td.ScanArgs(t, "ns", &nsName)
			ns, err := ParseNamespace(nsName)
			require.NoError(t, err)
			for name := range crstrings.LinesSeq(td.Input) {
				d, err := set.Catalog(ns).Lookup(name)
				if err != nil {
					fmt.Fprintf(&b, "error: %v\n", err)
					continue
				}
				formatDef(&b, d)
			}
			return b.String()

		case "lint":
			for _, w := range set.Lint() {
				fmt.Fprintf(&b, "%s\n", w)
			}
			return b.String()

		default:
			return fmt.Sprintf("unknown command: %s", td.Cmd)
		}
	})
}

func TestRegisterDuplicate(t *testing.T) {
	c := New(Connection, nil)
	require.NoError(t, c.Register(Def("cache_read", "cache", "pages read into cache", false, 0)))

	err := c.Register(
		Def("cache_write", "cache", "pages written from cache", false, 0),
		Def("cache_read", "cache", "pages read again", false, 0),
	)
	require.True(t, errors.Is(err, ErrDuplicateName))
	// Registration is all or nothing.
	require.Equal(t, 1, c.Len())
	_, err = c.ID("cache_write")
	require.True(t, errors.Is(err, ErrUnknownStat))

	// Duplicates within a single batch are rejected too.
	err = c.Register(
		Def("cache_write", "cache", "pages written from cache", false, 0),
		Def("cache_write", "cache", "pages written again", false, 0),
	)
	require.True(t, errors.Is(err, ErrDuplicateName))
	require.Equal(t, 1, c.Len())
}

func TestRegisterSameNameDistinctNamespaces(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Catalog(Connection).Register(
		Def("cache_eviction_fail", "cache", "pages selected for eviction unable to be evicted", false, 0)))
	require.NoError(t, s.Catalog(DataSource).Register(
		Def("cache_eviction_fail", "cache", "data source pages selected for eviction unable to be evicted", false, 0)))

	conn, err := s.Catalog(Connection).Lookup("cache_eviction_fail")
	require.NoError(t, err)
	dsrc, err := s.Catalog(DataSource).Lookup("cache_eviction_fail")
	require.NoError(t, err)
	require.NotEqual(t, conn.Desc, dsrc.Desc)
}

func TestRegisterInvalid(t *testing.T) {
	c := New(Session, nil)
	for _, d := range []Definition{
		{Prefix: "session", Desc: "session: no name"},
		{Name: "x", Desc: "x: no prefix"},
		{Name: "x", Prefix: "session", Desc: "open cursors"},
	} {
		err := c.Register(d)
		require.True(t, errors.Is(err, ErrInvalidDefinition), "%v", err)
	}
	require.Equal(t, 0, c.Len())
}

func TestSortOrder(t *testing.T) {
	c := New(Connection, nil)
	c.MustRegister(
		Def("c", "cache", "pages read", false, 0),
		Def("b", "LSM", "merges", false, 0),
		Def("a", "block-manager", "blocks read", false, 0),
		Def("d", "Cache", "pages read", false, 0),
	)
	var names []string
	for _, d := range c.Definitions() {
		names = append(names, d.Name)
	}
	// "cache: pages read" and "Cache: pages read" compare equal ignoring case
	// and keep declaration order.
	require.Equal(t, []string{"a", "c", "d", "b"}, names)

	// IDs stay in declaration order.
	require.Equal(t, ID(0), c.MustID("c"))
	require.Equal(t, ID(3), c.MustID("d"))
	require.Equal(t, "d", c.At(3).Name)
}

func TestFreeze(t *testing.T) {
	c := New(Join, nil)
	c.MustRegister(Def("main_access", "join", "accesses to the main table", false, 0))
	c.Freeze()
	c.Freeze()
	require.True(t, c.Frozen())
	err := c.Register(Def("bloom_false_positive", "join", "bloom filter false positives", false, 0))
	require.True(t, errors.Is(err, ErrFrozen))
	require.Equal(t, 1, c.Len())
}

func TestUnknownGroup(t *testing.T) {
	c := New(Connection, nil)
	_, err := c.MembersOf("evict")
	require.True(t, errors.Is(err, ErrUnknownGroup))

	g := &Groups{}
	require.NoError(t, g.Declare("evict", "cache", "cache_walk"))
	require.Error(t, g.Declare("evict", "cache"))
	require.Error(t, g.Declare(""))
	ok, err := g.Contains("evict", "cache_walk")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = g.Contains("evict", "LSM")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, []string{"evict"}, g.Names())
}

func TestMustIDPanics(t *testing.T) {
	c := New(Connection, nil)
	require.Panics(t, func() { c.MustID("nope") })
}

func TestLoadYAMLUnknownField(t *testing.T) {
	_, err := LoadYAML(strings.NewReader(`
catalogs:
  - namespaces: [connection]
    stats:
      - {name: cache_read, prefix: cache, desc: "pages read", color: blue}
`))
	require.ErrorContains(t, err, "field color not found")

	_, err = LoadYAML(strings.NewReader(`
catalogs:
  - namespaces: [table]
    stats:
      - {name: cache_read, prefix: cache, desc: "pages read"}
`))
	require.ErrorContains(t, err, `unknown statistics namespace "table"`)

	_, err = LoadYAML(strings.NewReader(`
catalogs:
  - stats:
      - {name: cache_read, prefix: cache, desc: "pages read"}
`))
	require.ErrorContains(t, err, "lists no namespaces")
}

func TestDefinitionText(t *testing.T) {
	d := Def("cache_read", "cache", "pages read into cache", true, Size)
	require.Equal(t, "cache: pages read into cache", d.Desc)
	require.Equal(t, "pages read into cache", d.Text())
	require.Equal(t, `cache_read: "cache: pages read into cache" user_facing [size]`, d.String())
}
