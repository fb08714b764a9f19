// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package report

import (
	"testing"
	"time"

	"github.com/cockroachdb/crlib/testutils/leaktest"
	"github.com/cockroachdb/statsreg"
	"github.com/cockroachdb/statsreg/catalog"
	"github.com/cockroachdb/statsreg/catalog/builtin"
	"github.com/stretchr/testify/require"
)

func newWindowRegistry(t *testing.T) *statsreg.Registry {
	r, err := statsreg.New(&statsreg.Options{Catalogs: builtin.MustLoad()})
	require.NoError(t, err)
	return r
}

func TestWindowCollect(t *testing.T) {
	r := newWindowRegistry(t)
	s := r.OpenShard(catalog.Connection)
	defer func() { require.NoError(t, s.Close()) }()

	opts := statsreg.SnapshotOptions{Clear: true}
	w := NewWindow(r, statsreg.NamespaceScope(catalog.Connection), opts, time.Hour)
	_, ok := w.Interval()
	require.False(t, ok)

	for i := range resolution + 2 {
		s.Increment("cache_read", 1)
		require.NoError(t, w.Collect())
		require.Equal(t, min(i+1, resolution), w.Len())
	}
	iv, ok := w.Interval()
	require.True(t, ok)
	// The window holds the last resolution snapshots, taken after 3..12
	// increments. Clearing is never requested.
	require.False(t, iv.Prev.Cleared)
	prev, ok := iv.Prev.Lookup("cache_read")
	require.True(t, ok)
	require.EqualValues(t, 3, prev.Value)
	cur, ok := iv.Cur.Lookup("cache_read")
	require.True(t, ok)
	require.EqualValues(t, resolution+2, cur.Value)

	rows, err := iv.Rows()
	require.NoError(t, err)
	for _, row := range rows {
		if row.Name == "cache_read" {
			require.EqualValues(t, resolution-1, row.Delta)
			require.True(t, row.Scaled)
		}
	}
	v, err := s.Get("cache_read")
	require.NoError(t, err)
	require.EqualValues(t, resolution+2, v)
}

func TestWindowBackground(t *testing.T) {
	defer leaktest.AfterTest(t)()

	r := newWindowRegistry(t)
	s := r.OpenShard(catalog.Connection)
	defer func() { require.NoError(t, s.Close()) }()

	w := NewWindow(r, statsreg.NamespaceScope(catalog.Connection), statsreg.SnapshotOptions{}, time.Millisecond)
	w.Start()
	// Starting twice is a no-op.
	w.Start()
	require.Eventually(t, func() bool {
		s.Increment("cache_read", 1)
		return w.Len() >= 3
	}, 10*time.Second, time.Millisecond)
	w.Stop()
	require.NoError(t, w.Err())

	n := w.Len()
	time.Sleep(10 * time.Millisecond)
	require.Equal(t, n, w.Len())

	iv, ok := w.Interval()
	require.True(t, ok)
	require.GreaterOrEqual(t, iv.Cur.Taken, iv.Prev.Taken)
}

func TestRing(t *testing.T) {
	var r ring
	snaps := make([]*statsreg.Snapshot, resolution+3)
	for i := range snaps {
		snaps[i] = &statsreg.Snapshot{}
		r.add(snaps[i])
		require.Same(t, snaps[i], r.latest())
		if i < resolution {
			require.Same(t, snaps[0], r.oldest())
		} else {
			require.Same(t, snaps[i-resolution+1], r.oldest())
		}
	}
}

func TestWindowPeriod(t *testing.T) {
	r := newWindowRegistry(t)
	scope := statsreg.NamespaceScope(catalog.Connection)
	for _, period := range []time.Duration{0, -time.Second} {
		w := NewWindow(r, scope, statsreg.SnapshotOptions{}, period)
		require.Equal(t, DefaultWindowPeriod, w.period)
	}
	w := NewWindow(r, scope, statsreg.SnapshotOptions{}, 5*time.Second)
	require.Equal(t, 5*time.Second, w.period)

	// With the default period, only the initial collection happens promptly.
	w = NewWindow(r, scope, statsreg.SnapshotOptions{}, 0)
	w.Start()
	require.Eventually(t, func() bool { return w.Len() == 1 }, 10*time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	w.Stop()
	require.Equal(t, 1, w.Len())
}
