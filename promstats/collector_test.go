// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package promstats

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/statsreg"
	"github.com/cockroachdb/statsreg/catalog"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *statsreg.Registry {
	cats := catalog.NewSet()
	require.NoError(t, cats.Groups.Declare("evict", "cache"))
	require.NoError(t, cats.Catalog(catalog.DataSource).Register(
		catalog.Def("cache_read", "cache", "pages read into cache", false, 0),
		catalog.Def("cache_bytes_inuse", "cache", "bytes currently in the cache", false,
			catalog.NoClear|catalog.NoScale|catalog.Size),
		catalog.Def("cache_hazard_max", "cache", "hazard pointer maximum array length", false,
			catalog.MaxAggregate|catalog.NoScale),
		catalog.Def("cursor_insert", "cursor", "insert calls", true, 0),
		catalog.Def("btree_entries", "btree", "number of key/value pairs", false,
			catalog.TreeWalk|catalog.NoScale),
	))
	r, err := statsreg.New(&statsreg.Options{Catalogs: cats})
	require.NoError(t, err)
	return r
}

func gather(t *testing.T, c prometheus.Collector) map[string]*dto.MetricFamily {
	t.Helper()
	reg := prometheus.NewPedanticRegistry()
	reg.MustRegister(c)
	families, err := reg.Gather()
	require.NoError(t, err)
	m := make(map[string]*dto.MetricFamily)
	for _, f := range families {
		m[f.GetName()] = f
	}
	return m
}

func TestCollector(t *testing.T) {
	r := testRegistry(t)
	cat := r.Catalog(catalog.DataSource)
	s1 := r.OpenShard(catalog.DataSource)
	s2 := r.OpenShard(catalog.DataSource)
	s1.Add(cat.MustID("cache_read"), 5)
	s2.Add(cat.MustID("cache_read"), 7)
	s1.Set(cat.MustID("cache_bytes_inuse"), 1024)
	s1.Max(cat.MustID("cache_hazard_max"), 3)
	s2.Max(cat.MustID("cache_hazard_max"), 9)

	c, err := NewCollector(r, catalog.DataSource)
	require.NoError(t, err)
	families := gather(t, c)
	require.Len(t, families, 4)

	f := families["storage_data_source_cache_read"]
	require.NotNil(t, f)
	require.Equal(t, dto.MetricType_COUNTER, f.GetType())
	require.Equal(t, "cache: pages read into cache", f.GetHelp())
	require.Equal(t, float64(12), f.GetMetric()[0].GetCounter().GetValue())

	f = families["storage_data_source_cache_bytes_inuse"]
	require.Equal(t, dto.MetricType_GAUGE, f.GetType())
	require.Equal(t, float64(1024), f.GetMetric()[0].GetGauge().GetValue())

	f = families["storage_data_source_cache_hazard_max"]
	require.Equal(t, dto.MetricType_GAUGE, f.GetType())
	require.Equal(t, float64(9), f.GetMetric()[0].GetGauge().GetValue())

	// Tree walk statistics are not exported by default.
	require.Nil(t, families["storage_data_source_btree_entries"])

	// Scrapes never clear.
	families = gather(t, c)
	require.Equal(t, float64(12),
		families["storage_data_source_cache_read"].GetMetric()[0].GetCounter().GetValue())
}

func TestCollectorOptions(t *testing.T) {
	r := testRegistry(t)
	c, err := NewCollector(r, catalog.DataSource,
		WithNamespace("wt"),
		WithConstLabels(prometheus.Labels{"uri": "table:orders"}),
		WithSnapshotOptions(statsreg.SnapshotOptions{Group: "evict", Clear: true}))
	require.NoError(t, err)
	families := gather(t, c)
	require.Len(t, families, 3)
	f := families["wt_data_source_cache_read"]
	require.NotNil(t, f)
	labels := f.GetMetric()[0].GetLabel()
	require.Len(t, labels, 1)
	require.Equal(t, "uri", labels[0].GetName())
	require.Equal(t, "table:orders", labels[0].GetValue())

	_, err = NewCollector(r, catalog.DataSource,
		WithSnapshotOptions(statsreg.SnapshotOptions{Group: "lsm"}))
	require.True(t, errors.Is(err, statsreg.ErrUnknownGroup))
}

func TestCollectorSnapshotError(t *testing.T) {
	r := testRegistry(t)
	r.AddRefresher(catalog.DataSource, func(*statsreg.Shard) error {
		return errors.New("cache unavailable")
	})
	c, err := NewCollector(r, catalog.DataSource)
	require.NoError(t, err)
	reg := prometheus.NewPedanticRegistry()
	reg.MustRegister(c)
	_, err = reg.Gather()
	require.ErrorContains(t, err, "cache unavailable")
}
