// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package statsreg

import (
	"testing"

	"github.com/cockroachdb/statsreg/internal/invariants"
	"github.com/stretchr/testify/require"
)

func TestParseStatisticsConfig(t *testing.T) {
	testCases := []struct {
		in   string
		want StatisticsConfig
		str  string
	}{
		{"", StatisticsConfig{Mode: StatisticsAll, CacheWalk: true, TreeWalk: true}, "statistics=(all)"},
		{"statistics=(all)", StatisticsConfig{Mode: StatisticsAll, CacheWalk: true, TreeWalk: true}, "statistics=(all)"},
		{"(fast)", StatisticsConfig{Mode: StatisticsFast}, "statistics=(fast)"},
		{"statistics=(fast, clear)", StatisticsConfig{Mode: StatisticsFast, Clear: true}, "statistics=(fast,clear)"},
		{"fast,tree_walk", StatisticsConfig{Mode: StatisticsFast, TreeWalk: true}, "statistics=(fast,tree_walk)"},
		{"cache_walk,fast,size", StatisticsConfig{Mode: StatisticsFast, CacheWalk: true, Size: true},
			"statistics=(fast,cache_walk,size)"},
		{"clear", StatisticsConfig{Mode: StatisticsAll, Clear: true, CacheWalk: true, TreeWalk: true},
			"statistics=(all,clear)"},
		{"statistics=(none)", StatisticsConfig{Mode: StatisticsNone}, "statistics=(none)"},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			c, err := ParseStatisticsConfig(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, c)
			require.Equal(t, tc.str, c.String())
			again, err := ParseStatisticsConfig(c.String())
			require.NoError(t, err)
			require.Equal(t, c, again)
		})
	}

	for _, in := range []string{
		"all,fast",
		"fast,fast",
		"none,clear",
		"statistics=(fast",
		"fast,verbose",
	} {
		_, err := ParseStatisticsConfig(in)
		require.Error(t, err, "%q", in)
	}
	require.Panics(t, func() { MustParseStatisticsConfig("bogus") })
}

func TestStatisticsConfigSnapshotOptions(t *testing.T) {
	c := MustParseStatisticsConfig("fast,clear,cache_walk,size")
	require.Equal(t, SnapshotOptions{Clear: true, CacheWalk: true, SizeOnly: true}, c.SnapshotOptions())
}

func TestOptionsEnsureDefaults(t *testing.T) {
	var o *Options
	o = o.EnsureDefaults()
	require.NotNil(t, o.Catalogs)
	require.NotNil(t, o.Logger)
	require.NotNil(t, o.EventListener.UnknownStat)
	require.NotNil(t, o.private.nowFn)
	require.Equal(t, float64(1), o.UnknownStatReportRate)
	require.Equal(t, invariants.Enabled, o.StrictUnknownStats)
}
