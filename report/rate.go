// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package report

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/statsreg"
	"github.com/cockroachdb/statsreg/catalog"
)

// Rate returns delta per second over elapsed. It returns zero for a
// non-positive interval.
func Rate(delta int64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(delta) / elapsed.Seconds()
}

// Interval is the period between two snapshots of the same namespace.
type Interval struct {
	Prev, Cur *statsreg.Snapshot
}

// Elapsed returns the time between the two snapshots.
func (iv Interval) Elapsed() time.Duration {
	return time.Duration(iv.Cur.Taken - iv.Prev.Taken)
}

// RateRow is a statistic over an interval.
type RateRow struct {
	statsreg.Row
	// Delta is the change over the interval. For no_scale statistics it is the
	// current value.
	Delta int64
	// PerSec is Delta per second, or zero if Scaled is false.
	PerSec float64
	Scaled bool
}

// Rows returns one row per statistic of the current snapshot.
//
// If the previous snapshot cleared the statistics, or a value went down
// because of a clear in between, the current value is the delta. Statistics
// missing from the previous snapshot are treated as starting from zero.
func (iv Interval) Rows() ([]RateRow, error) {
	if iv.Prev.Namespace != iv.Cur.Namespace {
		return nil, errors.Newf("report: interval between %s and %s snapshots",
			iv.Prev.Namespace, iv.Cur.Namespace)
	}
	prev := make(map[string]int64, len(iv.Prev.Rows))
	for _, r := range iv.Prev.Rows {
		prev[r.Name] = r.Value
	}
	elapsed := iv.Elapsed()
	rows := make([]RateRow, len(iv.Cur.Rows))
	for i, r := range iv.Cur.Rows {
		rr := RateRow{Row: r, Delta: r.Value}
		if r.Flags.Has(catalog.NoScale) {
			rows[i] = rr
			continue
		}
		if p, ok := prev[r.Name]; ok && !iv.Prev.Cleared && r.Value >= p {
			rr.Delta = r.Value - p
		}
		rr.PerSec = Rate(rr.Delta, elapsed)
		rr.Scaled = true
		rows[i] = rr
	}
	return rows, nil
}
