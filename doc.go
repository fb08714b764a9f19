// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package statsreg implements a statistics registry for an embedded storage
// engine.
//
// Statistics are defined by a catalogue (see package catalog) with one
// namespace per kind of owner: the connection, data sources (tables and
// indexes), sessions and join cursors. Each owner opens a Shard holding one
// atomic counter cell per statistic of its namespace and updates those cells
// on its hot paths without locking:
//
//	r, _ := statsreg.New(&statsreg.Options{})
//	cacheRead := r.Catalog(catalog.DataSource).MustID("cache_read")
//	s := r.OpenShard(catalog.DataSource)
//	s.Add(cacheRead, 1)
//
// A Snapshot combines the cells of the shards in a Scope into one row per
// statistic, ordered by case-insensitive description. Counters are summed,
// max_aggregate statistics take the maximum. A clearing snapshot atomically
// resets every reported cell that is not marked no_clear, and reports exactly
// the values it removed.
//
// Closing a shard folds its cells into the namespace's totals so that they
// keep contributing to namespace-wide snapshots. no_clear statistics describe
// the current state of the owner and are discarded instead.
//
// Snapshots across shards are not taken at a single instant: each cell is
// observed at some point during the snapshot. No update is lost or counted
// twice.
package statsreg
