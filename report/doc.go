// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package report turns registry snapshots into human readable reports: rates
// over an interval between two snapshots, tables, and sampled series plotted
// as ASCII graphs.
//
// Snapshots carry raw cumulative values. Reports scale counters to per-second
// rates, except for statistics flagged no_scale, which are shown as is.
package report
