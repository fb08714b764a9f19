// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package statsreg

import "github.com/cockroachdb/statsreg/internal/base"

// Logger exports the base.Logger type.
type Logger = base.Logger

// DefaultLogger exports the base.DefaultLogger type.
type DefaultLogger = base.DefaultLogger

// ShardOpenInfo exports the base.ShardOpenInfo type.
type ShardOpenInfo = base.ShardOpenInfo

// ShardCloseInfo exports the base.ShardCloseInfo type.
type ShardCloseInfo = base.ShardCloseInfo

// UnknownStatInfo exports the base.UnknownStatInfo type.
type UnknownStatInfo = base.UnknownStatInfo

// SnapshotInfo exports the base.SnapshotInfo type.
type SnapshotInfo = base.SnapshotInfo

// EventListener exports the base.EventListener type.
type EventListener = base.EventListener

// MakeLoggingEventListener exports the base.MakeLoggingEventListener function.
func MakeLoggingEventListener(logger Logger) EventListener {
	return base.MakeLoggingEventListener(logger)
}

// TeeEventListener exports the base.TeeEventListener function.
func TeeEventListener(a, b EventListener) EventListener {
	return base.TeeEventListener(a, b)
}
