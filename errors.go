// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package statsreg

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/statsreg/catalog"
)

var (
	// ErrUnknownStat is returned when a statistic name is not registered in
	// the namespace being accessed.
	ErrUnknownStat = catalog.ErrUnknownStat

	// ErrUnknownGroup is returned when a snapshot selects a group that was
	// never declared.
	ErrUnknownGroup = catalog.ErrUnknownGroup

	// ErrDuplicateName is returned when a statistic name is registered twice in
	// the same namespace.
	ErrDuplicateName = catalog.ErrDuplicateName

	// ErrClosed is returned when closing a shard that is already closed, or
	// snapshotting a scope that names a closed shard.
	ErrClosed = errors.New("statsreg: shard closed")

	// ErrStatisticsDisabled is returned by Snapshot when the registry was
	// configured with statistics=(none).
	ErrStatisticsDisabled = errors.New("statsreg: statistics disabled")

	// ErrNamespaceMismatch is returned when a scope names shards of a
	// different namespace.
	ErrNamespaceMismatch = errors.New("statsreg: namespace mismatch")
)
