// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import (
	"time"

	"github.com/cockroachdb/redact"
	"github.com/cockroachdb/statsreg/catalog"
)

// ShardOpenInfo contains the info for a shard open event.
type ShardOpenInfo struct {
	Namespace catalog.Namespace
	ShardID   uint64
}

func (i ShardOpenInfo) String() string {
	return redact.StringWithoutMarkers(i)
}

// SafeFormat implements redact.SafeFormatter.
func (i ShardOpenInfo) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("[%s] shard %d opened", i.Namespace, redact.Safe(i.ShardID))
}

// ShardCloseInfo contains the info for a shard close event.
type ShardCloseInfo struct {
	Namespace catalog.Namespace
	ShardID   uint64
	// Folded is the number of non-zero cells folded into the namespace totals.
	Folded int
	// Discarded is the number of non-zero no_clear cells dropped on close.
	Discarded int
}

func (i ShardCloseInfo) String() string {
	return redact.StringWithoutMarkers(i)
}

// SafeFormat implements redact.SafeFormatter.
func (i ShardCloseInfo) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("[%s] shard %d closed: %d statistics folded, %d discarded",
		i.Namespace, redact.Safe(i.ShardID), redact.Safe(i.Folded), redact.Safe(i.Discarded))
}

// UnknownStatInfo contains the info for an update naming a statistic that is
// not registered.
type UnknownStatInfo struct {
	Namespace catalog.Namespace
	Name      string
	// Op is the update operation, e.g. "increment" or "set-max".
	Op string
	// Suppressed is the number of unknown statistic events dropped by rate
	// limiting since the previous event was delivered.
	Suppressed int64
}

func (i UnknownStatInfo) String() string {
	return redact.StringWithoutMarkers(i)
}

// SafeFormat implements redact.SafeFormatter.
func (i UnknownStatInfo) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("[%s] %s of unknown statistic %q ignored", i.Namespace, redact.SafeString(i.Op), redact.SafeString(i.Name))
	if i.Suppressed > 0 {
		w.Printf(" (%d similar events suppressed)", redact.Safe(i.Suppressed))
	}
}

// SnapshotInfo contains the info for a snapshot event.
type SnapshotInfo struct {
	Namespace catalog.Namespace
	Rows      int
	Shards    int
	Cleared   bool
	Duration  time.Duration
}

func (i SnapshotInfo) String() string {
	return redact.StringWithoutMarkers(i)
}

// SafeFormat implements redact.SafeFormatter.
func (i SnapshotInfo) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("[%s] snapshot of %d statistics across %d shards",
		i.Namespace, redact.Safe(i.Rows), redact.Safe(i.Shards))
	if i.Cleared {
		w.SafeString(" (cleared)")
	}
	w.Printf("; %s", redact.Safe(i.Duration))
}

// EventListener contains a set of functions that will be invoked when various
// registry events occur.
//
// Note: the functions may be called from arbitrary goroutines, including
// goroutines updating statistics, and must not call back into the registry.
type EventListener struct {
	// CatalogLintWarning is invoked once per lint warning when a registry
	// adopts its catalogues.
	CatalogLintWarning func(catalog.Warning)

	// ShardOpened is invoked after a shard has been opened.
	ShardOpened func(ShardOpenInfo)

	// ShardClosed is invoked after a shard has been closed and its cells
	// folded into the namespace totals.
	ShardClosed func(ShardCloseInfo)

	// UnknownStat is invoked when an update names an unregistered statistic
	// and the registry is not configured to panic on such updates. Invocations
	// are rate limited.
	UnknownStat func(UnknownStatInfo)

	// SnapshotTaken is invoked after a snapshot has been assembled.
	SnapshotTaken func(SnapshotInfo)
}

// EnsureDefaults ensures that event listener functions are non-nil to avoid
// the need to check for nil on every event.
func (l *EventListener) EnsureDefaults(logger Logger) {
	if l.CatalogLintWarning == nil {
		l.CatalogLintWarning = func(w catalog.Warning) {}
	}
	if l.ShardOpened == nil {
		l.ShardOpened = func(info ShardOpenInfo) {}
	}
	if l.ShardClosed == nil {
		l.ShardClosed = func(info ShardCloseInfo) {}
	}
	if l.UnknownStat == nil {
		if logger != nil {
			l.UnknownStat = func(info UnknownStatInfo) {
				logger.Errorf("%s", info)
			}
		} else {
			l.UnknownStat = func(info UnknownStatInfo) {}
		}
	}
	if l.SnapshotTaken == nil {
		l.SnapshotTaken = func(info SnapshotInfo) {}
	}
}

// MakeLoggingEventListener creates an EventListener that logs all events to
// the specified logger.
func MakeLoggingEventListener(logger Logger) EventListener {
	if logger == nil {
		logger = DefaultLogger{}
	}

	return EventListener{
		CatalogLintWarning: func(w catalog.Warning) {
			logger.Infof("catalog lint: %s", w)
		},
		ShardOpened: func(info ShardOpenInfo) {
			logger.Infof("%s", info)
		},
		ShardClosed: func(info ShardCloseInfo) {
			logger.Infof("%s", info)
		},
		UnknownStat: func(info UnknownStatInfo) {
			logger.Errorf("%s", info)
		},
		SnapshotTaken: func(info SnapshotInfo) {
			logger.Infof("%s", info)
		},
	}
}

// TeeEventListener wraps two EventListeners, forwarding all events to both.
func TeeEventListener(a, b EventListener) EventListener {
	a.EnsureDefaults(nil)
	b.EnsureDefaults(nil)
	return EventListener{
		CatalogLintWarning: func(w catalog.Warning) {
			a.CatalogLintWarning(w)
			b.CatalogLintWarning(w)
		},
		ShardOpened: func(info ShardOpenInfo) {
			a.ShardOpened(info)
			b.ShardOpened(info)
		},
		ShardClosed: func(info ShardCloseInfo) {
			a.ShardClosed(info)
			b.ShardClosed(info)
		},
		UnknownStat: func(info UnknownStatInfo) {
			a.UnknownStat(info)
			b.UnknownStat(info)
		},
		SnapshotTaken: func(info SnapshotInfo) {
			a.SnapshotTaken(info)
			b.SnapshotTaken(info)
		},
	}
}
