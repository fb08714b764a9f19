// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package statsreg

import (
	"slices"
	"strconv"
	"time"

	"github.com/cockroachdb/crlib/crhumanize"
	"github.com/cockroachdb/crlib/crtime"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
	"github.com/cockroachdb/statsreg/catalog"
)

// Scope selects the shards a snapshot aggregates.
type Scope struct {
	ns     catalog.Namespace
	all    bool
	shards []*Shard
}

// NamespaceScope selects every live shard of the namespace together with the
// totals of closed shards. Refreshers registered for the namespace run before
// the snapshot is taken.
func NamespaceScope(ns catalog.Namespace) Scope {
	return Scope{ns: ns, all: true}
}

// ShardScope selects the given shards of the namespace, e.g. the shard of a
// single data source. With no shards every statistic reports zero.
func ShardScope(ns catalog.Namespace, shards ...*Shard) Scope {
	return Scope{ns: ns, shards: shards}
}

// Namespace returns the scope's namespace.
func (s Scope) Namespace() catalog.Namespace {
	return s.ns
}

// SnapshotOptions control which statistics a snapshot reports and whether it
// clears them.
type SnapshotOptions struct {
	// Clear resets every reported statistic that is not no_clear. The reported
	// value is the value removed from the cells.
	Clear bool
	// CacheWalk and TreeWalk include statistics gathered by walking the cache
	// or the trees. They are omitted by default.
	CacheWalk bool
	TreeWalk  bool
	// UserFacingOnly omits statistics that are not user-facing.
	UserFacingOnly bool
	// SizeOnly omits statistics that are not byte counts.
	SizeOnly bool
	// Group restricts the snapshot to the prefixes of the named group.
	Group string
}

// Row is one statistic of a snapshot.
type Row struct {
	ID         catalog.ID
	Name       string
	Desc       string
	Value      int64
	Flags      catalog.Flags
	UserFacing bool
}

// Printable returns the value formatted for display: byte counts are
// humanized, other values are printed in full.
func (r Row) Printable() string {
	if r.Flags.Has(catalog.Size) && r.Value >= 0 {
		return string(crhumanize.Bytes(uint64(r.Value), crhumanize.Compact, crhumanize.OmitI))
	}
	return strconv.FormatInt(r.Value, 10)
}

func (r Row) String() string {
	return redact.StringWithoutMarkers(r)
}

// SafeFormat implements redact.SafeFormatter.
func (r Row) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%s = %s", redact.SafeString(r.Desc), redact.SafeString(r.Printable()))
}

// Snapshot is an immutable set of aggregated statistics, ordered by
// case-insensitive description.
type Snapshot struct {
	Namespace catalog.Namespace
	Rows      []Row
	// Taken is when the snapshot completed.
	Taken crtime.Mono
	// Cleared is set if the snapshot reset the statistics it reported.
	Cleared bool
	// Shards is the number of shards aggregated, including the totals shard
	// for namespace-wide snapshots.
	Shards int
}

// Len returns the number of rows.
func (s *Snapshot) Len() int {
	return len(s.Rows)
}

// Lookup returns the row of the named statistic. It returns false if the
// statistic is unknown or was not reported.
func (s *Snapshot) Lookup(name string) (Row, bool) {
	for i := range s.Rows {
		if s.Rows[i].Name == name {
			return s.Rows[i], true
		}
	}
	return Row{}, false
}

func (s *Snapshot) String() string {
	return redact.StringWithoutMarkers(s)
}

// SafeFormat implements redact.SafeFormatter.
func (s *Snapshot) SafeFormat(w redact.SafePrinter, _ rune) {
	for i := range s.Rows {
		w.Printf("%s\n", s.Rows[i])
	}
}

// Snapshot aggregates the statistics of the shards in scope. Each reported
// statistic is summed across shards, or maximized for max_aggregate
// statistics; with no shards its value is zero.
//
// Snapshot never blocks updates. Shards are read one cell at a time, so a
// snapshot does not represent a single instant, but each cell's read and, for
// clearing snapshots, its reset are one atomic operation.
func (r *Registry) Snapshot(scope Scope, opts SnapshotOptions) (*Snapshot, error) {
	if r.opts.Statistics.Mode == StatisticsNone {
		return nil, ErrStatisticsDisabled
	}
	n, err := r.lookupNamespace(scope.ns)
	if err != nil {
		return nil, err
	}
	start := r.opts.private.nowFn()

	var members []string
	if opts.Group != "" {
		var err error
		if members, err = n.cat.MembersOf(opts.Group); err != nil {
			return nil, err
		}
	}

	var shards []*Shard
	if scope.all {
		if err := n.refresh(); err != nil {
			return nil, err
		}
		shards = n.live.Collect([]*Shard{n.totals})
	} else {
		shards = make([]*Shard, 0, len(scope.shards))
		for _, s := range scope.shards {
			switch {
			case s == nil:
				return nil, errors.AssertionFailedf("statsreg: nil shard in %s scope", scope.ns)
			case s.n != n:
				return nil, errors.Mark(errors.Newf("statsreg: %s shard %d in %s scope",
					s.n.ns, s.id, scope.ns), ErrNamespaceMismatch)
			case s.closed.Load():
				return nil, errors.Mark(errors.Newf("statsreg: %s shard %d is closed", s.n.ns, s.id),
					ErrClosed)
			case slices.Contains(shards, s):
				// A shard listed more than once contributes once.
				continue
			}
			shards = append(shards, s)
		}
	}

	snap := &Snapshot{
		Namespace: scope.ns,
		Cleared:   opts.Clear,
		Shards:    len(shards),
	}
	for _, id := range n.cat.SortedIDs() {
		d := n.cat.At(id)
		if !opts.reports(d, members) {
			continue
		}
		snap.Rows = append(snap.Rows, Row{
			ID:         id,
			Name:       d.Name,
			Desc:       d.Desc,
			Value:      aggregate(shards, id, d.Flags, opts.Clear),
			Flags:      d.Flags,
			UserFacing: d.UserFacing,
		})
	}
	snap.Taken = r.opts.private.nowFn()

	r.opts.EventListener.SnapshotTaken(SnapshotInfo{
		Namespace: scope.ns,
		Rows:      len(snap.Rows),
		Shards:    len(shards),
		Cleared:   opts.Clear,
		Duration:  time.Duration(snap.Taken - start),
	})
	return snap, nil
}

func (o *SnapshotOptions) reports(d *catalog.Definition, groupMembers []string) bool {
	switch {
	case d.Flags.Has(catalog.CacheWalk) && !o.CacheWalk:
		return false
	case d.Flags.Has(catalog.TreeWalk) && !o.TreeWalk:
		return false
	case o.UserFacingOnly && !d.UserFacing:
		return false
	case o.SizeOnly && !d.Flags.Has(catalog.Size):
		return false
	}
	if o.Group != "" {
		for _, p := range groupMembers {
			if p == d.Prefix {
				return true
			}
		}
		return false
	}
	return true
}

// aggregate reduces the statistic's cells across shards.
func aggregate(shards []*Shard, id catalog.ID, flags catalog.Flags, clear bool) int64 {
	reset := clear && !flags.Has(catalog.NoClear)
	read := func(s *Shard) int64 {
		if reset {
			return s.cells[id].Swap(0)
		}
		return s.cells[id].Load()
	}
	if len(shards) == 0 {
		return 0
	}
	if flags.Has(catalog.MaxAggregate) {
		v := read(shards[0])
		for _, s := range shards[1:] {
			v = max(v, read(s))
		}
		return v
	}
	var sum int64
	for _, s := range shards {
		sum += read(s)
	}
	return sum
}

func (n *namespace) refresh() error {
	n.refreshers.Lock()
	defer n.refreshers.Unlock()
	for _, fn := range n.refreshers.fns {
		if err := fn(n.totals); err != nil {
			return errors.Wrapf(err, "statsreg: refreshing %s statistics", n.ns)
		}
	}
	return nil
}

// Reported returns the definitions a snapshot of ns with the given options
// would report, in snapshot order.
func (r *Registry) Reported(ns catalog.Namespace, opts SnapshotOptions) ([]catalog.Definition, error) {
	n, err := r.lookupNamespace(ns)
	if err != nil {
		return nil, err
	}
	var members []string
	if opts.Group != "" {
		var err error
		if members, err = n.cat.MembersOf(opts.Group); err != nil {
			return nil, err
		}
	}
	var defs []catalog.Definition
	for _, id := range n.cat.SortedIDs() {
		if d := n.cat.At(id); opts.reports(d, members) {
			defs = append(defs, *d)
		}
	}
	return defs, nil
}
