// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package statsreg

import (
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/statsreg/catalog"
	"github.com/cockroachdb/statsreg/internal/invariants"
	"github.com/cockroachdb/statsreg/internal/shardset"
)

// Shard holds one counter cell per statistic of its namespace, indexed by
// catalog.ID. It belongs to a single owner (a connection, an open data
// source, a session or a join cursor) but may be updated from any number of
// goroutines concurrently. Updates never block.
//
// Opening and closing a shard is synchronized by its owner: no update may
// race with or follow Close.
type Shard struct {
	n      *namespace
	id     uint64
	ticket shardset.Ticket
	totals bool
	closed atomic.Bool
	cells  []atomic.Int64
}

func newShard(n *namespace, id uint64) *Shard {
	return &Shard{
		n:     n,
		id:    id,
		cells: make([]atomic.Int64, n.cat.Len()),
	}
}

// ID returns the shard's identifier, unique within its namespace. The totals
// shard has ID zero.
func (s *Shard) ID() uint64 {
	return s.id
}

// Namespace returns the shard's namespace.
func (s *Shard) Namespace() catalog.Namespace {
	return s.n.ns
}

func (s *Shard) cell(id catalog.ID) *atomic.Int64 {
	if invariants.Enabled {
		invariants.CheckBounds(int(id), len(s.cells))
		if s.closed.Load() {
			panic(errors.AssertionFailedf("statsreg: use of closed %s shard %d", s.n.ns, s.id))
		}
	}
	return &s.cells[id]
}

// Add adds delta to the statistic.
func (s *Shard) Add(id catalog.ID, delta int64) {
	s.cell(id).Add(delta)
}

// Max raises the statistic to v if v is larger than its current value.
func (s *Shard) Max(id catalog.ID, v int64) {
	storeMax(s.cell(id), v)
}

// Set stores v, for statistics that describe current state.
func (s *Shard) Set(id catalog.ID, v int64) {
	s.cell(id).Store(v)
}

// Value returns the statistic's current value in this shard alone.
func (s *Shard) Value(id catalog.ID) int64 {
	return s.cell(id).Load()
}

// Increment adds delta to the named statistic.
//
// An unknown name is a programming error: it panics if the registry is
// strict, and is otherwise dropped and reported to the event listener.
func (s *Shard) Increment(name string, delta int64) {
	if id, ok := s.lookup(name, "increment"); ok {
		s.Add(id, delta)
	}
}

// SetMax raises the named statistic to v if v is larger. Unknown names are
// handled as in Increment.
func (s *Shard) SetMax(name string, v int64) {
	if id, ok := s.lookup(name, "set-max"); ok {
		s.Max(id, v)
	}
}

// Get returns the named statistic's current value in this shard alone.
func (s *Shard) Get(name string) (int64, error) {
	id, err := s.n.cat.ID(name)
	if err != nil {
		return 0, err
	}
	return s.Value(id), nil
}

func (s *Shard) lookup(name, op string) (catalog.ID, bool) {
	id, err := s.n.cat.ID(name)
	if err != nil {
		s.n.r.unknownStat(s.n.ns, name, op)
		return 0, false
	}
	return id, true
}

// Close retires the shard. Each non-zero cell is either folded into the
// namespace totals or, for no_clear statistics, discarded: max_aggregate
// statistics fold by maximum, all others by sum. The shard must not be used
// afterwards.
//
// Cells are folded while the shard is still listed, so a concurrent
// namespace-wide snapshot observes every value in exactly one of the shard
// and the totals.
func (s *Shard) Close() error {
	if s.totals {
		return errors.AssertionFailedf("statsreg: %s totals shard cannot be closed", s.n.ns)
	}
	if !s.closed.CompareAndSwap(false, true) {
		return errors.Mark(errors.AssertionFailedf("statsreg: %s shard %d closed twice", s.n.ns, s.id),
			ErrClosed)
	}
	totals := s.n.totals
	var folded, discarded int
	for i := range s.cells {
		v := s.cells[i].Swap(0)
		if v == 0 {
			continue
		}
		d := s.n.cat.At(catalog.ID(i))
		switch {
		case d.Flags.Has(catalog.NoClear):
			discarded++
		case d.Flags.Has(catalog.MaxAggregate):
			storeMax(&totals.cells[i], v)
			folded++
		default:
			totals.cells[i].Add(v)
			folded++
		}
	}
	s.n.live.Remove(s.ticket)
	s.n.r.opts.EventListener.ShardClosed(ShardCloseInfo{
		Namespace: s.n.ns,
		ShardID:   s.id,
		Folded:    folded,
		Discarded: discarded,
	})
	return nil
}

func storeMax(c *atomic.Int64, v int64) {
	for {
		old := c.Load()
		if v <= old || c.CompareAndSwap(old, v) {
			return
		}
	}
}
