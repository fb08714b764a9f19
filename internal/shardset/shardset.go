// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package shardset implements the set of live shards of a statistics
// namespace.
//
// Shards are opened and closed on connection, session and cursor paths, so
// Insert and Remove avoid the set's mutex in the common case. Listing the set
// is comparatively rare (a snapshot) and takes the mutex.
package shardset

import (
	"runtime"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/statsreg/internal/invariants"
)

// Ticket identifies a member of a Set. Tickets are issued in increasing order
// and never reused within a set.
type Ticket uint64

// Set is a concurrent set of values addressed by Ticket.
//
// Inserts and removes are first recorded in the current segment with atomic
// operations only. When a segment fills up it is sealed, replaced, and its
// contents merged into the members map under the mutex. Listing always seals
// the current segment first, so a listing observes every Insert and Remove
// that returned before it started.
type Set[T any] struct {
	mu struct {
		sync.Mutex
		members map[Ticket]T
		// next is the first ticket of the next segment to be installed.
		next  Ticket
		spare []segment[T]
	}
	current atomic.Pointer[segment[T]]
}

// New returns an empty set.
func New[T any]() *Set[T] {
	s := &Set[T]{}
	s.mu.members = make(map[Ticket]T)
	s.mu.next = 1
	s.current.Store(s.newSegmentLocked())
	return s
}

// Insert adds v to the set and returns its ticket.
func (s *Set[T]) Insert(v T) Ticket {
	if t, ok := s.current.Load().tryInsert(v); ok {
		return t
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		if t, ok := s.current.Load().tryInsert(v); ok {
			return t
		}
		s.rotateLocked()
	}
}

// Remove removes the member with the given ticket, which must be present.
func (s *Set[T]) Remove(t Ticket) {
	if s.current.Load().tryRemove(t) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for !s.current.Load().tryRemove(t) {
		s.rotateLocked()
	}
}

// Collect appends every member to dest, in arbitrary order.
func (s *Set[T]) Collect(dest []T) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rotateLocked()
	dest = slices.Grow(dest, len(s.mu.members))
	for _, v := range s.mu.members {
		dest = append(dest, v)
	}
	return dest
}

// Len returns the number of members.
func (s *Set[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rotateLocked()
	return len(s.mu.members)
}

const (
	segmentSlots = 128
	spareBatch   = 16
)

func (s *Set[T]) newSegmentLocked() *segment[T] {
	if len(s.mu.spare) == 0 {
		s.mu.spare = make([]segment[T], spareBatch)
	}
	seg := &s.mu.spare[0]
	s.mu.spare = s.mu.spare[1:]
	seg.base = s.mu.next
	s.mu.next += segmentSlots
	return seg
}

// rotateLocked installs a fresh segment and merges the sealed one into the
// members map. Removals are applied first: they always refer to tickets of
// earlier segments, which are already in the map.
func (s *Set[T]) rotateLocked() {
	sealed := s.current.Swap(s.newSegmentLocked())
	inserted, removed := sealed.seal()

	for _, t := range sealed.removed[:removed] {
		if _, ok := s.mu.members[t]; invariants.Enabled && !ok {
			panic("shardset: removal of unknown ticket")
		}
		delete(s.mu.members, t)
	}
	for i := range sealed.slots[:inserted] {
		slot := &sealed.slots[i]
		if slot.removed.Load() {
			continue
		}
		s.mu.members[sealed.base+Ticket(i)] = slot.v
	}
}

// segment records up to segmentSlots inserts, which own the tickets
// [base, base+segmentSlots), and up to segmentSlots removals of tickets owned
// by earlier segments. Removals of its own tickets are marked in place.
//
// Slots are claimed by atomic increment rather than CAS, so the claim counters
// may run past segmentSlots; any value at or above it means the segment is
// full or sealed.
type segment[T any] struct {
	base  Ticket
	slots [segmentSlots]struct {
		v       T
		removed atomic.Bool
	}
	insertClaimed atomic.Uint32
	insertDone    atomic.Uint32
	localRemoves  atomic.Uint32

	removed      [segmentSlots]Ticket
	removeClaimed atomic.Uint32
	removeDone    atomic.Uint32
}

func (g *segment[T]) tryInsert(v T) (Ticket, bool) {
	i := g.insertClaimed.Add(1) - 1
	if i >= segmentSlots {
		return 0, false
	}
	g.slots[i].v = v
	g.insertDone.Add(1)
	return g.base + Ticket(i), true
}

func (g *segment[T]) tryRemove(t Ticket) bool {
	if t < g.base {
		i := g.removeClaimed.Add(1) - 1
		if i >= segmentSlots {
			return false
		}
		g.removed[i] = t
		g.removeDone.Add(1)
		return true
	}
	// A ticket from a later segment cannot exist: it would have been issued
	// after this segment was replaced.
	if invariants.Enabled && t >= g.base+segmentSlots {
		panic("shardset: removal of ticket from a future segment")
	}
	if g.localRemoves.Add(1) > segmentSlots {
		return false
	}
	if g.slots[t-g.base].removed.Swap(true) {
		// Checked in all builds: seal waits for the number of marked slots to
		// reach localRemoves and would never return.
		panic("shardset: ticket removed twice")
	}
	return true
}

// seal makes all further tryInsert and tryRemove calls fail, waits for the
// calls already in flight, and returns the number of inserts and external
// removals recorded.
func (g *segment[T]) seal() (inserted, removed uint32) {
	inserted = min(g.insertClaimed.Swap(segmentSlots), segmentSlots)
	removed = min(g.removeClaimed.Swap(segmentSlots), segmentSlots)
	local := min(g.localRemoves.Swap(segmentSlots), segmentSlots)

	for g.insertDone.Load() < inserted {
		runtime.Gosched()
	}
	for g.removeDone.Load() < removed {
		runtime.Gosched()
	}
	for {
		var marked uint32
		for i := range g.slots {
			if g.slots[i].removed.Load() {
				marked++
			}
		}
		if marked >= local {
			if invariants.Enabled && marked > local {
				panic("shardset: unaccounted local removal")
			}
			return inserted, removed
		}
		runtime.Gosched()
	}
}
