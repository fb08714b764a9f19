// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package report

import (
	"sync"
	"time"

	"github.com/cockroachdb/statsreg"
)

// DefaultWindowPeriod is the collection period used when NewWindow is passed a
// non-positive period.
const DefaultWindowPeriod = time.Minute

// NewWindow creates a Window that snapshots scope every period. The snapshots
// never clear statistics. A non-positive period means DefaultWindowPeriod.
//
// Sample usage:
//
//	w := report.NewWindow(r, statsreg.NamespaceScope(catalog.Connection), opts, time.Minute)
//	w.Start()
//	defer w.Stop()
//	..
//	if iv, ok := w.Interval(); ok {
//	  rows, err := iv.Rows()
//	  ..
//	}
func NewWindow(
	r *statsreg.Registry, scope statsreg.Scope, opts statsreg.SnapshotOptions, period time.Duration,
) *Window {
	opts.Clear = false
	if period <= 0 {
		period = DefaultWindowPeriod
	}
	return &Window{r: r, scope: scope, opts: opts, period: period}
}

// Window maintains a sliding window of the most recent snapshots of a scope,
// so that rates can be computed over roughly resolution periods.
type Window struct {
	r      *statsreg.Registry
	scope  statsreg.Scope
	opts   statsreg.SnapshotOptions
	period time.Duration
	mu     struct {
		sync.Mutex
		running bool
		ring    ring
		// err is the error from the last background collection, if any.
		err   error
		timer *time.Timer
	}
}

// Collect takes a snapshot now and adds it to the window.
func (w *Window) Collect() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.collectLocked()
}

func (w *Window) collectLocked() error {
	snap, err := w.r.Snapshot(w.scope, w.opts)
	if err != nil {
		return err
	}
	w.mu.ring.add(snap)
	return nil
}

// Interval returns the interval between the oldest and the newest snapshot in
// the window. It returns false if fewer than two snapshots were collected.
func (w *Window) Interval() (Interval, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.mu.ring.n < 2 {
		return Interval{}, false
	}
	return Interval{Prev: w.mu.ring.oldest(), Cur: w.mu.ring.latest()}, true
}

// Len returns the number of snapshots in the window.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mu.ring.n
}

// Err returns the error from the most recent background collection.
func (w *Window) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mu.err
}

// Start background collection.
func (w *Window) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.mu.running {
		return
	}
	w.mu.ring = ring{}
	w.mu.running = true
	// We prefer a timer to a ticker and goroutine to avoid yet another
	// goroutine showing up in goroutine dumps.
	w.mu.timer = time.AfterFunc(0, w.tick)
}

// Stop background collection and wait for any in-progress collection to
// finish.
func (w *Window) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mu.running = false
	if w.mu.timer != nil {
		// If Stop fails, the timer function didn't reach the critical section yet;
		// when it does it will notice running=false and exit.
		w.mu.timer.Stop()
		w.mu.timer = nil
	}
}

func (w *Window) tick() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.mu.running {
		return
	}
	w.mu.err = w.collectLocked()
	w.mu.timer.Reset(w.period)
}

const resolution = 10

type ring struct {
	pos, n int
	buf    [resolution]*statsreg.Snapshot
}

func (r *ring) add(s *statsreg.Snapshot) {
	r.buf[r.pos] = s
	r.pos = (r.pos + 1) % resolution
	r.n = min(r.n+1, resolution)
}

func (r *ring) oldest() *statsreg.Snapshot {
	if r.n < resolution {
		return r.buf[0]
	}
	return r.buf[r.pos]
}

func (r *ring) latest() *statsreg.Snapshot {
	return r.buf[(r.pos+resolution-1)%resolution]
}
