// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package statsreg

import (
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
	"github.com/cockroachdb/statsreg/catalog"
	"github.com/cockroachdb/statsreg/internal/shardset"
	"github.com/cockroachdb/tokenbucket"
)

// Refresher sets state-like statistics immediately before a namespace-wide
// snapshot. It is passed the namespace's totals shard, and typically calls
// Set on gauges such as the bytes currently held in the cache. An error
// aborts the snapshot.
type Refresher func(totals *Shard) error

// Registry owns the statistics of every namespace: the frozen catalogues, the
// set of live shards, and the totals folded in from closed shards.
type Registry struct {
	opts       *Options
	namespaces [catalog.NumNamespaces]namespace

	unknown struct {
		sync.Mutex
		limiter    tokenbucket.TokenBucket
		suppressed int64
	}
}

type namespace struct {
	r   *Registry
	ns  catalog.Namespace
	cat *catalog.Catalog
	// totals holds the values folded in from closed shards and the gauges set
	// by refreshers. It contributes to every namespace-wide snapshot and is
	// never closed.
	totals *Shard
	live   *shardset.Set[*Shard]
	nextID atomic.Uint64

	refreshers struct {
		sync.Mutex
		fns []Refresher
	}
}

// New returns a registry over opts.Catalogs, which are frozen. A nil opts is
// equivalent to the zero Options.
func New(opts *Options) (*Registry, error) {
	if opts != nil {
		// Don't modify the caller's options.
		o := *opts
		opts = &o
	}
	opts = opts.EnsureDefaults()

	r := &Registry{opts: opts}
	r.unknown.limiter.Init(
		tokenbucket.TokensPerSecond(opts.UnknownStatReportRate),
		tokenbucket.Tokens(max(1, opts.UnknownStatReportRate)))

	opts.Catalogs.Freeze()
	for _, w := range opts.Catalogs.Lint() {
		opts.EventListener.CatalogLintWarning(w)
	}
	for ns := range catalog.NumNamespaces {
		n := &r.namespaces[ns]
		n.r = r
		n.ns = ns
		n.cat = opts.Catalogs.Catalog(ns)
		if n.cat == nil {
			return nil, errors.AssertionFailedf("statsreg: no %s catalog", ns)
		}
		n.live = shardset.New[*Shard]()
		n.totals = newShard(n, 0)
		n.totals.totals = true
	}
	return r, nil
}

// Catalog returns the catalogue of the given namespace, or nil if ns is not a
// valid namespace.
func (r *Registry) Catalog(ns catalog.Namespace) *catalog.Catalog {
	n, err := r.lookupNamespace(ns)
	if err != nil {
		return nil
	}
	return n.cat
}

func (r *Registry) lookupNamespace(ns catalog.Namespace) (*namespace, error) {
	if ns >= catalog.NumNamespaces {
		return nil, errors.AssertionFailedf("statsreg: invalid namespace %d", redact.Safe(uint8(ns)))
	}
	return &r.namespaces[ns], nil
}

// Statistics returns the statistics configuration the registry was created
// with.
func (r *Registry) Statistics() StatisticsConfig {
	return r.opts.Statistics
}

// OpenShard opens a shard in the given namespace. All of its cells start at
// zero. The shard contributes to namespace-wide snapshots until it is closed.
//
// OpenShard panics if ns is not a valid namespace.
func (r *Registry) OpenShard(ns catalog.Namespace) *Shard {
	n, err := r.lookupNamespace(ns)
	if err != nil {
		panic(err)
	}
	s := newShard(n, n.nextID.Add(1))
	s.ticket = n.live.Insert(s)
	r.opts.EventListener.ShardOpened(ShardOpenInfo{Namespace: ns, ShardID: s.id})
	return s
}

// AddRefresher registers fn to run before every namespace-wide snapshot of
// ns. Refreshers run in registration order.
func (r *Registry) AddRefresher(ns catalog.Namespace, fn Refresher) {
	n, err := r.lookupNamespace(ns)
	if err != nil {
		panic(err)
	}
	n.refreshers.Lock()
	defer n.refreshers.Unlock()
	n.refreshers.fns = append(n.refreshers.fns, fn)
}

// Increment adds delta to the named statistic of s.
func (r *Registry) Increment(s *Shard, name string, delta int64) {
	s.Increment(name, delta)
}

// SetMax raises the named statistic of s to v if v is larger.
func (r *Registry) SetMax(s *Shard, name string, v int64) {
	s.SetMax(name, v)
}

// unknownStat handles an update naming an unregistered statistic.
func (r *Registry) unknownStat(ns catalog.Namespace, name, op string) {
	if r.opts.StrictUnknownStats {
		panic(errors.Mark(errors.AssertionFailedf("statsreg: %s of unknown %s statistic %q", op, ns, name),
			ErrUnknownStat))
	}
	r.unknown.Lock()
	if ok, _ := r.unknown.limiter.TryToFulfill(1); !ok {
		r.unknown.suppressed++
		r.unknown.Unlock()
		return
	}
	suppressed := r.unknown.suppressed
	r.unknown.suppressed = 0
	r.unknown.Unlock()

	r.opts.EventListener.UnknownStat(UnknownStatInfo{
		Namespace:  ns,
		Name:       name,
		Op:         op,
		Suppressed: suppressed,
	})
}
