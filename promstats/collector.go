// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package promstats exports the statistics of a registry namespace as
// Prometheus metrics.
package promstats

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/statsreg"
	"github.com/cockroachdb/statsreg/catalog"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace is the metric name prefix used unless WithNamespace is
// given.
const DefaultNamespace = "storage"

// Collector is a prometheus.Collector over one namespace of a registry. Each
// scrape takes a namespace-wide snapshot; scrapes never clear statistics.
//
// Statistics that describe state (no_clear) and max_aggregate statistics are
// exported as gauges, all others as counters.
type Collector struct {
	r     *statsreg.Registry
	ns    catalog.Namespace
	opts  statsreg.SnapshotOptions
	descs map[catalog.ID]metricDesc
	// errDesc describes the invalid metric reported when a snapshot fails.
	errDesc *prometheus.Desc
}

type metricDesc struct {
	desc      *prometheus.Desc
	valueType prometheus.ValueType
}

var _ prometheus.Collector = (*Collector)(nil)

// Option configures a Collector.
type Option func(*config)

type config struct {
	namespace string
	opts      statsreg.SnapshotOptions
	labels    prometheus.Labels
}

// WithNamespace sets the metric name prefix.
func WithNamespace(namespace string) Option {
	return func(c *config) { c.namespace = namespace }
}

// WithSnapshotOptions selects the statistics to export. Clear is ignored.
func WithSnapshotOptions(opts statsreg.SnapshotOptions) Option {
	return func(c *config) { c.opts = opts }
}

// WithConstLabels attaches constant labels, e.g. the data source URI, to
// every metric.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *config) { c.labels = labels }
}

// NewCollector returns a collector for namespace ns of r.
func NewCollector(r *statsreg.Registry, ns catalog.Namespace, opts ...Option) (*Collector, error) {
	cfg := config{namespace: DefaultNamespace}
	for _, o := range opts {
		o(&cfg)
	}
	cfg.opts.Clear = false

	defs, err := r.Reported(ns, cfg.opts)
	if err != nil {
		return nil, errors.Wrap(err, "promstats")
	}
	subsystem := sanitize(ns.String())
	c := &Collector{
		r:     r,
		ns:    ns,
		opts:  cfg.opts,
		descs: make(map[catalog.ID]metricDesc, len(defs)),
		errDesc: prometheus.NewDesc(
			prometheus.BuildFQName(cfg.namespace, subsystem, "snapshot_error"),
			"statistics snapshot failed", nil, cfg.labels),
	}
	for _, d := range defs {
		vt := prometheus.CounterValue
		if d.Flags.Has(catalog.NoClear) || d.Flags.Has(catalog.MaxAggregate) {
			vt = prometheus.GaugeValue
		}
		c.descs[d.ID] = metricDesc{
			desc: prometheus.NewDesc(
				prometheus.BuildFQName(cfg.namespace, subsystem, sanitize(d.Name)),
				d.Desc, nil, cfg.labels),
			valueType: vt,
		}
	}
	return c, nil
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.errDesc
	for _, md := range c.descs {
		ch <- md.desc
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap, err := c.r.Snapshot(statsreg.NamespaceScope(c.ns), c.opts)
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.errDesc, err)
		return
	}
	for _, row := range snap.Rows {
		md, ok := c.descs[row.ID]
		if !ok {
			continue
		}
		ch <- prometheus.MustNewConstMetric(md.desc, md.valueType, float64(row.Value))
	}
}

// sanitize maps s to a valid metric name component.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, s)
}
