// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/statsreg"
	"github.com/cockroachdb/statsreg/catalog"
	"github.com/cockroachdb/statsreg/promstats"
	"github.com/cockroachdb/statsreg/report"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
)

var snapshotConfig struct {
	shards     int
	updates    int
	seed       int64
	statistics string
	group      string
	intervals  int
	plot       string
	prometheus bool
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "populate a registry with random updates and report its statistics",
	Long: `
Opens shards in a namespace, applies random updates to randomly chosen
statistics and reports a snapshot. With --intervals, reports the rates over
each interval between snapshots instead. Unless the snapshots clear, the
rates over the whole window of intervals follow.
`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := statsreg.ParseStatisticsConfig(snapshotConfig.statistics)
	if err != nil {
		return err
	}
	r, ns, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	opts := cfg.SnapshotOptions()
	opts.Group = snapshotConfig.group
	defs, err := r.Reported(ns, opts)
	if err != nil {
		return err
	}
	if len(defs) == 0 {
		return errors.Newf("no %s statistics selected", ns)
	}

	shards := make([]*statsreg.Shard, snapshotConfig.shards)
	for i := range shards {
		shards[i] = r.OpenShard(ns)
	}
	defer func() {
		for _, s := range shards {
			_ = s.Close()
		}
	}()

	rng := rand.New(rand.NewSource(uint64(snapshotConfig.seed)))
	update := func() {
		for range snapshotConfig.updates {
			s := shards[rng.Intn(len(shards))]
			d := &defs[rng.Intn(len(defs))]
			switch {
			case d.Flags.Has(catalog.MaxAggregate):
				s.Max(d.ID, rng.Int63n(1<<10))
			case d.Flags.Has(catalog.NoClear):
				s.Set(d.ID, rng.Int63n(1<<20))
			default:
				s.Add(d.ID, 1+rng.Int63n(1<<10))
			}
		}
	}

	out := cmd.OutOrStdout()
	update()
	if snapshotConfig.intervals <= 0 {
		if snapshotConfig.prometheus {
			return printPrometheus(out, r, ns, opts)
		}
		snap, err := r.Snapshot(statsreg.NamespaceScope(ns), opts)
		if err != nil {
			return err
		}
		report.WriteSnapshot(out, snap)
		return nil
	}

	series := report.Series{Name: snapshotConfig.plot}
	prev, err := r.Snapshot(statsreg.NamespaceScope(ns), opts)
	if err != nil {
		return err
	}
	var window *report.Window
	if !opts.Clear {
		window = report.NewWindow(r, statsreg.NamespaceScope(ns), opts, time.Minute)
		if err := window.Collect(); err != nil {
			return err
		}
	}
	for i := range snapshotConfig.intervals {
		update()
		cur, err := r.Snapshot(statsreg.NamespaceScope(ns), opts)
		if err != nil {
			return err
		}
		rows, err := report.Interval{Prev: prev, Cur: cur}.Rows()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "interval %d\n", i+1)
		report.WriteTable(out, rows)
		if series.Name != "" {
			series.RecordSnapshot(cur)
		}
		if window != nil {
			if err := window.Collect(); err != nil {
				return err
			}
		}
		prev = cur
	}
	if window != nil {
		if iv, ok := window.Interval(); ok {
			rows, err := iv.Rows()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "window of %d snapshots\n", window.Len())
			report.WriteTable(out, rows)
		}
	}
	if series.Len() > 0 {
		fmt.Fprintf(out, "\n%s (mean %.1f, min %d, max %d)\n%s\n",
			series.Name, series.Mean(), series.Min(), series.Max(),
			series.Plot(max(series.Len(), 10), 10, 1))
	}
	return nil
}

func printPrometheus(w io.Writer, r *statsreg.Registry, ns catalog.Namespace, opts statsreg.SnapshotOptions) error {
	c, err := promstats.NewCollector(r, ns, promstats.WithSnapshotOptions(opts))
	if err != nil {
		return err
	}
	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(c); err != nil {
		return err
	}
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	slices.SortFunc(families, func(a, b *dto.MetricFamily) int {
		return strings.Compare(a.GetName(), b.GetName())
	})
	for _, f := range families {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n", f.GetName(), f.GetHelp(), f.GetName(),
			strings.ToLower(f.GetType().String()))
		for _, m := range f.GetMetric() {
			switch f.GetType() {
			case dto.MetricType_GAUGE:
				fmt.Fprintf(w, "%s %g\n", f.GetName(), m.GetGauge().GetValue())
			default:
				fmt.Fprintf(w, "%s %g\n", f.GetName(), m.GetCounter().GetValue())
			}
		}
	}
	return nil
}
