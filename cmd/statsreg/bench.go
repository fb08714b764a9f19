// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/cockroachdb/crlib/crhumanize"
	"github.com/cockroachdb/crlib/crtime"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/statsreg"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	minLatency = 100 * time.Nanosecond
	maxLatency = 10 * time.Second
)

var benchConfig struct {
	concurrency      int
	ops              int
	shardOps         int
	snapshotInterval time.Duration
	stat             string
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "benchmark concurrent increments against clearing snapshots",
	Long: `
Runs --concurrency workers, each incrementing a statistic --ops times on its
own shard and replacing the shard every --shard-ops increments, while another
goroutine takes clearing snapshots of the namespace. Verifies that the
snapshots account for every increment exactly once, and reports snapshot
latencies.
`,
	Args: cobra.NoArgs,
	RunE: runBench,
}

func runBench(cmd *cobra.Command, args []string) error {
	r, ns, err := openRegistry(statsreg.StatisticsConfig{})
	if err != nil {
		return err
	}
	id, err := r.Catalog(ns).ID(benchConfig.stat)
	if err != nil {
		return err
	}
	shardOps := max(benchConfig.shardOps, 1)

	var workersDone atomic.Int32
	var reported int64
	latency := hdrhistogram.New(minLatency.Nanoseconds(), maxLatency.Nanoseconds(), 2)
	snapshot := func() error {
		start := crtime.NowMono()
		snap, err := r.Snapshot(statsreg.NamespaceScope(ns), statsreg.SnapshotOptions{Clear: true})
		if err != nil {
			return err
		}
		elapsed := min(max(start.Elapsed(), minLatency), maxLatency)
		if err := latency.RecordValue(elapsed.Nanoseconds()); err != nil {
			return err
		}
		row, _ := snap.Lookup(benchConfig.stat)
		reported += row.Value
		return nil
	}

	start := crtime.NowMono()
	g, ctx := errgroup.WithContext(context.Background())
	for range benchConfig.concurrency {
		g.Go(func() error {
			defer workersDone.Add(1)
			s := r.OpenShard(ns)
			for i := range benchConfig.ops {
				if i > 0 && i%shardOps == 0 {
					if err := s.Close(); err != nil {
						return err
					}
					if ctx.Err() != nil {
						return ctx.Err()
					}
					s = r.OpenShard(ns)
				}
				s.Add(id, 1)
			}
			return s.Close()
		})
	}
	g.Go(func() error {
		for int(workersDone.Load()) < benchConfig.concurrency {
			if err := snapshot(); err != nil {
				return err
			}
			if benchConfig.snapshotInterval > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(benchConfig.snapshotInterval):
				}
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := start.Elapsed()
	// Collect whatever was folded in after the last concurrent snapshot.
	if err := snapshot(); err != nil {
		return err
	}

	want := int64(benchConfig.concurrency) * int64(benchConfig.ops)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s increments in %s (%s/sec), %d snapshots\n",
		crhumanize.Count(want, crhumanize.Compact), elapsed.Round(time.Millisecond),
		crhumanize.Count(int64(float64(want)/elapsed.Seconds()), crhumanize.Compact),
		latency.TotalCount())

	tbl := tablewriter.NewWriter(out)
	tbl.SetHeader([]string{"Snapshot latency", "p50", "p95", "p99", "max", "mean"})
	tbl.Append([]string{
		"",
		time.Duration(latency.ValueAtQuantile(50)).String(),
		time.Duration(latency.ValueAtQuantile(95)).String(),
		time.Duration(latency.ValueAtQuantile(99)).String(),
		time.Duration(latency.Max()).String(),
		time.Duration(latency.Mean()).String(),
	})
	tbl.Render()

	if reported != want {
		return errors.Newf("snapshots reported %d increments, want %d", reported, want)
	}
	return nil
}
