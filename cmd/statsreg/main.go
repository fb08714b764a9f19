// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	catalogFile string
	namespace   string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "statsreg [command] (flags)",
	Short: "statistics catalogue introspection and registry benchmarking tool",
	Long:  ``,
}

func init() {
	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(
		catalogCmd,
		snapshotCmd,
		benchCmd,
	)

	rootCmd.PersistentFlags().StringVarP(
		&catalogFile, "file", "f", "", "catalogue YAML file (default: built-in catalogue)")
	rootCmd.PersistentFlags().StringVarP(
		&namespace, "namespace", "n", "connection",
		"statistics namespace (connection, data-source, session, join)")
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable verbose event logging")

	catalogListCmd.Flags().StringVar(
		&listGroup, "group", "", "only list statistics of the given group")

	snapshotCmd.Flags().IntVar(
		&snapshotConfig.shards, "shards", 4, "number of shards to open")
	snapshotCmd.Flags().IntVar(
		&snapshotConfig.updates, "updates", 10000, "number of random updates per interval")
	snapshotCmd.Flags().Int64Var(
		&snapshotConfig.seed, "seed", 1, "random seed")
	snapshotCmd.Flags().StringVar(
		&snapshotConfig.statistics, "statistics", "statistics=(fast)",
		"statistics configuration used for the snapshots")
	snapshotCmd.Flags().StringVar(
		&snapshotConfig.group, "group", "", "only report statistics of the given group")
	snapshotCmd.Flags().IntVar(
		&snapshotConfig.intervals, "intervals", 0,
		"report rates over this many intervals instead of a single snapshot")
	snapshotCmd.Flags().StringVar(
		&snapshotConfig.plot, "plot", "", "plot the named statistic over the intervals")
	snapshotCmd.Flags().BoolVar(
		&snapshotConfig.prometheus, "prometheus", false, "print the snapshot as Prometheus metrics")

	benchCmd.Flags().IntVarP(
		&benchConfig.concurrency, "concurrency", "c", 8, "number of concurrent workers")
	benchCmd.Flags().IntVar(
		&benchConfig.ops, "ops", 1000000, "number of increments per worker")
	benchCmd.Flags().IntVar(
		&benchConfig.shardOps, "shard-ops", 10000,
		"number of increments before a worker closes its shard and opens a new one")
	benchCmd.Flags().DurationVar(
		&benchConfig.snapshotInterval, "snapshot-interval", 0,
		"interval between clearing snapshots (0 to snapshot continuously)")
	benchCmd.Flags().StringVar(
		&benchConfig.stat, "stat", "cache_read", "statistic to increment")
}

func main() {
	log.SetFlags(0)

	if err := rootCmd.Execute(); err != nil {
		// Cobra has already printed the error message.
		os.Exit(1)
	}
}
