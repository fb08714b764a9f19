// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

const testCatalog = `
groups:
  evict: [cache]
catalogs:
  - namespaces: [connection]
    stats:
      - {name: cache_read, prefix: cache, desc: "pages read into cache"}
      - {name: files_open, prefix: connection, desc: "files currently open", flags: [no_clear, no_scale]}
      - {name: txn_commit, prefix: transaction, desc: "transactions committed", user_facing: true}
`

func writeCatalog(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "stats.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestCatalogCommands(t *testing.T) {
	path := writeCatalog(t, testCatalog)

	out, err := run(t, "catalog", "list", "--file", path, "--namespace", "connection", "--group", "")
	require.NoError(t, err)
	require.Contains(t, out, "cache: pages read into cache")
	require.Contains(t, out, "no_clear,no_scale")
	require.Contains(t, out, "3 connection statistics")

	out, err = run(t, "catalog", "list", "--file", path, "--group", "evict")
	require.NoError(t, err)
	require.Contains(t, out, "1 connection statistics")

	out, err = run(t, "catalog", "groups", "--file", path)
	require.NoError(t, err)
	require.Equal(t, "evict: cache\n", out)

	out, err = run(t, "catalog", "lint", "--file", path)
	require.NoError(t, err)
	require.Equal(t, "", out)

	bad := writeCatalog(t, `
catalogs:
  - namespaces: [session]
    stats:
      - {name: cursors, prefix: session, desc: "cursors currently open", flags: [no_clear]}
`)
	out, err = run(t, "catalog", "lint", "--file", bad, "--group", "")
	require.Error(t, err)
	require.Contains(t, out, "session/cursors: no_clear set without no_scale")
}

func TestBuiltinCatalogList(t *testing.T) {
	out, err := run(t, "catalog", "list", "--file", "", "--namespace", "join", "--group", "")
	require.NoError(t, err)
	require.Contains(t, out, "5 join statistics")
}

func TestSnapshotCommand(t *testing.T) {
	path := writeCatalog(t, testCatalog)
	out, err := run(t, "snapshot", "--file", path, "--namespace", "connection",
		"--shards", "2", "--updates", "100", "--intervals", "2", "--plot", "cache_read")
	require.NoError(t, err)
	require.Contains(t, out, "interval 2")
	require.Contains(t, out, "window of 3 snapshots")
	require.Contains(t, out, "cache_read (mean")

	out, err = run(t, "snapshot", "--file", path, "--intervals", "0", "--plot", "", "--prometheus")
	require.NoError(t, err)
	require.Contains(t, out, "# TYPE storage_connection_files_open gauge")
	require.Contains(t, out, "# TYPE storage_connection_cache_read counter")
}

func TestBenchCommand(t *testing.T) {
	out, err := run(t, "bench", "--file", "", "--namespace", "data-source",
		"--concurrency", "4", "--ops", "2000", "--shard-ops", "300")
	require.NoError(t, err)
	require.Contains(t, out, "p99")
}
