// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/cockroachdb/crlib/crhumanize"
	"github.com/cockroachdb/statsreg"
	"github.com/cockroachdb/statsreg/catalog"
	"github.com/olekukonko/tablewriter"
)

// WriteSnapshot renders a snapshot as a table of descriptions and printable
// values.
func WriteSnapshot(w io.Writer, snap *statsreg.Snapshot) {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Statistic", "Value"})
	tbl.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, r := range snap.Rows {
		tbl.Append([]string{r.Desc, r.Printable()})
	}
	tbl.Render()
}

// WriteTable renders interval rows as a table. Byte counts are humanized;
// rates are omitted for statistics that are not scaled.
func WriteTable(w io.Writer, rows []RateRow) {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Statistic", "Value", "Delta", "Per sec"})
	tbl.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, r := range rows {
		perSec := ""
		if r.Scaled {
			perSec = formatRate(r.PerSec, r.Flags)
		}
		tbl.Append([]string{r.Desc, r.Printable(), formatValue(r.Delta, r.Flags), perSec})
	}
	tbl.Render()
}

func formatValue(v int64, flags catalog.Flags) string {
	if flags.Has(catalog.Size) && v >= 0 {
		return string(crhumanize.Bytes(uint64(v), crhumanize.Compact, crhumanize.OmitI))
	}
	return strconv.FormatInt(v, 10)
}

func formatRate(v float64, flags catalog.Flags) string {
	if flags.Has(catalog.Size) && v >= 0 {
		return string(crhumanize.Bytes(uint64(v), crhumanize.Compact, crhumanize.OmitI)) + "/s"
	}
	return fmt.Sprintf("%.1f", v)
}
