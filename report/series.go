// Copyright 2023 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package report

import (
	"time"

	"github.com/cockroachdb/crlib/crtime"
	"github.com/cockroachdb/statsreg"
	"github.com/guptarohit/asciigraph"
)

// Series holds the values of one statistic sampled over time, typically from
// periodic snapshots.
type Series struct {
	Name    string
	samples []point
	start   crtime.Mono
}

type point struct {
	offset time.Duration
	v      int64
}

// Record adds a sample taken at the given time. Samples must be recorded in
// time order.
func (s *Series) Record(at crtime.Mono, v int64) {
	if len(s.samples) == 0 {
		s.start = at
	}
	s.samples = append(s.samples, point{offset: time.Duration(at - s.start), v: v})
}

// RecordSnapshot records the series' statistic from snap, at the time the
// snapshot was taken. It returns false if the snapshot does not report the
// statistic.
func (s *Series) RecordSnapshot(snap *statsreg.Snapshot) bool {
	row, ok := snap.Lookup(s.Name)
	if ok {
		s.Record(snap.Taken, row.Value)
	}
	return ok
}

// Len returns the number of samples.
func (s *Series) Len() int {
	return len(s.samples)
}

// Mean returns the mean of the samples, or zero without samples.
func (s *Series) Mean() float64 {
	if len(s.samples) == 0 {
		return 0
	}
	var sum float64
	for _, p := range s.samples {
		sum += float64(p.v)
	}
	return sum / float64(len(s.samples))
}

// Min returns the smallest sample, or zero without samples.
func (s *Series) Min() int64 {
	if len(s.samples) == 0 {
		return 0
	}
	m := s.samples[0].v
	for _, p := range s.samples[1:] {
		m = min(m, p.v)
	}
	return m
}

// Max returns the largest sample, or zero without samples.
func (s *Series) Max() int64 {
	if len(s.samples) == 0 {
		return 0
	}
	m := s.samples[0].v
	for _, p := range s.samples[1:] {
		m = max(m, p.v)
	}
	return m
}

// Values resamples the series into n buckets equally spaced over the recorded
// period. A bucket holds the last sample falling into it; an empty bucket
// holds the next sample recorded after it.
func (s *Series) Values(n int) []float64 {
	_, values := s.buckets(n)
	return values
}

func (s *Series) buckets(n int) (width time.Duration, values []float64) {
	if len(s.samples) == 0 || n < 1 {
		return 0, nil
	}
	values = make([]float64, n)
	width = s.samples[len(s.samples)-1].offset / time.Duration(n)
	if width <= 0 {
		// All samples were taken at the same instant.
		for i := range values {
			values[i] = float64(s.samples[len(s.samples)-1].v)
		}
		return 0, values
	}
	filled := -1
	for _, p := range s.samples {
		b := min(int(p.offset/width), n-1)
		for ; filled < b; filled++ {
			values[filled+1] = float64(p.v)
		}
		values[b] = float64(p.v)
	}
	return width, values
}

// Plot renders the series as an ASCII graph width columns wide and height
// rows tall. Values are multiplied by scale first.
func (s *Series) Plot(width, height int, scale float64) string {
	values := s.Values(width)
	if len(values) == 0 {
		return ""
	}
	for i := range values {
		values[i] *= scale
	}
	return asciigraph.Plot(values, asciigraph.Height(height))
}

// PlotPerSec renders the per-second increase of a cumulative series. Buckets
// where the value went down (e.g. after a clear) plot as zero.
func (s *Series) PlotPerSec(width, height int, scale float64) string {
	bw, values := s.buckets(width)
	if len(values) == 0 || bw <= 0 {
		return ""
	}
	rates := make([]float64, len(values))
	prev := 0.0
	for i, v := range values {
		if v > prev {
			rates[i] = (v - prev) * scale / bw.Seconds()
		}
		prev = v
	}
	return asciigraph.Plot(rates, asciigraph.Height(height))
}
