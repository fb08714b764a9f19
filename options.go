// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package statsreg

import (
	"strings"

	"github.com/cockroachdb/crlib/crtime"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
	"github.com/cockroachdb/statsreg/catalog"
	"github.com/cockroachdb/statsreg/catalog/builtin"
	"github.com/cockroachdb/statsreg/internal/invariants"
)

// Options holds the optional parameters for configuring a Registry. The zero
// value is a registry over the built-in catalogue with statistics enabled.
type Options struct {
	// Catalogs are the statistic definitions, one catalogue per namespace. The
	// registry freezes them. If nil, the built-in catalogue is loaded.
	Catalogs *catalog.Set

	// Statistics configures which statistics are maintained, as parsed by
	// ParseStatisticsConfig. The zero value gathers all statistics.
	Statistics StatisticsConfig

	// EventListener provides hooks to listening to registry events. A nil
	// listener reports unknown statistics to the Logger and ignores all other
	// events.
	EventListener *EventListener

	// Logger used to write log messages.
	//
	// The default logger uses the Go standard library log package.
	Logger Logger

	// StrictUnknownStats causes updates naming an unregistered statistic to
	// panic. It is always enabled in invariants builds. Otherwise such updates
	// are dropped and reported through EventListener.UnknownStat.
	StrictUnknownStats bool

	// UnknownStatReportRate bounds the rate, in events per second, at which
	// dropped unknown-statistic updates are reported. Events over the rate are
	// counted and summarized in the next reported event.
	UnknownStatReportRate float64

	// private options are only used by internal tests.
	private struct {
		nowFn func() crtime.Mono
	}
}

// EnsureDefaults ensures that the default values for all options are set if a
// valid value was not already specified.
func (o *Options) EnsureDefaults() *Options {
	if o == nil {
		o = &Options{}
	}
	if o.Catalogs == nil {
		o.Catalogs = builtin.MustLoad()
	}
	if o.Logger == nil {
		o.Logger = DefaultLogger{}
	}
	if o.EventListener == nil {
		o.EventListener = &EventListener{}
	}
	o.EventListener.EnsureDefaults(o.Logger)
	if invariants.Enabled {
		o.StrictUnknownStats = true
	}
	if o.UnknownStatReportRate <= 0 {
		o.UnknownStatReportRate = 1
	}
	if o.private.nowFn == nil {
		o.private.nowFn = crtime.NowMono
	}
	return o
}

// StatisticsMode selects how many statistics are gathered.
type StatisticsMode uint8

const (
	// StatisticsAll gathers every statistic, including those requiring a walk
	// of the cache or of the trees.
	StatisticsAll StatisticsMode = iota
	// StatisticsFast gathers statistics that are cheap to collect. Cache and
	// tree walk statistics are only reported when explicitly requested.
	StatisticsFast
	// StatisticsNone disables statistics.
	StatisticsNone
)

var statisticsModeNames = [...]string{
	StatisticsAll:  "all",
	StatisticsFast: "fast",
	StatisticsNone: "none",
}

func (m StatisticsMode) String() string {
	if int(m) < len(statisticsModeNames) {
		return statisticsModeNames[m]
	}
	return "unknown"
}

// StatisticsConfig is a parsed statistics configuration.
type StatisticsConfig struct {
	Mode StatisticsMode
	// Clear requests clearing snapshots.
	Clear bool
	// CacheWalk and TreeWalk request the walk statistics in fast mode. They
	// are implied by StatisticsAll.
	CacheWalk bool
	TreeWalk  bool
	// Size restricts reporting to byte-count statistics.
	Size bool
}

// ParseStatisticsConfig parses a statistics configuration such as
// "statistics=(fast,clear)". The "statistics=" key and the parentheses are
// optional. Recognized keywords are all, fast, none, clear, cache_walk,
// tree_walk and size. At most one of all, fast and none may be given, and none
// may not be combined with any other keyword. Without a mode keyword the mode
// is all.
func ParseStatisticsConfig(s string) (StatisticsConfig, error) {
	var c StatisticsConfig
	v := strings.TrimSpace(s)
	v = strings.TrimSpace(strings.TrimPrefix(v, "statistics="))
	if strings.HasPrefix(v, "(") {
		if !strings.HasSuffix(v, ")") {
			return c, errors.Newf("statsreg: invalid statistics configuration %q", s)
		}
		v = v[1 : len(v)-1]
	}

	var mode string
	var other []string
	for _, kw := range strings.Split(v, ",") {
		kw = strings.TrimSpace(kw)
		switch kw {
		case "":
		case "all", "fast", "none":
			if mode != "" {
				return StatisticsConfig{}, errors.Newf(
					"statsreg: statistics configuration %q: %s conflicts with %s", s, kw, mode)
			}
			mode = kw
			switch kw {
			case "fast":
				c.Mode = StatisticsFast
			case "none":
				c.Mode = StatisticsNone
			}
		case "clear":
			c.Clear = true
			other = append(other, kw)
		case "cache_walk":
			c.CacheWalk = true
			other = append(other, kw)
		case "tree_walk":
			c.TreeWalk = true
			other = append(other, kw)
		case "size":
			c.Size = true
			other = append(other, kw)
		default:
			return StatisticsConfig{}, errors.Newf(
				"statsreg: statistics configuration %q: unknown keyword %q", s, kw)
		}
	}
	if c.Mode == StatisticsNone && len(other) > 0 {
		return StatisticsConfig{}, errors.Newf(
			"statsreg: statistics configuration %q: none conflicts with %s", s, strings.Join(other, ","))
	}
	if c.Mode == StatisticsAll {
		c.CacheWalk, c.TreeWalk = true, true
	}
	return c, nil
}

// MustParseStatisticsConfig is like ParseStatisticsConfig but panics on error.
func MustParseStatisticsConfig(s string) StatisticsConfig {
	c, err := ParseStatisticsConfig(s)
	if err != nil {
		panic(err)
	}
	return c
}

// SnapshotOptions returns the snapshot options the configuration requests.
func (c StatisticsConfig) SnapshotOptions() SnapshotOptions {
	return SnapshotOptions{
		Clear:     c.Clear,
		CacheWalk: c.CacheWalk,
		TreeWalk:  c.TreeWalk,
		SizeOnly:  c.Size,
	}
}

func (c StatisticsConfig) String() string {
	return redact.StringWithoutMarkers(c)
}

// SafeFormat implements redact.SafeFormatter. The output is accepted by
// ParseStatisticsConfig.
func (c StatisticsConfig) SafeFormat(w redact.SafePrinter, _ rune) {
	kws := []string{c.Mode.String()}
	if c.Clear {
		kws = append(kws, "clear")
	}
	if c.Mode == StatisticsFast {
		if c.CacheWalk {
			kws = append(kws, "cache_walk")
		}
		if c.TreeWalk {
			kws = append(kws, "tree_walk")
		}
	}
	if c.Size {
		kws = append(kws, "size")
	}
	w.Printf("statistics=(%s)", redact.SafeString(strings.Join(kws, ",")))
}
