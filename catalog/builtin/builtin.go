// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package builtin provides the storage engine's statistics catalogue.
package builtin

import (
	"bytes"
	_ "embed"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/statsreg/catalog"
)

//go:embed stats.yaml
var statsYAML []byte

// YAML returns the raw catalogue file.
func YAML() []byte {
	return statsYAML
}

// Load parses the built-in catalogue. Every call returns a new, unfrozen set
// so that callers may register additional statistics before use.
func Load() (*catalog.Set, error) {
	s, err := catalog.LoadYAML(bytes.NewReader(statsYAML))
	if err != nil {
		return nil, errors.Wrap(err, "built-in catalog")
	}
	return s, nil
}

// MustLoad is like Load but panics on error.
func MustLoad() *catalog.Set {
	s, err := Load()
	if err != nil {
		panic(err)
	}
	return s
}
