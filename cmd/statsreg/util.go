// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/statsreg"
	"github.com/cockroachdb/statsreg/catalog"
	"github.com/cockroachdb/statsreg/catalog/builtin"
)

func loadCatalogs() (*catalog.Set, error) {
	if catalogFile == "" {
		return builtin.Load()
	}
	f, err := os.Open(catalogFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := catalog.LoadYAML(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", catalogFile)
	}
	return s, nil
}

func openRegistry(statistics statsreg.StatisticsConfig) (*statsreg.Registry, catalog.Namespace, error) {
	ns, err := catalog.ParseNamespace(namespace)
	if err != nil {
		return nil, 0, err
	}
	cats, err := loadCatalogs()
	if err != nil {
		return nil, 0, err
	}
	opts := &statsreg.Options{
		Catalogs:   cats,
		Statistics: statistics,
	}
	if verbose {
		l := statsreg.MakeLoggingEventListener(nil)
		opts.EventListener = &l
	}
	r, err := statsreg.New(opts)
	if err != nil {
		return nil, 0, err
	}
	return r, ns, nil
}
