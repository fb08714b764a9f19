// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package catalog

import "github.com/cockroachdb/errors"

var (
	// ErrUnknownStat is returned when a statistic name is not registered in
	// the catalogue being consulted. It indicates a mismatch between the caller
	// and the catalogue, never a transient condition.
	ErrUnknownStat = errors.New("statsreg: unknown statistic")

	// ErrUnknownGroup is returned when a statistics group was never declared.
	ErrUnknownGroup = errors.New("statsreg: unknown statistics group")

	// ErrDuplicateName is returned when a statistic name is registered twice in
	// the same namespace.
	ErrDuplicateName = errors.New("statsreg: duplicate statistic name")

	// ErrInvalidDefinition is returned when a definition violates a catalogue
	// invariant, such as a description that does not start with its prefix.
	ErrInvalidDefinition = errors.New("statsreg: invalid statistic definition")

	// ErrFrozen is returned when registering into a catalogue that is already
	// in use by a registry.
	ErrFrozen = errors.New("statsreg: catalog is frozen")
)
